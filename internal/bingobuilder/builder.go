package bingobuilder

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/devfulton/footy-bingo/internal/config"
	"github.com/devfulton/footy-bingo/internal/eventcat"
	"github.com/devfulton/footy-bingo/internal/fixtures"
	"github.com/devfulton/footy-bingo/internal/fotfast"
	"github.com/devfulton/footy-bingo/internal/msgcat"
	svcbingo "github.com/devfulton/footy-bingo/internal/service/bingo"
	"github.com/devfulton/footy-bingo/internal/service/cache"
)

type Deps struct {
	Service  *svcbingo.Service
	Fixtures *fixtures.Service
	Cache    *cache.CacheService
	Events   *eventcat.Catalog
	Messages *msgcat.Catalog
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL is required for bingo sessions/cache")
	}
	cconf, err := parseRedisURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	cacheSvc, err := cache.NewCacheService(*cconf, logger)
	if err != nil {
		return nil, fmt.Errorf("init cache: %w", err)
	}

	events, err := eventcat.New(cfg.EventCatalogDir)
	if err != nil {
		return nil, fmt.Errorf("load event catalog: %w", err)
	}
	messages, err := msgcat.New(cfg.MsgTemplateDir)
	if err != nil {
		return nil, fmt.Errorf("load message catalog: %w", err)
	}

	client := fotfast.NewClient(cfg.FotBaseURL,
		fotfast.WithTimeout(time.Duration(cfg.FotTimeoutSec)*time.Second),
		fotfast.WithRetry(cfg.FotRetries),
	)

	fixtureSvc, err := fixtures.NewService(client, cacheSvc, fixtures.Config{
		FixtureTTL: time.Duration(cfg.FixtureCacheTTLSec) * time.Second,
		RosterTTL:  time.Duration(cfg.RosterCacheTTLSec) * time.Second,
		MaxDays:    cfg.FixtureWindowDays,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("init fixtures: %w", err)
	}

	service, err := svcbingo.NewService(cacheSvc, fixtureSvc, events, svcbingo.NewSVGCardRenderer(), svcbingo.Config{
		SessionTTL:      time.Duration(cfg.SessionTTLSec) * time.Second,
		DefaultTimezone: cfg.DefaultTimezone,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Deps{
		Service:  service,
		Fixtures: fixtureSvc,
		Cache:    cacheSvc,
		Events:   events,
		Messages: messages,
	}, nil
}

func parseRedisURL(raw string) (*cache.CacheConfig, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	host := u.Hostname()
	portStr := u.Port()
	if portStr == "" {
		portStr = "6379"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}
	db := 0
	if u.Path != "" {
		p := strings.TrimPrefix(u.Path, "/")
		if p != "" {
			if n, err := strconv.Atoi(p); err == nil {
				db = n
			}
		}
	}
	pass, _ := u.User.Password()
	return &cache.CacheConfig{Host: host, Port: port, Password: pass, DB: db}, nil
}
