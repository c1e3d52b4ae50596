package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/devfulton/footy-bingo/internal/adapter/bingopresenter"
	"github.com/devfulton/footy-bingo/internal/fixtures"
	"github.com/devfulton/footy-bingo/internal/service/bingo"
	"github.com/devfulton/footy-bingo/pkg/bingodto"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.cache.Ping(ctx); err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "cache_unhealthy", "cache unreachable", err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "footy-bingo",
		"timestamp": time.Now().UTC(),
	})
}

type indexData struct {
	Title          string
	WinTitle       string
	WinBody        string
	RosterFallback string
	NoneToday      string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	winTitle, winBody := s.formatter.WinBanner()
	data := indexData{
		Title:          "Football Bingo",
		WinTitle:       winTitle,
		WinBody:        winBody,
		RosterFallback: s.messages.MustRender("roster.fallback", nil),
		NoneToday:      s.messages.MustRender("fixtures.none_today", nil),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, data); err != nil {
		s.logger.Error("render index", zap.Error(err))
	}
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	respondJSON(s.logger, w, http.StatusOK, bingopresenter.ToDTOEvents(s.events))
}

func (s *Server) handleFixtures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	tz := strings.TrimSpace(q.Get("tz"))
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		message := s.messages.MustRender("fixtures.invalid_tz", map[string]string{"Zone": tz, "Fallback": "UTC"})
		s.respondError(w, http.StatusBadRequest, "bad_timezone", message, nil)
		return
	}

	day := time.Now().In(loc)
	if raw := strings.TrimSpace(q.Get("date")); raw != "" {
		day, err = time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "bad_date", "date must be YYYY-MM-DD", nil)
			return
		}
	}
	days := parseIntParam(r, "days", 1)

	list, err := s.fixtures.ListFixtures(r.Context(), day, days)
	if err != nil {
		message := s.messages.MustRender("fixtures.fetch_failed", nil)
		s.respondError(w, http.StatusBadGateway, "fixtures_unavailable", message, err)
		return
	}
	dto := bingopresenter.ToDTOFixtureList(list, day.Format("2006-01-02"), loc.String())
	if len(dto.Fixtures) == 0 {
		dto.Warning = s.messages.MustRender("fixtures.none_today", nil)
	}
	respondJSON(s.logger, w, http.StatusOK, dto)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	fixtureID, err := strconv.ParseInt(chi.URLParam(r, "fixtureID"), 10, 64)
	if err != nil || fixtureID <= 0 {
		s.respondError(w, http.StatusBadRequest, "bad_fixture_id", "fixture id must be a positive integer", nil)
		return
	}

	players, err := s.fixtures.RosterNames(r.Context(), fixtureID)
	if err != nil {
		if errors.Is(err, fixtures.ErrFixtureNotFound) {
			s.respondError(w, http.StatusNotFound, "fixture_not_found", "fixture not found", nil)
			return
		}
		// Roster failures are survivable: the UI falls back to manual entry.
		s.logger.Warn("roster fetch failed", zap.Int64("fixture_id", fixtureID), zap.Error(err))
		respondJSON(s.logger, w, http.StatusOK, bingodto.Roster{
			FixtureID: fixtureID,
			Players:   []string{},
			Warning:   s.messages.MustRender("fixtures.roster_failed", nil),
		})
		return
	}
	respondJSON(s.logger, w, http.StatusOK, bingopresenter.ToDTORoster(fixtureID, players))
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req bingodto.StartSessionRequest
	if !decodeJSON(s.logger, w, r, &req) {
		return
	}

	state, err := s.service.StartSession(r.Context(), sessionMeta(r), req.FixtureID, req.Timezone)
	if err != nil {
		switch {
		case errors.Is(err, bingo.ErrFixtureRequired):
			s.respondError(w, http.StatusBadRequest, "fixture_required", s.messages.MustRender("session.missing", nil), nil)
		case errors.Is(err, bingo.ErrBadTimezone):
			message := s.messages.MustRender("fixtures.invalid_tz", map[string]string{"Zone": req.Timezone, "Fallback": "UTC"})
			s.respondError(w, http.StatusBadRequest, "bad_timezone", message, nil)
		case errors.Is(err, fixtures.ErrFixtureNotFound):
			s.respondError(w, http.StatusNotFound, "fixture_not_found", "fixture not found", nil)
		default:
			s.respondError(w, http.StatusBadGateway, "fixtures_unavailable", s.messages.MustRender("fixtures.fetch_failed", nil), err)
		}
		return
	}
	respondJSON(s.logger, w, http.StatusOK, bingodto.SessionResponse{State: bingopresenter.ToDTOState(state)})
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.Status(r.Context(), sessionMeta(r))
	if err != nil {
		s.respondSessionError(w, err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, bingodto.SessionResponse{State: bingopresenter.ToDTOState(state)})
}

func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ClearSession(r.Context(), sessionMeta(r)); err != nil {
		s.respondError(w, http.StatusInternalServerError, "session_clear_failed", "could not clear session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetPlayers(w http.ResponseWriter, r *http.Request) {
	var req bingodto.SetPlayersRequest
	if !decodeJSON(s.logger, w, r, &req) {
		return
	}

	state, err := s.service.SetPlayers(r.Context(), sessionMeta(r), req.Players)
	if err != nil {
		if warning, ok := s.formatter.Warning(err, nil); ok {
			respondJSON(s.logger, w, http.StatusOK, bingodto.SessionResponse{Warning: warning})
			return
		}
		s.respondSessionError(w, err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, bingodto.SessionResponse{State: bingopresenter.ToDTOState(state)})
}

func (s *Server) handleAddSquare(w http.ResponseWriter, r *http.Request) {
	var req bingodto.AddSquareRequest
	if !decodeJSON(s.logger, w, r, &req) {
		return
	}

	res, err := s.service.AddSquare(r.Context(), sessionMeta(r), req.Category, req.Subject, req.Event)
	if err != nil {
		data := map[string]string{
			"Label":    strings.TrimSpace(req.Subject) + " " + strings.TrimSpace(req.Event),
			"Category": strings.TrimSpace(req.Category),
			"Subject":  strings.TrimSpace(req.Subject),
			"Event":    strings.TrimSpace(req.Event),
		}
		if warning, ok := s.formatter.Warning(err, data); ok {
			respondJSON(s.logger, w, http.StatusOK, bingodto.SquareResponse{Warning: warning})
			return
		}
		s.respondSessionError(w, err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, bingodto.SquareResponse{
		State: bingopresenter.ToDTOState(res.State),
		Label: res.Label,
	})
}

func (s *Server) handleUndoSquare(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.UndoSquare(r.Context(), sessionMeta(r))
	if err != nil {
		if warning, ok := s.formatter.Warning(err, nil); ok {
			respondJSON(s.logger, w, http.StatusOK, bingodto.SquareResponse{Warning: warning})
			return
		}
		s.respondSessionError(w, err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, bingodto.SquareResponse{
		State: bingopresenter.ToDTOState(res.State),
		Label: res.Label,
	})
}

func (s *Server) handleGenerateBoard(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GenerateBoard(r.Context(), sessionMeta(r))
	if err != nil {
		s.respondSessionError(w, err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, bingodto.SessionResponse{State: bingopresenter.ToDTOState(state)})
}

func (s *Server) handleToggleSquare(w http.ResponseWriter, r *http.Request) {
	var req bingodto.ToggleSquareRequest
	if !decodeJSON(s.logger, w, r, &req) {
		return
	}

	res, err := s.service.ToggleSquare(r.Context(), sessionMeta(r), req.Index)
	if err != nil {
		if warning, ok := s.formatter.Warning(err, nil); ok {
			respondJSON(s.logger, w, http.StatusOK, bingodto.ToggleResponse{Warning: warning})
			return
		}
		s.respondSessionError(w, err)
		return
	}
	respondJSON(s.logger, w, http.StatusOK, bingodto.ToggleResponse{
		State: bingopresenter.ToDTOState(res.State),
		Win:   res.Win,
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.Status(r.Context(), sessionMeta(r))
	if err != nil {
		s.respondSessionError(w, err)
		return
	}

	text := s.formatter.ShareGrid(bingopresenter.ToDTOState(state))
	if text == "" {
		warning, _ := s.formatter.Warning(bingo.ErrBoardNotGenerated, nil)
		respondJSON(s.logger, w, http.StatusOK, bingodto.ShareResponse{Warning: warning})
		return
	}
	respondJSON(s.logger, w, http.StatusOK, bingodto.ShareResponse{Text: text})
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.RenderCard(r.Context(), sessionMeta(r))
	if err != nil {
		if errors.Is(err, bingo.ErrBoardNotGenerated) {
			s.respondError(w, http.StatusNotFound, "board_not_generated", s.messages.MustRender("board.not_generated", nil), nil)
			return
		}
		s.respondSessionError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write card png", zap.Error(err))
	}
}

// respondSessionError covers the two failure modes every session operation
// shares: no session yet, or the cache itself failing.
func (s *Server) respondSessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, bingo.ErrSessionNotFound) {
		s.respondError(w, http.StatusNotFound, "session_not_found", s.messages.MustRender("session.missing", nil), nil)
		return
	}
	s.respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong", err)
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		s.logger.Warn("request failed",
			zap.Int("status", status),
			zap.String("code", code),
			zap.Error(err),
		)
	}
	respondJSON(s.logger, w, status, bingodto.DomainError{
		Code:      code,
		Message:   message,
		Retryable: status == http.StatusBadGateway || status == http.StatusServiceUnavailable,
	})
}

func respondJSON(logger *zap.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Warn("encode response", zap.Error(err))
	}
}

func decodeJSON(logger *zap.Logger, w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		respondJSON(logger, w, http.StatusBadRequest, bingodto.DomainError{
			Code:    "bad_request",
			Message: "invalid JSON body",
		})
		return false
	}
	return true
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
