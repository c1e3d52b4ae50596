package bingo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/devfulton/footy-bingo/internal/board"
	"github.com/devfulton/footy-bingo/internal/util"
)

const (
	gridCells  = 5
	cellWidth  = 144
	cellHeight = 112
	cellGap    = 6

	sideMargin    = 28
	topMargin     = 86
	bottomMargin  = 28
	titleHeight   = 44
	titlePaddingX = 28
	titleMinWidth = 320
	panelRadius   = 12
	cellRadius    = 10
	cellInset     = 8
	markIconSize  = 20
	freeIconSize  = 40
	shadowOffsetY = 6

	textChars    = 18
	textMaxLines = 5
	lineHeight   = 15

	cardWidth  = sideMargin*2 + gridCells*cellWidth + (gridCells-1)*cellGap
	cardHeight = topMargin + gridCells*cellHeight + (gridCells-1)*cellGap + bottomMargin
)

var (
	cardBackground   = color.RGBA{255, 255, 255, 255}
	markedCellFill   = color.RGBA{110, 231, 183, 255}
	openCellFill     = color.RGBA{243, 244, 246, 255}
	cellBorderColor  = color.RGBA{204, 204, 204, 255}
	cellTextColor    = color.RGBA{17, 24, 39, 255}
	titlePanelColor  = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	titleShadowColor = color.NRGBA{0, 0, 0, 50}
	titleTextColor   = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
)

type svgCardRenderer struct {
}

func NewSVGCardRenderer() CardRenderer {
	return &svgCardRenderer{}
}

func (r *svgCardRenderer) RenderPNG(ctx context.Context, cells []string, marked []bool, title string) ([]byte, error) {
	if len(cells) != board.Cells || len(marked) != board.Cells {
		return nil, fmt.Errorf("card wants %d cells, got %d cells and %d marks", board.Cells, len(cells), len(marked))
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	img := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(cardBackground), image.Point{}, imagedraw.Src)

	r.drawTitle(img, title)
	for idx := range cells {
		if err := r.drawCell(img, idx, cells[idx], marked[idx]); err != nil {
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return pngBuf.Bytes(), nil
}

func (r *svgCardRenderer) drawTitle(img *image.RGBA, title string) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face}

	text := strings.TrimSpace(foldMarks(title))
	if text == "" {
		text = "Football Bingo"
	}

	gridLeft := sideMargin
	gridRight := cardWidth - sideMargin

	width := titleMinWidth
	if measured := drawer.MeasureString(text).Round() + titlePaddingX*2; measured > width {
		width = measured
	}
	if max := gridRight - gridLeft; width > max {
		width = max
	}

	top := (topMargin - titleHeight) / 2
	left := gridLeft + (gridRight-gridLeft-width)/2
	rect := image.Rect(left, top, left+width, top+titleHeight)

	drawRoundedPanel(img, rect.Add(image.Pt(0, shadowOffsetY)), panelRadius, titleShadowColor)
	drawRoundedPanel(img, rect, panelRadius, titlePanelColor)

	text = truncateWithEllipsis(face, text, rect.Dx()-titlePaddingX*2)
	drawCenteredString(drawer, rect, text, titleTextColor)
}

func (r *svgCardRenderer) drawCell(img *image.RGBA, idx int, label string, isMarked bool) error {
	row := idx / gridCells
	col := idx % gridCells
	x := sideMargin + col*(cellWidth+cellGap)
	y := topMargin + row*(cellHeight+cellGap)
	rect := image.Rect(x, y, x+cellWidth, y+cellHeight)

	fill := openCellFill
	if isMarked {
		fill = markedCellFill
	}
	drawRoundedPanel(img, rect, cellRadius, cellBorderColor)
	drawRoundedPanel(img, rect.Inset(2), cellRadius-2, fill)

	drawer := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	content := rect.Inset(cellInset)

	if idx == board.FreeIndex {
		iconAt := image.Pt(rect.Min.X+(cellWidth-freeIconSize)/2, content.Min.Y)
		if err := drawIcon(img, "star", freeIconSize, iconAt); err != nil {
			return err
		}
		textRect := image.Rect(content.Min.X, content.Min.Y+freeIconSize, content.Max.X, content.Max.Y)
		drawTextBlock(drawer, textRect, wrapLabel(strings.Trim(label, "⭐")), cellTextColor)
		return nil
	}

	if isMarked {
		iconAt := image.Pt(rect.Max.X-markIconSize-4, rect.Min.Y+4)
		if err := drawIcon(img, "ball", markIconSize, iconAt); err != nil {
			return err
		}
	}
	drawTextBlock(drawer, content, wrapLabel(label), cellTextColor)
	return nil
}

func drawIcon(img *image.RGBA, name string, size int, at image.Point) error {
	icon, err := renderIconImage(name, size)
	if err != nil {
		return err
	}
	rect := image.Rect(at.X, at.Y, at.X+size, at.Y+size)
	imagedraw.Draw(img, rect, icon, image.Point{}, imagedraw.Over)
	return nil
}

// wrapLabel folds combining marks (the bitmap face is ASCII-only), bounds
// the text and wraps it to the cell width.
func wrapLabel(text string) []string {
	folded := foldMarks(strings.TrimSpace(text))
	folded = util.EllipsizeRunes(folded, textChars*textMaxLines)
	lines := util.WrapRunes(folded, textChars)
	if len(lines) > textMaxLines {
		lines = lines[:textMaxLines]
	}
	return lines
}

func foldMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func drawTextBlock(drawer *font.Drawer, rect image.Rectangle, lines []string, clr color.Color) {
	if len(lines) == 0 {
		return
	}
	ascent := drawer.Face.Metrics().Ascent.Ceil()
	blockHeight := len(lines) * lineHeight
	startY := rect.Min.Y + (rect.Dy()-blockHeight)/2 + ascent
	if startY < rect.Min.Y+ascent {
		startY = rect.Min.Y + ascent
	}
	drawer.Src = image.NewUniform(clr)
	for i, line := range lines {
		width := drawer.MeasureString(line).Round()
		x := rect.Min.X + (rect.Dx()-width)/2
		if x < rect.Min.X {
			x = rect.Min.X
		}
		drawer.Dot = fixed.P(x, startY+i*lineHeight)
		drawer.DrawString(line)
	}
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	ellipsisWidth := drawer.MeasureString(ellipsis).Round()
	if ellipsisWidth > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}

	return ellipsis
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	if drawer == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	if radius < 0 {
		radius = 0
	}
	maxRadius := rect.Dx() / 2
	if r := rect.Dy() / 2; r < maxRadius {
		maxRadius = r
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	core := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	if core.Dx() > 0 {
		imagedraw.Draw(img, core, fill, image.Point{}, imagedraw.Over)
	}

	leftRect := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius)
	if leftRect.Dx() > 0 {
		imagedraw.Draw(img, leftRect, fill, image.Point{}, imagedraw.Over)
	}

	rightRect := image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	if rightRect.Dx() > 0 {
		imagedraw.Draw(img, rightRect, fill, image.Point{}, imagedraw.Over)
	}

	corners := []image.Point{
		{rect.Min.X + radius, rect.Min.Y + radius},
		{rect.Max.X - radius - 1, rect.Min.Y + radius},
		{rect.Min.X + radius, rect.Max.Y - radius - 1},
		{rect.Max.X - radius - 1, rect.Max.Y - radius - 1},
	}
	for _, center := range corners {
		drawDisc(img, center, radius, clr)
	}
}

func drawDisc(img *image.RGBA, center image.Point, radius int, clr color.Color) {
	if radius <= 0 {
		blendPixel(img, center.X, center.Y, clr)
		return
	}
	rSquared := radius * radius
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			blendPixel(img, center.X+x, center.Y+y, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if img == nil {
		return
	}
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}

	sr, sg, sb, sa := clr.RGBA()
	srcA := float64(sa) / 65535.0
	if srcA <= 0 {
		return
	}
	srcR := float64(sr) / 65535.0
	srcG := float64(sg) / 65535.0
	srcB := float64(sb) / 65535.0

	dst := img.RGBAAt(x, y)
	dstA := float64(dst.A) / 255.0

	var dstR, dstG, dstB float64
	if dstA > 0 {
		inv := 1.0 / dstA
		dstR = float64(dst.R) / 255.0 * inv
		dstG = float64(dst.G) / 255.0 * inv
		dstB = float64(dst.B) / 255.0 * inv
	}

	outA := srcA + dstA*(1-srcA)
	if outA <= 0 {
		img.SetRGBA(x, y, color.RGBA{})
		return
	}

	outR := (srcR*srcA + dstR*dstA*(1-srcA)) / outA
	outG := (srcG*srcA + dstG*dstA*(1-srcA)) / outA
	outB := (srcB*srcA + dstB*dstA*(1-srcA)) / outA

	img.SetRGBA(x, y, color.RGBA{
		R: floatToUint8(outR * outA * 255.0),
		G: floatToUint8(outG * outA * 255.0),
		B: floatToUint8(outB * outA * 255.0),
		A: floatToUint8(outA * 255.0),
	})
}

func floatToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
