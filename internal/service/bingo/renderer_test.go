package bingo

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/devfulton/footy-bingo/internal/board"
)

func renderDecode(t *testing.T, cells []string, marked []bool, title string) image.Image {
	t.Helper()
	data, err := NewSVGCardRenderer().RenderPNG(context.Background(), cells, marked, title)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func blankCard() ([]string, []bool) {
	cells := make([]string, board.Cells)
	cells[board.FreeIndex] = board.FreeSquareLabel
	marked := make([]bool, board.Cells)
	marked[board.FreeIndex] = true
	return cells, marked
}

func pixelAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestRenderPNGDimensions(t *testing.T) {
	cells, marked := blankCard()
	for i := range cells {
		if i != board.FreeIndex {
			cells[i] = fmt.Sprintf("Bukayo Saka %d shots", i)
		}
	}

	img := renderDecode(t, cells, marked, "Arsenal vs Liverpool")
	b := img.Bounds()
	if b.Dx() != cardWidth || b.Dy() != cardHeight {
		t.Fatalf("card is %dx%d, want %dx%d", b.Dx(), b.Dy(), cardWidth, cardHeight)
	}
}

func TestRenderPNGRejectsBadLengths(t *testing.T) {
	r := NewSVGCardRenderer()
	ctx := context.Background()

	if _, err := r.RenderPNG(ctx, make([]string, board.Cells-1), make([]bool, board.Cells), "t"); err == nil {
		t.Fatal("expected error for short cells")
	}
	if _, err := r.RenderPNG(ctx, make([]string, board.Cells), make([]bool, board.Cells-1), "t"); err == nil {
		t.Fatal("expected error for short marks")
	}
}

func TestRenderPNGCellFills(t *testing.T) {
	cells, marked := blankCard()
	marked[0] = true

	img := renderDecode(t, cells, marked, "")

	// probe inside the inner fill, clear of the border, icon corner and text
	markedProbe := pixelAt(img, sideMargin+14, topMargin+14)
	if markedProbe != markedCellFill {
		t.Fatalf("marked cell fill = %v, want %v", markedProbe, markedCellFill)
	}

	openProbe := pixelAt(img, sideMargin+cellWidth+cellGap+14, topMargin+14)
	if openProbe != openCellFill {
		t.Fatalf("open cell fill = %v, want %v", openProbe, openCellFill)
	}
}

func TestRenderPNGHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cells, marked := blankCard()
	if _, err := NewSVGCardRenderer().RenderPNG(ctx, cells, marked, "t"); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRenderIconImage(t *testing.T) {
	for _, name := range []string{"star", "ball"} {
		icon, err := renderIconImage(name, 48)
		if err != nil {
			t.Fatalf("renderIconImage(%s): %v", name, err)
		}
		b := icon.Bounds()
		if b.Dx() != 48 || b.Dy() != 48 {
			t.Fatalf("%s icon is %dx%d, want 48x48", name, b.Dx(), b.Dy())
		}
	}

	first, err := renderIconImage("star", 32)
	if err != nil {
		t.Fatalf("renderIconImage: %v", err)
	}
	second, err := renderIconImage("star", 32)
	if err != nil {
		t.Fatalf("renderIconImage: %v", err)
	}
	if first != second {
		t.Fatal("expected cached icon to be reused")
	}

	if _, err := renderIconImage("vuvuzela", 32); err == nil {
		t.Fatal("expected error for unknown icon")
	}
}

func TestWrapLabelFoldsAccentsAndBounds(t *testing.T) {
	lines := wrapLabel("José María Hernández 2 successful dribbles")
	if len(lines) == 0 {
		t.Fatal("no lines")
	}
	for _, line := range lines {
		if len(line) == 0 {
			t.Fatal("empty wrapped line")
		}
		for _, r := range line {
			if r > 127 && r != '…' {
				t.Fatalf("unfolded rune %q in line %q", r, line)
			}
		}
	}
	if got := wrapLabel("   "); got != nil {
		t.Fatalf("blank label produced lines %v", got)
	}

	long := wrapLabel("one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen")
	if len(long) > textMaxLines {
		t.Fatalf("wrapped to %d lines, max %d", len(long), textMaxLines)
	}
}
