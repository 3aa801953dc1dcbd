package viz

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)

	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)

	if c.Grid[0][0] != brailleBase+0x1 {
		t.Errorf("expected dot 1 in cell 0, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != brailleBase+0x80 {
		t.Errorf("expected dot 8 in cell 1, got %U", c.Grid[0][1])
	}
	if c.Lit() != 2 {
		t.Errorf("expected 2 lit dots, got %d", c.Lit())
	}

	c.Clear()
	if c.Lit() != 0 {
		t.Errorf("expected empty canvas after clear, got %d", c.Lit())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	w, h := c.DotSize()
	if w != 20 || h != 20 {
		t.Fatalf("expected 20x20 dots, got %dx%d", w, h)
	}

	c.DrawLine(0, 0, 19, 0)
	if c.Lit() != 20 {
		t.Errorf("expected 20 dots for horizontal line, got %d", c.Lit())
	}

	c.Clear()
	c.DrawLine(0, 0, 19, 19)
	if c.Lit() != 20 {
		t.Errorf("expected 20 dots for diagonal line, got %d", c.Lit())
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Pen = 1
	c.Set(0, 0)

	plain := c.String()
	if strings.Count(plain, "\n") != 2 {
		t.Errorf("expected 2 rows, got %q", plain)
	}

	styled := c.Render([]lipgloss.Style{lipgloss.NewStyle(), lipgloss.NewStyle()})
	if strings.Count(styled, "\n") != 2 {
		t.Errorf("expected 2 rendered rows, got %q", styled)
	}
	if c.Ink[0][0] != 1 || c.Ink[0][1] != 0 {
		t.Errorf("unexpected ink %v", c.Ink[0])
	}
}
