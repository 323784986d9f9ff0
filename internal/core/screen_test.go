package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("size = %dx%d, expected 80x24", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("new screen should be blank, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetCellOutOfBounds(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetCell(5, 5, 'X', ColorRed)
	if c := s.GetCell(5, 5); c.Rune != 'X' || c.Color != ColorRed {
		t.Errorf("GetCell(5, 5) = %+v, expected X/red", c)
	}

	s.SetCell(-1, 0, 'A', ColorRed)
	s.SetCell(100, 0, 'A', ColorRed)
	s.Set(0, -1, 'A')
	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return space")
	}
}

func TestScreenDrawTextClipsAndColors(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColor(18, 1, "-42", ColorDamage)

	if s.Get(18, 1) != '-' || s.Get(19, 1) != '4' {
		t.Errorf("text should be clipped at right boundary, row = %q", strings.Split(s.String(), "\n")[1])
	}
	if s.GetCell(19, 1).Color != ColorDamage {
		t.Error("DrawTextColor should color every cell")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hi", ColorDefault)

	x := (20 - 2) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' {
		t.Errorf("DrawTextCentered failed, text not at expected position")
	}
}

func TestScreenDrawFrame(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(s.Bounds(), '#', ColorDefault)
	s.DrawFrame(NewRect(1, 1, 5, 4), ColorFrame)

	if s.Get(1, 1) != '╭' || s.Get(5, 4) != '╯' {
		t.Errorf("corners = %q %q", s.Get(1, 1), s.Get(5, 4))
	}
	if s.Get(3, 2) != ' ' {
		t.Errorf("frame interior should be cleared, got %q", s.Get(3, 2))
	}
	if s.Get(0, 0) != '#' {
		t.Error("DrawFrame should not touch outside area")
	}
}

func TestScreenShade(t *testing.T) {
	tests := []struct {
		name  string
		alpha uint8
		blank int
	}{
		{"transparent", 0, 0},
		{"half", 128, 32},
		{"opaque", 255, 64},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewScreen(8, 8)
			s.DrawRect(s.Bounds(), '#', ColorDefault)
			s.Shade(tc.alpha)

			got := strings.Count(s.String(), " ")
			if got != tc.blank {
				t.Errorf("Shade(%d) blanked %d cells, expected %d", tc.alpha, got, tc.blank)
			}
		})
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "AAAAA")
	s.DrawText(0, 1, "BBBBB")
	s.DrawText(0, 2, "CCCCC")

	if got := s.String(); got != "AAAAA\nBBBBB\nCCCCC" {
		t.Errorf("String() = %q", got)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawText(0, 0, "Hello")

	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Fatalf("after resize dimensions should be 8x4, got %dx%d", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.String(), "Hello") {
		t.Errorf("content should be preserved, got %q", s.String())
	}

	s.Resize(15, 8)
	if !strings.HasPrefix(s.String(), "Hello") {
		t.Errorf("content should be preserved after enlarging, got %q", s.String())
	}
}
