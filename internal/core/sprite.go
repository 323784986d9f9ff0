package core

import (
	"time"
	"unicode/utf8"
)

// Sprite is a small piece of text art split in frames (cells) of equal size.
type Sprite struct {
	Frames [][]string
	Color  Color
}

// NewSprite creates a single-frame sprite.
func NewSprite(c Color, rows ...string) *Sprite {
	return &Sprite{Frames: [][]string{rows}, Color: c}
}

// Size returns the width and height of one frame.
func (s *Sprite) Size() (w, h int) {
	if s == nil || len(s.Frames) == 0 {
		return 0, 0
	}
	for _, row := range s.Frames[0] {
		w = Max(w, utf8.RuneCountInString(row))
	}
	return w, len(s.Frames[0])
}

// Draw paints the given frame with its top-left corner at (x, y).
// Spaces are transparent.
func (s *Sprite) Draw(scr *Screen, frame, x, y int) {
	if s == nil || frame < 0 || frame >= len(s.Frames) {
		return
	}
	for dy, row := range s.Frames[frame] {
		dx := 0
		for _, r := range row {
			if r != ' ' {
				scr.SetCell(x+dx, y+dy, r, s.Color)
			}
			dx++
		}
	}
}

// Animation steps through the frames of a sprite, one every Delay.
type Animation struct {
	Sprite  *Sprite
	Delay   time.Duration
	frame   int
	elapsed time.Duration
}

// NewAnimation creates an animation at its first frame.
func NewAnimation(s *Sprite, delay time.Duration) *Animation {
	return &Animation{Sprite: s, Delay: delay}
}

// Frame returns the current frame index.
func (a *Animation) Frame() int { return a.frame }

// Completed reports whether every frame has been shown.
func (a *Animation) Completed() bool {
	return a.Sprite == nil || a.frame >= len(a.Sprite.Frames)
}

// Update advances the animation and returns true once it is complete.
func (a *Animation) Update(dt time.Duration) bool {
	if a.Completed() {
		return true
	}
	a.elapsed += dt
	for a.elapsed >= a.Delay && !a.Completed() {
		a.elapsed -= a.Delay
		a.frame++
		if a.Delay <= 0 {
			break
		}
	}
	return a.Completed()
}

// Draw paints the current frame centered on (cx, cy).
func (a *Animation) Draw(scr *Screen, cx, cy int) {
	if a.Completed() {
		return
	}
	w, h := a.Sprite.Size()
	a.Sprite.Draw(scr, a.frame, cx-w/2, cy-h/2)
}
