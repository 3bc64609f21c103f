// Package position maps pointer clicks on rendered pages to resolution
// independent comment positions and back to pixels.
package position

import (
	"errors"
	"strings"

	"github.com/sinedd777/resume-reviewer/internal/domain"
)

// ErrOutsidePage is returned when a click does not land on any rendered page.
var ErrOutsidePage = errors.New("click is outside every rendered page")

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64
	Height float64
}

// Rect is a rendered page's bounding box in the same coordinate space as clicks.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Contains reports whether p lies on r, edges included.
func (r Rect) Contains(p Point) bool {
	return r.Width > 0 && r.Height > 0 &&
		p.X >= r.Left && p.X <= r.Right() &&
		p.Y >= r.Top && p.Y <= r.Bottom()
}

func SizeOf(p domain.PageSize) Size {
	return Size{Width: p.Width, Height: p.Height}
}

// Capture converts a click into a normalized position on the first page whose
// rect contains it. selectedText is attached when non-blank.
func Capture(click Point, pages []Rect, selectedText string) (domain.Position, error) {
	for i, rect := range pages {
		if !rect.Contains(click) {
			continue
		}

		pos := domain.Position{
			PageNumber: i + 1,
			X:          clamp01((click.X - rect.Left) / rect.Width),
			Y:          clamp01((click.Y - rect.Top) / rect.Height),
		}
		if text := strings.TrimSpace(selectedText); text != "" {
			pos.SelectedText = text
		}
		return pos, nil
	}
	return domain.Position{}, ErrOutsidePage
}

// IsLegacy reports whether pos stores absolute pixels rather than fractions.
func IsLegacy(pos domain.Position) bool {
	return pos.X > 1 || pos.Y > 1
}

// Render returns the pixel location of pos on a page currently drawn at
// current. Legacy pixel positions are scaled by the ratio between the current
// width and the width the page had when the comment was placed; when that
// width is unknown the raw pixels are returned.
func Render(pos domain.Position, current Size, original Size) Point {
	if !IsLegacy(pos) {
		return Point{X: pos.X * current.Width, Y: pos.Y * current.Height}
	}

	if original.Width <= 0 || current.Width <= 0 {
		return Point{X: pos.X, Y: pos.Y}
	}
	scale := current.Width / original.Width
	return Point{X: pos.X * scale, Y: pos.Y * scale}
}

// Normalize rewrites a legacy pixel position as fractions of original. The
// pixel values are kept in OriginalX/OriginalY. It returns false when pos is
// already normalized or original is unusable.
func Normalize(pos domain.Position, original Size) (domain.Position, bool) {
	if !IsLegacy(pos) || original.Width <= 0 || original.Height <= 0 {
		return pos, false
	}

	px, py := pos.X, pos.Y
	out := pos
	out.X = clamp01(px / original.Width)
	out.Y = clamp01(py / original.Height)
	out.OriginalX = &px
	out.OriginalY = &py
	return out, true
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
