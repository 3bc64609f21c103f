package domain

// Position locates a comment on a page. X and Y are fractions of the rendered
// page size; rows written before normalization hold pixel values instead.
type Position struct {
	PageNumber   int      `json:"pageNumber"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	SelectedText string   `json:"selectedText,omitempty"`
	OriginalX    *float64 `json:"originalX,omitempty"`
	OriginalY    *float64 `json:"originalY,omitempty"`
	Width        *float64 `json:"width,omitempty"`
	Height       *float64 `json:"height,omitempty"`
}

// Normalized reports whether both coordinates are fractions.
func (p Position) Normalized() bool {
	return p.X >= 0 && p.X <= 1 && p.Y >= 0 && p.Y <= 1
}
