package pagination

// CursorRequest asks for a page relative to an opaque cursor. An absent
// cursor starts from the top of the feed.
type CursorRequest struct {
	Cursor *string `json:"cursor,omitempty" query:"cursor"`
	Size   int     `json:"size" query:"size" validate:"min=1,max=100"`
}

// Validate clamps the size into the allowed range.
func (r *CursorRequest) Validate() error {
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
	return nil
}
