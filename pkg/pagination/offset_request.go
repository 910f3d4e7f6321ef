package pagination

// OffsetRequest is a page/size request for the creator and admin
// listings, where feeds are short and offsets stay cheap.
type OffsetRequest struct {
	Page int `json:"page" query:"page" validate:"min=1"`
	Size int `json:"size" query:"size" validate:"min=1,max=100"`
}

// Validate defaults the page and clamps the size into the allowed range.
func (r *OffsetRequest) Validate() error {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if r.Size > PageMaxSize {
		r.Size = PageMaxSize
	}
	return nil
}
