package pagination

// CursorResult is one page of a cursor feed. NextCursor is only set when
// a further page exists.
type CursorResult[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"next_cursor,omitempty"`
	HasMore    bool    `json:"has_more"`
}

// NewCursorResult builds a page from a size+1 fetch: the extra row, when
// present, is trimmed away and signals HasMore, and cursorFn derives the
// next cursor from the last row kept.
func NewCursorResult[T any](items []T, size int, cursorFn func(T) (string, error)) (*CursorResult[T], error) {
	hasMore := len(items) > size
	if hasMore {
		items = items[:size]
	}

	result := &CursorResult[T]{
		Items:   items,
		HasMore: hasMore,
	}

	if hasMore && len(items) > 0 {
		cursor, err := cursorFn(items[len(items)-1])
		if err != nil {
			return nil, err
		}
		result.NextCursor = &cursor
	}

	return result, nil
}
