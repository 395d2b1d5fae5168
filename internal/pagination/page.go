package pagination

// Page is the envelope returned by list endpoints.
// Total is the size of the whole collection as reported by the caller.
type Page[T any] struct {
	Data   []T   `json:"data"`
	Total  int64 `json:"total"`
	Offset int64 `json:"offset"`
	Count  int64 `json:"count"`
}

// MapPage wraps items into a Page. total is trusted as given.
func MapPage[T any](controls Pager, items []T, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Data:   items,
		Count:  int64(len(items)),
		Offset: controls.Offset,
		Total:  total,
	}
}

// Window returns the part of items selected by p. Out-of-range offsets yield an empty slice.
func Window[T any](items []T, p Pager) []T {
	n := int64(len(items))
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Offset >= n || p.Limit <= 0 {
		return []T{}
	}
	end := n
	if p.Limit < n-p.Offset {
		end = p.Offset + p.Limit
	}
	return items[p.Offset:end]
}
