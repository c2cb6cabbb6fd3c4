package repository

// Paginate slices items to the requested window. It must be applied after
// filtering so that filters see every match. Out-of-range windows yield an
// empty, non-nil slice.
func Paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit < end-offset {
		end = offset + limit
	}
	return items[offset:end]
}
