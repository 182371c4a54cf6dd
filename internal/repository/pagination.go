package repository

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest carries the caller's page coordinates before
// normalization. Warranty listings never serve more than MaxPageSize
// rows per page.
type PageRequest struct {
	Page     int
	PageSize int
}

// PageResult is one page of a warranty listing plus the totals the
// list response reports.
type PageResult[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

// normalizePageRequest resolves zero and out-of-range coordinates:
// page below 1 becomes the first page, a missing size falls back to
// the default, and oversized requests cap at MaxPageSize.
func normalizePageRequest(in PageRequest) PageRequest {
	out := in
	if out.Page < 1 {
		out.Page = DefaultPage
	}
	if out.PageSize < 1 {
		out.PageSize = DefaultPageSize
	}
	if out.PageSize > MaxPageSize {
		out.PageSize = MaxPageSize
	}
	return out
}

func calcTotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	ps := int64(pageSize)
	pages := (total + ps - 1) / ps
	maxInt := int64(^uint(0) >> 1)
	if pages > maxInt {
		return int(maxInt)
	}
	return int(pages)
}
