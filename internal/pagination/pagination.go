// Package pagination provides offset-based pagination utilities.
package pagination

// Metadata describes how a result set was sliced. It is serialized into the
// X-Pagination response header on list endpoints.
type Metadata struct {
	TotalItemCount int `json:"totalItemCount"`
	PageSize       int `json:"pageSize"`
	CurrentPage    int `json:"currentPage"`
	TotalPageCount int `json:"totalPageCount"`
}

// Window returns the offset and limit for the given page and page size.
// page starts at 1; pageSize must be strictly positive (callers clamp
// before invoking, see city.MaxPageSize).
func Window(page, pageSize int) (offset, limit int) {
	return (page - 1) * pageSize, pageSize
}

// Compute builds pagination metadata for a result set. A page beyond the
// last one is not an error; the corresponding window is simply empty.
func Compute(totalItemCount, page, pageSize int) Metadata {
	totalPages := totalItemCount / pageSize
	if totalItemCount%pageSize != 0 {
		totalPages++
	}
	return Metadata{
		TotalItemCount: totalItemCount,
		PageSize:       pageSize,
		CurrentPage:    page,
		TotalPageCount: totalPages,
	}
}
