package content

// Page is one window of a paginated post list.
type Page struct {
	Posts     []*Post
	Number    int // Effective 1-based page number.
	PerPage   int
	Total     int // Posts across all pages.
	PageCount int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.PageCount }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// Paginate slices a post list into the requested page. Page numbers
// below 1 clamp to 1; a page past the end comes back empty but keeps
// its number so callers can 404. perPage <= 0 disables pagination.
func Paginate(posts []*Post, page, perPage int) Page {
	total := len(posts)
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		return Page{Posts: posts, Number: 1, PerPage: total, Total: total, PageCount: 1}
	}

	pageCount := (total + perPage - 1) / perPage
	if pageCount == 0 {
		pageCount = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start >= total {
		return Page{Number: page, PerPage: perPage, Total: total, PageCount: pageCount}
	}
	if end > total {
		end = total
	}
	return Page{
		Posts:     posts[start:end],
		Number:    page,
		PerPage:   perPage,
		Total:     total,
		PageCount: pageCount,
	}
}
