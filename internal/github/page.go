package github

const (
	DefaultPage    = 1
	DefaultPerPage = 30
)

// PageModel selects one page of a paginated listing.
type PageModel struct {
	Page    int
	PerPage int
}

// FirstPage returns the first page with the default page size.
func FirstPage() PageModel {
	return PageModel{Page: DefaultPage, PerPage: DefaultPerPage}
}

// Normalized replaces non-positive fields with their defaults.
func (p PageModel) Normalized() PageModel {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	return p
}

// Next returns the following page with the same size.
func (p PageModel) Next() PageModel {
	p = p.Normalized()
	p.Page++
	return p
}
