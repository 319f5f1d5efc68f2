package viewmodel

// PageSizeOption is one choice in the page size selector.
type PageSizeOption struct {
	Size     int
	URL      string
	Selected bool
}

// Pagination contains pagination metadata for list views.
type Pagination struct {
	Page       int
	PageSize   int
	TotalPages int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int
	TotalCount int
	PrevURL    string
	NextURL    string
	PageSizes  []PageSizeOption
}
