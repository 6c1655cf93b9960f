package shared

// Filter carries the paging and ordering options shared by all list
// queries. Domain repositories embed it in their own filter types and
// add their own criteria alongside it.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
}
