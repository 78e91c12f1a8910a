package domain

type Breadcrumb struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	IsCategory bool   `json:"is_category"`
}
