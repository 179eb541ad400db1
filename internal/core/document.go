package core

// Category is the corpus partition a document belongs to.
type Category string

const (
	CategoryPolicy   Category = "policy"
	CategoryInvestor Category = "investor"
	CategoryNews     Category = "news"
	CategoryReport   Category = "report"
)

// AllCategories lists the valid document categories.
func AllCategories() []Category {
	return []Category{CategoryPolicy, CategoryInvestor, CategoryNews, CategoryReport}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPolicy, CategoryInvestor, CategoryNews, CategoryReport:
		return true
	default:
		return false
	}
}

// Document is a retrieval corpus candidate as supplied by a DocumentSource.
type Document struct {
	Text      string   `json:"text" yaml:"text"`
	Category  Category `json:"category" yaml:"category"`
	Timestamp string   `json:"timestamp" yaml:"timestamp"`
	Geography string   `json:"geography" yaml:"geography"`
	Source    string   `json:"source" yaml:"source"`
	Title     string   `json:"title,omitempty" yaml:"title,omitempty"`
}

// DocumentMetadata is the descriptive part of a document returned with
// search results.
type DocumentMetadata struct {
	Category  Category `json:"category"`
	Timestamp string   `json:"timestamp"`
	Geography string   `json:"geography"`
	Source    string   `json:"source"`
	Title     string   `json:"title"`
}

// RetrievalResult is one scored search hit.
type RetrievalResult struct {
	Text      string           `json:"text"`
	Metadata  DocumentMetadata `json:"metadata"`
	Relevance float64          `json:"relevance_score"`
}

// SearchFilters restricts a search to exact category and geography matches.
// Empty values do not filter.
type SearchFilters struct {
	Category  Category
	Geography string
}
