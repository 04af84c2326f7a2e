package internal

// RawMenuItem is one record as delivered by the menu backend. Field names on
// the wire are the backend's (Spanish) column names.
type RawMenuItem struct {
	ID          string `json:"id"`
	Category    string `json:"categoria"`
	Product     string `json:"producto"`
	Price       string `json:"precio"`
	Description string `json:"descripcion"`
	Image       string `json:"img"`
	Stock       string `json:"stock"`
	RowNumber   int    `json:"_rowNumber"`
}

// DisplayMenuItem is a normalized, display-ready menu item.
type DisplayMenuItem struct {
	ID          string  `json:"id"`
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Stock       int     `json:"stock"`
	Available   bool    `json:"available"`
}

type MenuCategory struct {
	Name  string            `json:"name"`
	Items []DisplayMenuItem `json:"items"`
}

type RunStatus string

const (
	RunOK     RunStatus = "ok"
	RunFailed RunStatus = "failed"
)

type SyncRunRow struct {
	ID            int
	TraceID       string
	Status        RunStatus
	RawCount      int
	ItemCount     int
	CategoryCount int
	Error         string
	DurationMs    int64
	CreatedAt     string
}
