package models

// HobbyCategory groups catalog entries for filtering and the summary chart
type HobbyCategory string

const (
	CategorySports       HobbyCategory = "sports"
	CategoryIntellectual HobbyCategory = "intellectual"
	CategoryArt          HobbyCategory = "art"
)

// CategoryLabel maps a category to its display label
var CategoryLabel = map[HobbyCategory]string{
	CategorySports:       "Active",
	CategoryIntellectual: "Intellectual",
	CategoryArt:          "Creative",
}

// Hobby is a static catalog entry; the catalog is not persisted or owned by
// this service.
type Hobby struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Category    HobbyCategory `json:"category"`
	ImageURL    string        `json:"imageUrl"`
}

// CategorySummary is one slice of the per-category bookmark count chart
type CategorySummary struct {
	Category HobbyCategory `json:"category"`
	Label    string        `json:"label"`
	Count    int           `json:"count"`
}
