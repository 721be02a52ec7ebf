package model

import "slices"

// Category classifies a show.  The set is fixed and mirrored by the CHECK
// constraint on shows.category.
type Category string

const (
	Movie Category = "movie"
	Anime Category = "anime"
	Serie Category = "serie"
)

// Categories lists every valid category in display order.
var Categories = []Category{Movie, Anime, Serie}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// Show represents a catalog entry as stored in the `shows` table and as
// returned by the API.
//
// Fields:
//  ID          – primary key, assigned by the store.
//  Title       – display title, never empty.
//  Description – free text, never empty.
//  Category    – one of movie, anime, serie.
//  Image       – relative path of the uploaded image; nil when absent.
type Show struct {
	ID          int64    `json:"id"`          // shows.id
	Title       string   `json:"title"`       // shows.title
	Description string   `json:"description"` // shows.description
	Category    Category `json:"category"`    // shows.category
	Image       *string  `json:"image"`       // shows.image (nullable)
}
