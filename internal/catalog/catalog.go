package catalog

import "github.com/yewo0on/HobbyFind/internal/models"

// Hobbies is the static catalog the discovery pages render. Entries are not
// persisted; bookmark rows reference them by ID only.
var Hobbies = []models.Hobby{
	{ID: "running", Name: "Running", Description: "Start with a 20 minute jog and build toward your first 5K.", Category: models.CategorySports, ImageURL: "/images/hobbies/running.jpg"},
	{ID: "yoga", Name: "Yoga", Description: "Low-impact flows for flexibility, balance, and calm.", Category: models.CategorySports, ImageURL: "/images/hobbies/yoga.jpg"},
	{ID: "climbing", Name: "Indoor Climbing", Description: "Bouldering gyms welcome beginners, no rope skills needed.", Category: models.CategorySports, ImageURL: "/images/hobbies/climbing.jpg"},
	{ID: "swimming", Name: "Swimming", Description: "A full-body workout that is easy on the joints.", Category: models.CategorySports, ImageURL: "/images/hobbies/swimming.jpg"},
	{ID: "chess", Name: "Chess", Description: "Learn openings and tactics, play online at any level.", Category: models.CategoryIntellectual, ImageURL: "/images/hobbies/chess.jpg"},
	{ID: "reading", Name: "Book Club", Description: "Read one book a month and talk it over with others.", Category: models.CategoryIntellectual, ImageURL: "/images/hobbies/reading.jpg"},
	{ID: "coding", Name: "Creative Coding", Description: "Make generative art and small games with code.", Category: models.CategoryIntellectual, ImageURL: "/images/hobbies/coding.jpg"},
	{ID: "go-baduk", Name: "Go (Baduk)", Description: "An ancient board game with simple rules and deep strategy.", Category: models.CategoryIntellectual, ImageURL: "/images/hobbies/go.jpg"},
	{ID: "pottery", Name: "Pottery", Description: "Throw your first bowl on the wheel at a local studio.", Category: models.CategoryArt, ImageURL: "/images/hobbies/pottery.jpg"},
	{ID: "watercolor", Name: "Watercolor Painting", Description: "Loose, forgiving, and cheap to start.", Category: models.CategoryArt, ImageURL: "/images/hobbies/watercolor.jpg"},
	{ID: "photography", Name: "Photography", Description: "Composition and light, starting with the camera you have.", Category: models.CategoryArt, ImageURL: "/images/hobbies/photography.jpg"},
	{ID: "guitar", Name: "Acoustic Guitar", Description: "Four chords are enough for your first dozen songs.", Category: models.CategoryArt, ImageURL: "/images/hobbies/guitar.jpg"},
}

// ByID returns the catalog entry with the given id, or false if none exists.
func ByID(id string) (models.Hobby, bool) {
	for _, h := range Hobbies {
		if h.ID == id {
			return h, true
		}
	}
	return models.Hobby{}, false
}

// ByCategory returns all catalog entries in the given category.
func ByCategory(category models.HobbyCategory) []models.Hobby {
	result := []models.Hobby{}
	for _, h := range Hobbies {
		if h.Category == category {
			result = append(result, h)
		}
	}
	return result
}

// ValidCategory reports whether the given string names a known category.
func ValidCategory(category string) bool {
	_, ok := models.CategoryLabel[models.HobbyCategory(category)]
	return ok
}
