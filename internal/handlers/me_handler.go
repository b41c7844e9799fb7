package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yewo0on/HobbyFind/internal/catalog"
	"github.com/yewo0on/HobbyFind/internal/models"
	"github.com/yewo0on/HobbyFind/internal/repositories"
)

// MeHandler serves the current user's aggregated bookmark view
type MeHandler struct {
	bookmarkRepository repositories.BookmarkRepository
}

// NewMeHandler creates a new MeHandler
func NewMeHandler(bookmarkRepo repositories.BookmarkRepository) *MeHandler {
	return &MeHandler{bookmarkRepository: bookmarkRepo}
}

// RegisterMeRoutes registers my-page routes
func (h *MeHandler) RegisterMeRoutes(g *echo.Group) {
	g.GET("/me/summary", h.GetSummary)
}

// GetSummary returns the caller's bookmarked hobbies joined against the
// catalog plus per-category counts for the summary chart. Bookmarked ids
// with no catalog entry are skipped.
func (h *MeHandler) GetSummary(c echo.Context) error {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil || claims.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	hobbyIDs, err := h.bookmarkRepository.ListHobbyIDs(claims.UserID)
	if err != nil {
		log.Printf("Failed to load bookmarks for summary (user %d): %v", claims.UserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load bookmarks")
	}

	counts := map[models.HobbyCategory]int{
		models.CategorySports:       0,
		models.CategoryIntellectual: 0,
		models.CategoryArt:          0,
	}

	hobbies := []models.Hobby{}
	for _, id := range hobbyIDs {
		hobby, found := catalog.ByID(id)
		if !found {
			continue
		}
		hobbies = append(hobbies, hobby)
		counts[hobby.Category]++
	}

	summary := []models.CategorySummary{}
	for _, category := range []models.HobbyCategory{models.CategorySports, models.CategoryIntellectual, models.CategoryArt} {
		summary = append(summary, models.CategorySummary{
			Category: category,
			Label:    models.CategoryLabel[category],
			Count:    counts[category],
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"email":   claims.Email,
		"hobbies": hobbies,
		"summary": summary,
	})
}
