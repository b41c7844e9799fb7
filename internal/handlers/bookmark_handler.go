package handlers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yewo0on/HobbyFind/internal/models"
	"github.com/yewo0on/HobbyFind/internal/repositories"
)

// BookmarkHandler handles bookmark HTTP requests
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository) *BookmarkHandler {
	return &BookmarkHandler{bookmarkRepository: bookmarkRepo}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.GET("/bookmarks", h.ListBookmarks)
	g.POST("/bookmarks", h.AddBookmark)
	g.DELETE("/bookmarks", h.RemoveBookmark)
}

// getUserIDFromContext extracts the authenticated user's ID from the claims
// stored by the JWT middleware. Returns 0 when unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// ListBookmarks returns the hobby ids bookmarked by the current user
func (h *BookmarkHandler) ListBookmarks(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	hobbyIDs, err := h.bookmarkRepository.ListHobbyIDs(currentUserID)
	if err != nil {
		log.Printf("Failed to load bookmarks for user %d: %v", currentUserID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load bookmarks")
	}
	if hobbyIDs == nil {
		hobbyIDs = []string{}
	}

	return c.JSON(http.StatusOK, echo.Map{"hobbyIds": hobbyIDs})
}

// AddBookmark bookmarks a hobby for the current user. Adding the same hobby
// twice is a no-op; the upsert resolves the conflict on (user_id, hobby_id).
func (h *BookmarkHandler) AddBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.BookmarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid hobbyId")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid hobbyId")
	}

	bookmark := &models.Bookmark{
		UserID:  currentUserID,
		HobbyID: req.HobbyID,
	}

	if err := h.bookmarkRepository.SaveBookmark(bookmark); err != nil {
		log.Printf("Failed to add bookmark (%d, %s): %v", currentUserID, req.HobbyID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add bookmark")
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// RemoveBookmark removes a hobby bookmark for the current user. Removing a
// bookmark that does not exist still succeeds.
func (h *BookmarkHandler) RemoveBookmark(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.BookmarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid hobbyId")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid hobbyId")
	}

	if err := h.bookmarkRepository.RemoveBookmark(currentUserID, req.HobbyID); err != nil {
		log.Printf("Failed to remove bookmark (%d, %s): %v", currentUserID, req.HobbyID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove bookmark")
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
