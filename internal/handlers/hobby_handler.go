package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/yewo0on/HobbyFind/internal/catalog"
	"github.com/yewo0on/HobbyFind/internal/models"
)

// HobbyHandler serves the static hobby catalog
type HobbyHandler struct{}

// NewHobbyHandler creates a new HobbyHandler
func NewHobbyHandler() *HobbyHandler {
	return &HobbyHandler{}
}

// RegisterHobbyRoutes registers catalog routes; these are public
func (h *HobbyHandler) RegisterHobbyRoutes(e *echo.Echo) {
	e.GET("/hobbies", h.ListHobbies)
	e.GET("/hobbies/:id", h.GetHobby)
}

// ListHobbies returns the catalog, optionally filtered by category
func (h *HobbyHandler) ListHobbies(c echo.Context) error {
	category := c.QueryParam("category")
	if category == "" {
		return c.JSON(http.StatusOK, echo.Map{"hobbies": catalog.Hobbies})
	}

	if !catalog.ValidCategory(category) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown category")
	}

	hobbies := catalog.ByCategory(models.HobbyCategory(category))
	return c.JSON(http.StatusOK, echo.Map{"hobbies": hobbies})
}

// GetHobby returns a single catalog entry by id
func (h *HobbyHandler) GetHobby(c echo.Context) error {
	hobby, ok := catalog.ByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Hobby not found")
	}
	return c.JSON(http.StatusOK, hobby)
}
