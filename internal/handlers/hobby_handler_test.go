package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yewo0on/HobbyFind/internal/catalog"
	"github.com/yewo0on/HobbyFind/internal/models"
)

func TestListHobbiesReturnsFullCatalog(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/hobbies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, NewHobbyHandler().ListHobbies(c))

	var body struct {
		Hobbies []models.Hobby `json:"hobbies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Hobbies, len(catalog.Hobbies))
}

func TestListHobbiesFiltersByCategory(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/hobbies?category=art", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, NewHobbyHandler().ListHobbies(c))

	var body struct {
		Hobbies []models.Hobby `json:"hobbies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Hobbies)
	for _, h := range body.Hobbies {
		assert.Equal(t, models.CategoryArt, h.Category)
	}
}

func TestListHobbiesRejectsUnknownCategory(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/hobbies?category=extreme", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := NewHobbyHandler().ListHobbies(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetHobbyByID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/hobbies/yoga", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("yoga")

	require.NoError(t, NewHobbyHandler().GetHobby(c))

	var hobby models.Hobby
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hobby))
	assert.Equal(t, "yoga", hobby.ID)
	assert.Equal(t, models.CategorySports, hobby.Category)
}

func TestGetHobbyUnknownIDNotFound(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/hobbies/curling", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("curling")

	err := NewHobbyHandler().GetHobby(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
