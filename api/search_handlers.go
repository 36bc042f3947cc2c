package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gilby125/weekend-trip-api/db"
	"github.com/gilby125/weekend-trip-api/pkg/planner"
	"github.com/gilby125/weekend-trip-api/pkg/presets"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SavedSearchRequest is the body of POST /searches.
type SavedSearchRequest struct {
	Name                 string   `json:"name"`
	DepartureAirport     string   `json:"departure_airport"`
	Presets              []string `json:"presets"`
	BudgetMax            int      `json:"budget_max"`
	Currency             string   `json:"currency"`
	ExcludedDestinations []string `json:"excluded_destinations"`
}

// SavedSearchResponse is a saved search with its presets resolved for today.
type SavedSearchResponse struct {
	db.SavedSearch
	Plan *presets.Plan `json:"plan,omitempty"`
}

// withTodayPlan resolves the search's presets against today. A search made
// of flexible presets only has no plan.
func withTodayPlan(c *gin.Context, p *planner.Planner, search db.SavedSearch) (SavedSearchResponse, error) {
	resp := SavedSearchResponse{SavedSearch: search}
	keys, err := presets.ParseKeys(search.Presets)
	if err != nil {
		return resp, err
	}
	plan, _, err := p.Plan(c.Request.Context(), p.Today(), keys)
	switch {
	case err == nil:
		resp.Plan = &plan
	case !errors.Is(err, presets.ErrNoDatedPreset):
		return resp, err
	}
	return resp, nil
}

// CreateSavedSearch stores a search and returns it with today's plan.
func CreateSavedSearch(store db.SavedSearchStore, p *planner.Planner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SavedSearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		search := db.SavedSearch{
			Name:                 req.Name,
			DepartureAirport:     req.DepartureAirport,
			Presets:              req.Presets,
			BudgetMax:            req.BudgetMax,
			Currency:             req.Currency,
			ExcludedDestinations: req.ExcludedDestinations,
		}
		search.Normalize()
		if err := search.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := store.CreateSavedSearch(c.Request.Context(), &search); err != nil {
			respondError(c, err)
			return
		}

		resp, err := withTodayPlan(c, p, search)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Header("Location", "/api/v1/searches/"+search.ID.String())
		c.JSON(http.StatusCreated, resp)
	}
}

// GetSavedSearch returns one search with today's plan.
func GetSavedSearch(store db.SavedSearchStore, p *planner.Planner) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid saved search id"})
			return
		}

		search, err := store.GetSavedSearch(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		resp, err := withTodayPlan(c, p, *search)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ListSavedSearches pages through saved searches, newest first.
func ListSavedSearches(store db.SavedSearchStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := pagination(c)

		total, err := store.CountSavedSearches(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		searches, err := store.ListSavedSearches(c.Request.Context(), perPage, (page-1)*perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total":       total,
			"page":        page,
			"per_page":    perPage,
			"total_pages": (total + perPage - 1) / perPage,
			"data":        searches,
		})
	}
}

// pagination reads page and per_page, defaulting to the first page of 20.
func pagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}

// DeleteSavedSearch removes a search.
func DeleteSavedSearch(store db.SavedSearchStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid saved search id"})
			return
		}
		if err := store.DeleteSavedSearch(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
