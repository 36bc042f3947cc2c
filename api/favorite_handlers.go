package api

import (
	"errors"
	"net/http"

	"github.com/gilby125/weekend-trip-api/db"
	"github.com/gilby125/weekend-trip-api/pkg/dates"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FavoriteRequest is the body of POST /favorites.
type FavoriteRequest struct {
	SearchID         *uuid.UUID `json:"search_id"`
	DepartureAirport string     `json:"departure_airport"`
	DestinationCode  string     `json:"destination_code"`
	DestinationName  string     `json:"destination_name"`
	OutboundDate     string     `json:"outbound_date"`
	ReturnDate       string     `json:"return_date"`
	TotalPrice       float64    `json:"total_price"`
	Currency         string     `json:"currency"`
}

// FavoriteResponse adds the weekend the trip covers, when it covers one.
type FavoriteResponse struct {
	db.Favorite
	Weekend *dates.WeekendWindow `json:"weekend,omitempty"`
}

func favoriteResponse(f db.Favorite) FavoriteResponse {
	resp := FavoriteResponse{Favorite: f}
	if window, ok := f.Weekend(); ok {
		resp.Weekend = &window
	}
	return resp
}

// parseTripDate reports a bad date against the request field it came from.
func parseTripDate(field, raw string) (dates.CalendarDate, error) {
	if raw == "" {
		return dates.CalendarDate{}, nil
	}
	d, err := dates.Parse(raw)
	if err != nil {
		reason := err.Error()
		var invalid *dates.InvalidDateError
		if errors.As(err, &invalid) {
			reason = invalid.Reason
		}
		return dates.CalendarDate{}, &db.ValidationError{Field: field, Reason: reason}
	}
	return d, nil
}

// CreateFavorite stores a pinned trip.
func CreateFavorite(store db.FavoriteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FavoriteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		outbound, err := parseTripDate("outbound_date", req.OutboundDate)
		if err != nil {
			respondError(c, err)
			return
		}
		inbound, err := parseTripDate("return_date", req.ReturnDate)
		if err != nil {
			respondError(c, err)
			return
		}

		fav := db.Favorite{
			SearchID:         req.SearchID,
			DepartureAirport: req.DepartureAirport,
			DestinationCode:  req.DestinationCode,
			DestinationName:  req.DestinationName,
			OutboundDate:     outbound,
			ReturnDate:       inbound,
			TotalPrice:       req.TotalPrice,
			Currency:         req.Currency,
		}
		fav.Normalize()
		if err := fav.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := store.CreateFavorite(c.Request.Context(), &fav); err != nil {
			respondError(c, err)
			return
		}

		c.Header("Location", "/api/v1/favorites/"+fav.ID.String())
		c.JSON(http.StatusCreated, favoriteResponse(fav))
	}
}

// GetFavorite returns one favorite.
func GetFavorite(store db.FavoriteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid favorite id"})
			return
		}
		fav, err := store.GetFavorite(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, favoriteResponse(*fav))
	}
}

// ListFavorites pages through favorites, newest first.
func ListFavorites(store db.FavoriteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := pagination(c)

		total, err := store.CountFavorites(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		favorites, err := store.ListFavorites(c.Request.Context(), perPage, (page-1)*perPage)
		if err != nil {
			respondError(c, err)
			return
		}

		data := make([]FavoriteResponse, 0, len(favorites))
		for _, f := range favorites {
			data = append(data, favoriteResponse(f))
		}
		c.JSON(http.StatusOK, gin.H{
			"total":       total,
			"page":        page,
			"per_page":    perPage,
			"total_pages": (total + perPage - 1) / perPage,
			"data":        data,
		})
	}
}

// DeleteFavorite removes a favorite.
func DeleteFavorite(store db.FavoriteStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid favorite id"})
			return
		}
		if err := store.DeleteFavorite(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
