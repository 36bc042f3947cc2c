package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/weekend-trip-api/db"
	"github.com/gilby125/weekend-trip-api/pkg/dates"
)

func TestCreateFavorite(t *testing.T) {
	s := newTestServer(t, time.UTC)
	s.favorites.On("CreateFavorite", mock.Anything, mock.MatchedBy(func(f *db.Favorite) bool {
		return f.DepartureAirport == "BVA" && f.DestinationCode == "OPO" &&
			f.OutboundDate.String() == "2026-01-09" && f.Currency == "EUR"
	})).Return(nil)

	w := s.do(t, http.MethodPost, "/api/v1/favorites", map[string]interface{}{
		"departure_airport": "bva",
		"destination_code":  "opo",
		"destination_name":  "Porto",
		"outbound_date":     "2026-01-09",
		"return_date":       "2026-01-11T21:40:00+01:00",
		"total_price":       74.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "2026-01-11", body["return_date"])
	assert.Equal(t, "/api/v1/favorites/"+body["id"].(string), w.Header().Get("Location"))
	weekend := body["weekend"].(map[string]interface{})
	assert.Equal(t, "2026-01-09", weekend["start"])
	assert.Equal(t, "2026-01-11", weekend["end"])
	s.favorites.AssertExpectations(t)
}

func TestCreateFavorite_Validation(t *testing.T) {
	s := newTestServer(t, time.UTC)
	valid := func() map[string]interface{} {
		return map[string]interface{}{
			"departure_airport": "BVA",
			"destination_code":  "OPO",
			"outbound_date":     "2026-01-09",
			"return_date":       "2026-01-11",
			"total_price":       74.5,
		}
	}

	tests := []struct {
		name  string
		key   string
		value interface{}
		field string
	}{
		{"nonexistent outbound", "outbound_date", "2026-02-30", "outbound_date"},
		{"garbled return", "return_date", "soon", "return_date"},
		{"missing outbound", "outbound_date", "", "outbound_date"},
		{"return before outbound", "return_date", "2026-01-08", "return_date"},
		{"same airport", "destination_code", "bva", "destination_code"},
		{"free trip", "total_price", 0, "total_price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := valid()
			body[tt.key] = tt.value
			w := s.do(t, http.MethodPost, "/api/v1/favorites", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.field, decode(t, w)["field"])
		})
	}
	s.favorites.AssertNotCalled(t, "CreateFavorite", mock.Anything, mock.Anything)
}

func TestGetFavorite(t *testing.T) {
	s := newTestServer(t, time.UTC)
	id := uuid.New()
	s.favorites.On("GetFavorite", mock.Anything, id).Return(&db.Favorite{
		ID:               id,
		DepartureAirport: "BVA",
		DestinationCode:  "BCN",
		OutboundDate:     dates.MustNew(2026, time.January, 14),
		ReturnDate:       dates.MustNew(2026, time.January, 18),
		TotalPrice:       120,
		Currency:         "EUR",
	}, nil)
	missing := uuid.New()
	s.favorites.On("GetFavorite", mock.Anything, missing).Return(nil, db.ErrNotFound)

	w := s.do(t, http.MethodGet, "/api/v1/favorites/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "BCN", body["destination_code"])
	assert.NotContains(t, body, "weekend")

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/favorites/"+missing.String(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/v1/favorites/nope", nil).Code)
}

func TestListFavorites(t *testing.T) {
	s := newTestServer(t, time.UTC)
	s.favorites.On("CountFavorites", mock.Anything).Return(2, nil)
	s.favorites.On("ListFavorites", mock.Anything, 20, 0).Return([]db.Favorite{
		{ID: uuid.New(), OutboundDate: dates.MustNew(2026, time.January, 16), ReturnDate: dates.MustNew(2026, time.January, 18)},
		{ID: uuid.New(), OutboundDate: dates.MustNew(2026, time.January, 12), ReturnDate: dates.MustNew(2026, time.January, 13)},
	}, nil)

	w := s.do(t, http.MethodGet, "/api/v1/favorites", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 2, body["total"])
	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Contains(t, data[0], "weekend")
	assert.NotContains(t, data[1], "weekend")
	s.favorites.AssertExpectations(t)
}

func TestDeleteFavorite(t *testing.T) {
	s := newTestServer(t, time.UTC)
	id := uuid.New()
	s.favorites.On("DeleteFavorite", mock.Anything, id).Return(nil).Once()
	s.favorites.On("DeleteFavorite", mock.Anything, id).Return(db.ErrNotFound)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/v1/favorites/"+id.String(), nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/v1/favorites/"+id.String(), nil).Code)
}
