package api

import (
	"net/http"
	"strings"

	"github.com/gilby125/weekend-trip-api/pkg/dates"
	"github.com/gilby125/weekend-trip-api/pkg/planner"
	"github.com/gilby125/weekend-trip-api/pkg/presets"
	"github.com/gin-gonic/gin"
)

// WeekendResponse is the body of GET /dates/weekend.
type WeekendResponse struct {
	Reference dates.CalendarDate `json:"reference"`
	Start     dates.CalendarDate `json:"start"`
	End       dates.CalendarDate `json:"end"`
	Nights    int                `json:"nights"`
	Cached    bool               `json:"cached"`
}

// GetWeekend returns the weekend window after ?reference, or after today
// in the calendar timezone when it is omitted.
func GetWeekend(p *planner.Planner) gin.HandlerFunc {
	return func(c *gin.Context) {
		reference, err := p.Reference(strings.TrimSpace(c.Query("reference")))
		if err != nil {
			respondError(c, err)
			return
		}

		window, cached, err := p.Weekend(c.Request.Context(), reference)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, WeekendResponse{
			Reference: reference,
			Start:     window.Start,
			End:       window.End,
			Nights:    window.Nights(),
			Cached:    cached,
		})
	}
}

// PresetPlanRequest is the body of POST /dates/presets.
type PresetPlanRequest struct {
	Presets   []string `json:"presets"`
	Reference string   `json:"reference"`
}

// PresetPlanResponse wraps a Plan with cache information.
type PresetPlanResponse struct {
	presets.Plan
	Presets []string `json:"presets"`
	Cached  bool     `json:"cached"`
}

// PostPresetPlan expands the requested presets into departure and return slots.
func PostPresetPlan(p *planner.Planner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PresetPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		if len(req.Presets) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "presets is required", "field": "presets"})
			return
		}

		keys, err := presets.ParseKeys(req.Presets)
		if err != nil {
			respondError(c, err)
			return
		}
		reference, err := p.Reference(strings.TrimSpace(req.Reference))
		if err != nil {
			respondError(c, err)
			return
		}

		plan, cached, err := p.Plan(c.Request.Context(), reference, keys)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, PresetPlanResponse{
			Plan:    plan,
			Presets: presets.CanonicalKeys(keys),
			Cached:  cached,
		})
	}
}

// GetPresetCatalog lists presets labelled in the best language for
// ?lang or Accept-Language.
func GetPresetCatalog() gin.HandlerFunc {
	return func(c *gin.Context) {
		pref := c.Query("lang")
		if pref == "" {
			pref = c.GetHeader("Accept-Language")
		}
		lang := presets.MatchLanguage(pref)
		c.JSON(http.StatusOK, gin.H{
			"language": lang.String(),
			"presets":  presets.Catalog(lang),
		})
	}
}
