package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nem-uma-a-menos/counter-api/internal/cache"
	"github.com/nem-uma-a-menos/counter-api/internal/stats"
)

// CounterHandler serves the counter snapshot and the admin actions over it.
type CounterHandler struct {
	store  *cache.Store
	engine *stats.Engine
}

// NewCounterHandler creates a new counter handler
func NewCounterHandler(store *cache.Store, engine *stats.Engine) *CounterHandler {
	return &CounterHandler{
		store:  store,
		engine: engine,
	}
}

// Get serves the current snapshot with public caching and diagnostic headers.
func (h *CounterHandler) Get(c *gin.Context) {
	start := time.Now()

	snap := h.store.Get(c.Request.Context())

	c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.store.Window().Seconds())))
	c.Header("X-Processing-Time", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
	c.Header("X-Total-Since-2018", strconv.Itoa(snap.CountSince2018))
	c.Header("X-Last-Update", snap.LastUpdated)
	c.Header("X-Data-Quality", snap.DataQuality)

	c.JSON(http.StatusOK, snap)
}

type adminRequest struct {
	Action string `json:"action"`
}

// Admin executes explicit administrative actions. Cache invalidation is
// never implicit on a GET; it only happens here.
func (h *CounterHandler) Admin(c *gin.Context) {
	var req adminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	switch req.Action {
	case "refresh-cache":
		snap := h.store.Refresh(c.Request.Context())
		c.JSON(http.StatusOK, snap)
	case "historical-stats":
		c.JSON(http.StatusOK, h.engine.HistoricalContext())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}

// Statistics serves the extended historical report: per-period totals, the
// year-end projection and the long-term trend.
func (h *CounterHandler) Statistics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"historicalContext": h.engine.HistoricalContext(),
		"period":            h.engine.PeriodStatistics(),
		"projection":        h.engine.ProjectYearEnd(),
		"trend":             h.engine.CurrentTrend(),
	})
}
