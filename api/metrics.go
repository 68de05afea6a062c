package api

import (
	"net/http"

	"github.com/Domenick1991/roombooking/internal/cache"
	"github.com/Domenick1991/roombooking/internal/reliability"
	"github.com/gin-gonic/gin"
)

type ReliabilityStats interface {
	Metrics() []reliability.Metrics
	CircuitBreakers() []reliability.BreakerSnapshot
}

type CacheStats interface {
	CacheStats() cache.Stats
}

type MetricsHandler struct {
	reliability ReliabilityStats
	cache       CacheStats
}

type metricsResponse struct {
	Operations      []reliability.Metrics         `json:"operations"`
	CircuitBreakers []reliability.BreakerSnapshot `json:"circuitBreakers"`
	Cache           cache.Stats                   `json:"cache"`
}

func NewMetricsHandler(rel ReliabilityStats, c CacheStats) *MetricsHandler {
	return &MetricsHandler{reliability: rel, cache: c}
}

func (h *MetricsHandler) Register(router *gin.RouterGroup) {
	router.GET("/metrics", h.get)
}

func (h *MetricsHandler) get(c *gin.Context) {
	c.JSON(http.StatusOK, metricsResponse{
		Operations:      h.reliability.Metrics(),
		CircuitBreakers: h.reliability.CircuitBreakers(),
		Cache:           h.cache.CacheStats(),
	})
}
