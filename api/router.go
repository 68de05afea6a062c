package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/roombooking/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Rooms    *RoomHandler
	Bookings *BookingHandler
	Metrics  *MetricsHandler
}

func NewRouter(h Handlers, allowedOrigins []string, l *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), accessLog(l))

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", IdempotencyKeyHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := r.Group("/api")
	h.Rooms.Register(group)
	h.Bookings.Register(group)
	h.Metrics.Register(group)
	return r
}
