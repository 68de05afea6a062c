package api

import (
	"net/http"

	"github.com/Domenick1991/roombooking/internal/domain"
	"github.com/Domenick1991/roombooking/internal/service/rooms"
	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	service rooms.RoomUseCase
}

type searchQuery struct {
	CheckIn          string `form:"checkIn" binding:"required"`
	CheckOut         string `form:"checkOut" binding:"required"`
	Guests           int    `form:"guests" binding:"required"`
	Type             string `form:"type"`
	Breakfast        bool   `form:"breakfast"`
	IncludeBreakdown bool   `form:"includeBreakdown"`
	Limit            int    `form:"limit"`
	Cursor           string `form:"cursor"`
}

type quoteRequest struct {
	Type      string `json:"type" binding:"required"`
	CheckIn   string `json:"checkIn" binding:"required"`
	CheckOut  string `json:"checkOut" binding:"required"`
	Guests    int    `json:"guests" binding:"required"`
	Breakfast bool   `json:"breakfast"`
}

func NewRoomHandler(service rooms.RoomUseCase) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) Register(router *gin.RouterGroup) {
	router.GET("/rooms/available", h.search)
	router.POST("/quote", h.quote)
}

func (h *RoomHandler) search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err.Error())
		return
	}
	in, err := domain.ParseDay(q.CheckIn)
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := domain.ParseDay(q.CheckOut)
	if err != nil {
		writeError(c, err)
		return
	}

	input := rooms.SearchInput{
		CheckIn:          in,
		CheckOut:         out,
		Guests:           q.Guests,
		Breakfast:        q.Breakfast,
		IncludeBreakdown: q.IncludeBreakdown,
		Limit:            q.Limit,
		Cursor:           q.Cursor,
	}
	if q.Type != "" {
		rt, err := domain.ParseRoomType(q.Type)
		if err != nil {
			writeError(c, err)
			return
		}
		input.Type = &rt
	}

	result, err := h.service.Search(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *RoomHandler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	rt, err := domain.ParseRoomType(req.Type)
	if err != nil {
		writeError(c, err)
		return
	}
	in, err := domain.ParseDay(req.CheckIn)
	if err != nil {
		writeError(c, err)
		return
	}
	out, err := domain.ParseDay(req.CheckOut)
	if err != nil {
		writeError(c, err)
		return
	}

	q, err := h.service.Quote(c.Request.Context(), rooms.QuoteInput{
		Type:      rt,
		CheckIn:   in,
		CheckOut:  out,
		Guests:    req.Guests,
		Breakfast: req.Breakfast,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
