package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/coldbrew-labs/franchise-inventory/internal/service"
	"github.com/gin-gonic/gin"
)

type ForecastHandler struct {
	service *service.ForecastService
}

func NewForecastHandler(service *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{service: service}
}

func parseComputeOptions(c *gin.Context) (service.ComputeOptions, bool) {
	var opts service.ComputeOptions
	if raw := c.Query("horizon_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "horizon_days must be a positive integer"})
			return opts, false
		}
		opts.HorizonDays = parsed
	}
	if raw := c.Query("threshold_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold_days must be a positive integer"})
			return opts, false
		}
		opts.ThresholdDays = parsed
	}
	return opts, true
}

func (h *ForecastHandler) GetAverageConsumption(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	result, err := h.service.AverageConsumption(c.Request.Context(), actorFrom(c), companyID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"avg_daily":      result.AvgDaily,
		"days_with_data": result.DaysWithData,
		"warning":        result.Warning,
	})
}

func (h *ForecastHandler) GetOrderReport(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	opts, ok := parseComputeOptions(c)
	if !ok {
		return
	}

	summary, err := h.service.ComputeOrderReport(c.Request.Context(), actorFrom(c), companyID, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ForecastHandler) CreateDraft(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	opts, ok := parseComputeOptions(c)
	if !ok {
		return
	}

	draft, err := h.service.CreateDraft(c.Request.Context(), actorFrom(c), companyID, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draft)
}

func (h *ForecastHandler) GetDraft(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	draft, err := h.service.GetDraft(c.Request.Context(), actorFrom(c), companyID, c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

type updateDraftItemRequest struct {
	Boxes int `json:"boxes"`
}

func (h *ForecastHandler) UpdateDraftItem(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	var req updateDraftItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := h.service.UpdateDraftItem(c.Request.Context(), actorFrom(c), companyID, c.Param("token"), productID, req.Boxes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

type confirmDraftRequest struct {
	Notes string `json:"notes"`
}

func (h *ForecastHandler) ConfirmDraft(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	// Body is optional; an empty request confirms with no notes.
	var req confirmDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.ConfirmDraft(c.Request.Context(), actorFrom(c), companyID, c.Param("token"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}
