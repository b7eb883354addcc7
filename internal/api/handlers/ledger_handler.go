package handlers

import (
	"net/http"
	"strconv"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/service"
	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	service *service.LedgerService
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

type recordSnapshotRequest struct {
	ProductID int64   `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity"`
	Date      string  `json:"date"`
}

func (h *LedgerHandler) RecordSnapshot(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	var req recordSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var date domain.DateKey
	if req.Date != "" {
		parsed, err := domain.ParseDateKey(req.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		date = parsed
	}

	snap, err := h.service.RecordSnapshot(c.Request.Context(), actorFrom(c), companyID, req.ProductID, date, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

type recordSupplyRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	Boxes     int    `json:"boxes" binding:"required"`
	Date      string `json:"date"`
}

func (h *LedgerHandler) RecordSupply(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	var req recordSupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var date domain.DateKey
	if req.Date != "" {
		parsed, err := domain.ParseDateKey(req.Date)
		if err != nil {
			respondError(c, err)
			return
		}
		date = parsed
	}

	supply, err := h.service.RecordSupply(c.Request.Context(), actorFrom(c), companyID, req.ProductID, date, req.Boxes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supply)
}

// GetStock serves both the latest-per-product view and the exact-date view,
// switched by the date query parameter.
func (h *LedgerHandler) GetStock(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	date, present, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	if present {
		snaps, err := h.service.SnapshotOn(c.Request.Context(), actorFrom(c), companyID, date)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
		return
	}

	snaps, err := h.service.LatestSnapshots(c.Request.Context(), actorFrom(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snaps})
}

func (h *LedgerHandler) GetStockDates(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	summary, err := h.service.SnapshotDatesSummary(c.Request.Context(), actorFrom(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dates": summary})
}

func (h *LedgerHandler) GetHistory(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	history, err := h.service.History(c.Request.Context(), actorFrom(c), companyID, productID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *LedgerHandler) GetSupplies(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	start, hasStart, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, hasEnd, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	if !hasStart || !hasEnd {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required"})
		return
	}

	supplies, err := h.service.SuppliesBetween(c.Request.Context(), actorFrom(c), companyID, productID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplies": supplies})
}

func (h *LedgerHandler) GetProductConsumption(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	start, hasStart, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, hasEnd, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	if !hasStart || !hasEnd {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required"})
		return
	}

	report, err := h.service.ComputePeriodConsumption(c.Request.Context(), actorFrom(c), companyID, productID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *LedgerHandler) GetConsumption(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	start, hasStart, ok := parseDateQuery(c, "start")
	if !ok {
		return
	}
	end, hasEnd, ok := parseDateQuery(c, "end")
	if !ok {
		return
	}
	if !hasStart || !hasEnd {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required"})
		return
	}

	report, err := h.service.ConsumptionBetween(c.Request.Context(), actorFrom(c), companyID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consumption": report})
}
