package handlers

import (
	"net/http"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service *service.OrderService
}

func NewOrderHandler(service *service.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type createOrderRequest struct {
	Items []domain.OrderItemInput `json:"items" binding:"required"`
	Notes string                  `json:"notes"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.service.CreateOrder(c.Request.Context(), actorFrom(c), companyID, req.Items, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListPending(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	orders, err := h.service.ListPending(c.Request.Context(), actorFrom(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "orderID")
	if !ok {
		return
	}

	order, err := h.service.GetOrder(c.Request.Context(), actorFrom(c), companyID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrderItems(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "orderID")
	if !ok {
		return
	}

	items, err := h.service.OrderItems(c.Request.Context(), actorFrom(c), companyID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *OrderHandler) CompleteOrder(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "orderID")
	if !ok {
		return
	}

	if err := h.service.CompleteOrder(c.Request.Context(), actorFrom(c), companyID, orderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "orderID")
	if !ok {
		return
	}

	if err := h.service.CancelOrder(c.Request.Context(), actorFrom(c), companyID, orderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}
