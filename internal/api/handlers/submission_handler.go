package handlers

import (
	"net/http"
	"strconv"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/service"
	"github.com/gin-gonic/gin"
)

type SubmissionHandler struct {
	service *service.SubmissionService
}

func NewSubmissionHandler(service *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

type submitStockRequest struct {
	Items []domain.SubmissionItemInput `json:"items" binding:"required"`
}

func (h *SubmissionHandler) SubmitStock(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	var req submitStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.service.SubmitStock(c.Request.Context(), actorFrom(c), companyID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submission)
}

func (h *SubmissionHandler) ListPending(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	submissions, err := h.service.ListPending(c.Request.Context(), actorFrom(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "submissionID")
	if !ok {
		return
	}

	submission, err := h.service.GetSubmission(c.Request.Context(), actorFrom(c), companyID, submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submission)
}

func (h *SubmissionHandler) GetSubmissionItems(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "submissionID")
	if !ok {
		return
	}

	items, err := h.service.SubmissionItems(c.Request.Context(), actorFrom(c), companyID, submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *SubmissionHandler) UserSubmissions(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	submissions, err := h.service.UserSubmissions(c.Request.Context(), actorFrom(c), companyID, userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

type editItemRequest struct {
	Quantity float64 `json:"quantity"`
}

func (h *SubmissionHandler) EditItem(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "submissionID")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	var req editItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.EditItem(c.Request.Context(), actorFrom(c), companyID, submissionID, productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "edited"})
}

func (h *SubmissionHandler) Approve(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "submissionID")
	if !ok {
		return
	}

	if err := h.service.Approve(c.Request.Context(), actorFrom(c), companyID, submissionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

type rejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *SubmissionHandler) Reject(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	submissionID, ok := pathID(c, "submissionID")
	if !ok {
		return
	}

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Reject(c.Request.Context(), actorFrom(c), companyID, submissionID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}
