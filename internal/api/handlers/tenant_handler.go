package handlers

import (
	"net/http"
	"time"

	"github.com/coldbrew-labs/franchise-inventory/internal/domain"
	"github.com/coldbrew-labs/franchise-inventory/internal/service"
	"github.com/gin-gonic/gin"
)

type TenantHandler struct {
	service *service.TenantService
}

func NewTenantHandler(service *service.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

type ensureUserRequest struct {
	ID        int64  `json:"id" binding:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// EnsureUser is the registration touchpoint: the surface calls it on first
// contact with an externally authenticated user. It sits outside the actor
// middleware because a brand-new user cannot resolve yet.
func (h *TenantHandler) EnsureUser(c *gin.Context) {
	var req ensureUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.EnsureUser(c.Request.Context(), &domain.User{
		ID:        req.ID,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me returns the resolved caller.
func (h *TenantHandler) Me(c *gin.Context) {
	actor := actorFrom(c)
	user, err := h.service.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type createCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *TenantHandler) CreateCompany(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := h.service.CreateCompany(c.Request.Context(), actorFrom(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *TenantHandler) ListCompanies(c *gin.Context) {
	companies, err := h.service.ListCompanies(c.Request.Context(), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (h *TenantHandler) GetCompany(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	company, err := h.service.GetCompany(c.Request.Context(), actorFrom(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

type updateSubscriptionRequest struct {
	Status string     `json:"status" binding:"required"`
	EndsAt *time.Time `json:"ends_at"`
}

func (h *TenantHandler) UpdateSubscription(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	var req updateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.UpdateSubscription(c.Request.Context(), actorFrom(c), companyID, domain.SubscriptionStatus(req.Status), req.EndsAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *TenantHandler) DeleteCompany(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	if err := h.service.DeleteCompany(c.Request.Context(), actorFrom(c), companyID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *TenantHandler) CloneCatalog(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	count, err := h.service.CloneCatalogFromSystem(c.Request.Context(), actorFrom(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products_created": count})
}

func (h *TenantHandler) ListUsers(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	users, err := h.service.UsersByCompany(c.Request.Context(), actorFrom(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type assignUserRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

func (h *TenantHandler) AssignUser(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	var req assignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.AssignUserToCompany(c.Request.Context(), actorFrom(c), req.UserID, companyID, domain.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "assigned"})
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *TenantHandler) SetUserRole(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.SetUserRole(c.Request.Context(), actorFrom(c), companyID, userID, domain.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
