package handlers

import (
	"net/http"

	"github.com/coldbrew-labs/franchise-inventory/internal/service"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service *service.CatalogService
}

func NewCatalogHandler(service *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) AddProduct(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	var in service.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.service.AddProduct(c.Request.Context(), actorFrom(c), companyID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}

	// name= switches to the exact internal-name lookup the bot uses.
	if name := c.Query("name"); name != "" {
		product, err := h.service.GetByInternalName(c.Request.Context(), actorFrom(c), companyID, name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": []any{product}})
		return
	}

	products, err := h.service.ListProducts(c.Request.Context(), actorFrom(c), companyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	companyID, ok := companyIDFrom(c)
	if !ok {
		return
	}
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	product, err := h.service.GetProduct(c.Request.Context(), actorFrom(c), companyID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
