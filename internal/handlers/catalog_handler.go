package handlers

import (
	"context"
	"net/http"

	"theory-test-service/internal/repository"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// CatalogHandler serves the read-only reference data: license types, road
// signs and question categories.
type CatalogHandler struct {
	LicenseRepo  *repository.LicenseTypeRepository
	SignRepo     *repository.SignRepository
	CategoryRepo *repository.CategoryRepository
}

func NewCatalogHandler(lr *repository.LicenseTypeRepository, sr *repository.SignRepository, cr *repository.CategoryRepository) *CatalogHandler {
	return &CatalogHandler{LicenseRepo: lr, SignRepo: sr, CategoryRepo: cr}
}

// ListLicenseTypes returns all license types sorted by code
func (h *CatalogHandler) ListLicenseTypes(c *gin.Context) {
	types, err := h.LicenseRepo.FindAll(context.Background())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"license_types": types})
}

// GetLicenseType returns one license type with its children
func (h *CatalogHandler) GetLicenseType(c *gin.Context) {
	id := c.Param("id")
	licenseType, err := h.LicenseRepo.FindByID(context.Background(), id)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "License type not found", "code": "LICENSE_TYPE_NOT_FOUND"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	children, err := h.LicenseRepo.FindChildren(context.Background(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"license_type": licenseType, "children": children})
}

// ListSigns returns road signs, optionally filtered by category
func (h *CatalogHandler) ListSigns(c *gin.Context) {
	signs, err := h.SignRepo.FindAll(context.Background(), c.Query("category_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signs": signs})
}

// GetSign returns one road sign
func (h *CatalogHandler) GetSign(c *gin.Context) {
	sign, err := h.SignRepo.FindByID(context.Background(), c.Param("id"))
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sign not found", "code": "SIGN_NOT_FOUND"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sign)
}

// ListCategories returns all question categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.CategoryRepo.FindAll(context.Background())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
