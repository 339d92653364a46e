package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/services"
	"github.com/aurelle/marketing-backend/internal/types"
)

type ProductHandler struct {
	log        *logger.Logger
	productSvc services.ProductService
}

func NewProductHandler(log *logger.Logger, productSvc services.ProductService) *ProductHandler {
	return &ProductHandler{
		log:        log.With("handler", "ProductHandler"),
		productSvc: productSvc,
	}
}

// POST /api/products
func (ph *ProductHandler) Create(c *gin.Context) {
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	product, err := ph.productSvc.Create(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, product)
}

// GET /api/products/:id
func (ph *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid product id"))
		return
	}
	product, err := ph.productSvc.GetByID(c.Request.Context(), productID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if product == nil {
		RespondError(c, http.StatusNotFound, apierr.CodeNotFound, fmt.Errorf("product not found"))
		return
	}
	RespondOK(c, product)
}

// GET /api/products
func (ph *ProductHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	products, err := ph.productSvc.List(c.Request.Context(), offset, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, products)
}

// GET /api/products/search?q=
func (ph *ProductHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	products, err := ph.productSvc.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, products)
}

// GET /api/products/category/:category
func (ph *ProductHandler) GetByCategory(c *gin.Context) {
	category, err := types.ParseProductCategory(c.Param("category"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	products, err := ph.productSvc.GetByCategory(c.Request.Context(), category, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, products)
}

// GET /api/products/price-range?min=&max=
func (ph *ProductHandler) GetByPriceRange(c *gin.Context) {
	minPrice, err := strconv.ParseFloat(c.DefaultQuery("min", "0"), 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid min price"))
		return
	}
	maxPrice, err := strconv.ParseFloat(c.DefaultQuery("max", "0"), 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid max price"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	products, err := ph.productSvc.GetByPriceRange(c.Request.Context(), minPrice, maxPrice, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, products)
}

// GET /api/products/featured
func (ph *ProductHandler) GetFeatured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	products, err := ph.productSvc.GetFeatured(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, products)
}

// PUT /api/products/:id
func (ph *ProductHandler) Update(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid product id"))
		return
	}
	var req services.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	product, err := ph.productSvc.Update(c.Request.Context(), productID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, product)
}

// DELETE /api/products/:id
func (ph *ProductHandler) Delete(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid product id"))
		return
	}
	if err := ph.productSvc.Delete(c.Request.Context(), productID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
