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

type InterestHandler struct {
	log         *logger.Logger
	interestSvc services.InterestService
}

func NewInterestHandler(log *logger.Logger, interestSvc services.InterestService) *InterestHandler {
	return &InterestHandler{
		log:         log.With("handler", "InterestHandler"),
		interestSvc: interestSvc,
	}
}

// POST /api/interests
func (ih *InterestHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	var req services.InterestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	interest, err := ih.interestSvc.Add(c.Request.Context(), userID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, interest)
}

// GET /api/interests
func (ih *InterestHandler) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	interests, err := ih.interestSvc.GetByUser(c.Request.Context(), userID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, interests)
}

// GET /api/interests/category/:category
func (ih *InterestHandler) GetByCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	category, err := types.ParseInterestCategory(c.Param("category"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	interests, err := ih.interestSvc.GetByCategory(c.Request.Context(), userID, category)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, interests)
}

// GET /api/interests/summary
func (ih *InterestHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	summary, err := ih.interestSvc.Summary(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, summary)
}

// POST /api/interests/analyze
// Runs purchase-based inference for the authenticated user.
func (ih *InterestHandler) Analyze(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	inferred, err := ih.interestSvc.AnalyzePurchases(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"inferred": inferred, "count": len(inferred)})
}

// PUT /api/interests/:id/confidence
func (ih *InterestHandler) UpdateConfidence(c *gin.Context) {
	interestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid interest id"))
		return
	}
	var req struct {
		ConfidenceScore float64 `json:"confidence_score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	interest, err := ih.interestSvc.UpdateConfidence(c.Request.Context(), interestID, req.ConfidenceScore)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, interest)
}

// DELETE /api/interests/:id
func (ih *InterestHandler) Delete(c *gin.Context) {
	interestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, fmt.Errorf("invalid interest id"))
		return
	}
	deleted, err := ih.interestSvc.Delete(c.Request.Context(), interestID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": deleted})
}
