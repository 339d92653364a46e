package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/services"
	"github.com/aurelle/marketing-backend/internal/types"
)

type RecommendationHandler struct {
	log    *logger.Logger
	recSvc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recSvc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:    log.With("handler", "RecommendationHandler"),
		recSvc: recSvc,
	}
}

// GET /api/recommendations
func (rh *RecommendationHandler) GetPersonalized(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	recs, err := rh.recSvc.GetPersonalized(c.Request.Context(), userID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, recs)
}

// GET /api/recommendations/category/:category
func (rh *RecommendationHandler) GetByCategory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	category, err := types.ParseProductCategory(c.Param("category"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	recs, err := rh.recSvc.GetByCategory(c.Request.Context(), userID, category, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, recs)
}

// GET /api/recommendations/trending
func (rh *RecommendationHandler) GetTrending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	trending, err := rh.recSvc.GetTrending(c.Request.Context(), limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, trending)
}

// GET /api/recommendations/similar-users
func (rh *RecommendationHandler) GetSimilarUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	similar, err := rh.recSvc.GetSimilarUsers(c.Request.Context(), userID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, similar)
}

// GET /api/recommendations/similar-users/products
func (rh *RecommendationHandler) GetFromSimilarUsers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	recs, err := rh.recSvc.GetFromSimilarUsers(c.Request.Context(), userID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, recs)
}
