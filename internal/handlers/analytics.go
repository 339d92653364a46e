package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/services"
)

type AnalyticsHandler struct {
	log          *logger.Logger
	analyticsSvc services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analyticsSvc services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:          log.With("handler", "AnalyticsHandler"),
		analyticsSvc: analyticsSvc,
	}
}

// GET /api/analytics/overview
func (ah *AnalyticsHandler) PlatformOverview(c *gin.Context) {
	overview, err := ah.analyticsSvc.PlatformOverview(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, overview)
}

// GET /api/analytics/me
func (ah *AnalyticsHandler) UserAnalytics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	analytics, err := ah.analyticsSvc.UserAnalytics(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, analytics)
}
