package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/requestdata"
	"github.com/aurelle/marketing-backend/internal/services"
)

type UserHandler struct {
	log      *logger.Logger
	userData services.UserDataService
}

func NewUserHandler(log *logger.Logger, userData services.UserDataService) *UserHandler {
	return &UserHandler{
		log:      log.With("handler", "UserHandler"),
		userData: userData,
	}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rd.UserID, true
}

// GET /api/users/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	user, err := uh.userData.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	if user == nil {
		RespondError(c, http.StatusNotFound, apierr.CodeNotFound, fmt.Errorf("user not found"))
		return
	}
	RespondOK(c, user)
}

// PUT /api/users/me/profile
func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	user, err := uh.userData.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, user)
}

// POST /api/users/me/purchases
func (uh *UserHandler) AddPurchase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	var req services.PurchaseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	purchase, err := uh.userData.AddPurchase(c.Request.Context(), userID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, purchase)
}

// GET /api/users/me/purchases
func (uh *UserHandler) GetPurchases(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	purchases, err := uh.userData.GetPurchases(c.Request.Context(), userID, limit)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, purchases)
}

// GET /api/users/me/spending-summary
func (uh *UserHandler) GetSpendingSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	summary, err := uh.userData.GetSpendingSummary(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, summary)
}

// POST /api/users/ingest
// Creates a user together with their history in a single batch.
func (uh *UserHandler) IngestBulk(c *gin.Context) {
	var req services.BulkIngestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	result, err := uh.userData.IngestBulk(c.Request.Context(), req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
