package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/services"
	"github.com/aurelle/marketing-backend/internal/types"
)

type MarketingHandler struct {
	log          *logger.Logger
	marketingSvc services.MarketingService
	boardSvc     services.VisionBoardService
}

func NewMarketingHandler(log *logger.Logger, marketingSvc services.MarketingService, boardSvc services.VisionBoardService) *MarketingHandler {
	return &MarketingHandler{
		log:          log.With("handler", "MarketingHandler"),
		marketingSvc: marketingSvc,
		boardSvc:     boardSvc,
	}
}

// GET /api/marketing/templates
func (mh *MarketingHandler) Templates(c *gin.Context) {
	RespondOK(c, mh.marketingSvc.Templates())
}

// POST /api/marketing/emails/preview
func (mh *MarketingHandler) PreviewEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	var req struct {
		TemplateType string `json:"template_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	email, err := mh.marketingSvc.GenerateEmail(c.Request.Context(), userID, types.EmailTemplateType(req.TemplateType))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, email)
}

// POST /api/marketing/emails/send
func (mh *MarketingHandler) SendEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	var req struct {
		TemplateType string `json:"template_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	email, delivered, err := mh.marketingSvc.SendEmail(c.Request.Context(), userID, types.EmailTemplateType(req.TemplateType))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"email": email, "delivered": delivered})
}

// POST /api/marketing/vision-board
func (mh *MarketingHandler) BuildVisionBoard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	board, err := mh.boardSvc.Build(c.Request.Context(), userID, req.Title)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, board)
}

// POST /api/marketing/vision-board/render
// Builds the board and streams the PNG collage.
func (mh *MarketingHandler) RenderVisionBoard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, apierr.CodeUnauthorized, fmt.Errorf("missing identity"))
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, apierr.CodeValidation, err)
		return
	}
	board, err := mh.boardSvc.Build(c.Request.Context(), userID, req.Title)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	buf, err := mh.boardSvc.Render(c.Request.Context(), board)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
