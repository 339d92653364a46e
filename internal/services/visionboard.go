package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"gorm.io/gorm"

	"github.com/aurelle/marketing-backend/internal/apierr"
	"github.com/aurelle/marketing-backend/internal/logger"
	"github.com/aurelle/marketing-backend/internal/repos"
	"github.com/aurelle/marketing-backend/internal/types"
)

const (
	boardColumns  = 3
	boardMaxCells = 9
	boardCellSize = 320
	boardMargin   = 24
	boardHeader   = 96
)

// boardStyles keys are themes derived from the user's strongest interest.
var boardStyles = map[string]types.BoardStyle{
	"fashion":    {Name: "Runway", Background: "#FDF6F0", Accent: "#C65D7B", FontColor: "#2B2B2B"},
	"technology": {Name: "Circuit", Background: "#0F1420", Accent: "#3FA7D6", FontColor: "#F2F5F9"},
	"fitness":    {Name: "Momentum", Background: "#F0F7F4", Accent: "#2F9E6E", FontColor: "#1E3A2F"},
	"travel":     {Name: "Horizon", Background: "#EFF6FB", Accent: "#E8843C", FontColor: "#27374D"},
	"home":       {Name: "Hearth", Background: "#FAF4EC", Accent: "#8C6A4F", FontColor: "#3B2F25"},
	"default":    {Name: "Gallery", Background: "#F5F5F5", Accent: "#5B6C8F", FontColor: "#242424"},
}

type VisionBoardService interface {
	Build(ctx context.Context, userID uuid.UUID, title string) (*types.VisionBoard, error)
	Render(ctx context.Context, board *types.VisionBoard) (bytes.Buffer, error)
}

type visionBoardService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	productRepo     repos.ProductRepo
	interestRepo    repos.UserInterestRepo
	recommendations RecommendationService

	fontFace  font.Face
	titleFace font.Face
}

// NewVisionBoardService loads the optional render font from VISION_BOARD_FONT.
// Without it boards still build and render, just without text labels.
func NewVisionBoardService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, productRepo repos.ProductRepo, interestRepo repos.UserInterestRepo, recommendations RecommendationService) (VisionBoardService, error) {
	serviceLog := log.With("service", "VisionBoardService")

	var labelFace, titleFace font.Face
	fontPath := strings.TrimSpace(os.Getenv("VISION_BOARD_FONT"))
	if fontPath != "" {
		var err error
		if labelFace, err = loadBoardFont(fontPath, 20); err != nil {
			return nil, fmt.Errorf("could not load vision board font: %w", err)
		}
		if titleFace, err = loadBoardFont(fontPath, 44); err != nil {
			return nil, fmt.Errorf("could not load vision board font: %w", err)
		}
		serviceLog.Info("Loaded vision board font", "font", fontPath)
	}

	return &visionBoardService{
		db:              db,
		log:             serviceLog,
		userRepo:        userRepo,
		productRepo:     productRepo,
		interestRepo:    interestRepo,
		recommendations: recommendations,
		fontFace:        labelFace,
		titleFace:       titleFace,
	}, nil
}

func (vs *visionBoardService) Build(ctx context.Context, userID uuid.UUID, title string) (*types.VisionBoard, error) {
	user, err := vs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if user == nil {
		return nil, apierr.NotFound(fmt.Errorf("user %s not found", userID))
	}

	products, err := vs.selectProducts(ctx, userID)
	if err != nil {
		return nil, err
	}

	theme := vs.themeForUser(ctx, userID)
	style, ok := boardStyles[theme]
	if !ok {
		style = boardStyles["default"]
	}
	if strings.TrimSpace(title) == "" {
		title = fmt.Sprintf("%s inspiration", capitalize(theme))
	}

	board := &types.VisionBoard{
		UserID:      userID,
		Title:       title,
		Description: fmt.Sprintf("A %s-themed board built from your activity", theme),
		Theme:       theme,
		Products:    products,
		Layout:      gridLayout(products),
		Style:       style,
		GeneratedAt: time.Now(),
	}
	return board, nil
}

// selectProducts prefers personalized recommendations and pads from the
// featured list when there are too few.
func (vs *visionBoardService) selectProducts(ctx context.Context, userID uuid.UUID) ([]types.Product, error) {
	recs, err := vs.recommendations.GetPersonalized(ctx, userID, boardMaxCells)
	if err != nil {
		return nil, err
	}

	seen := map[uuid.UUID]bool{}
	products := make([]types.Product, 0, boardMaxCells)
	for _, rec := range recs {
		product, err := vs.productRepo.GetByID(ctx, nil, rec.ProductID)
		if err != nil {
			return nil, fmt.Errorf("fetch product: %w", err)
		}
		if product == nil || seen[product.ID] {
			continue
		}
		seen[product.ID] = true
		products = append(products, *product)
	}

	if len(products) < boardMaxCells {
		featured, err := vs.productRepo.GetFeatured(ctx, nil, boardMaxCells*2)
		if err != nil {
			return nil, fmt.Errorf("fetch featured products: %w", err)
		}
		for _, product := range featured {
			if len(products) >= boardMaxCells {
				break
			}
			if seen[product.ID] {
				continue
			}
			seen[product.ID] = true
			products = append(products, product)
		}
	}
	return products, nil
}

func (vs *visionBoardService) themeForUser(ctx context.Context, userID uuid.UUID) string {
	interests, err := vs.interestRepo.GetByUserID(ctx, nil, userID, 1)
	if err != nil || len(interests) == 0 {
		return "default"
	}
	theme := string(interests[0].Category)
	if _, ok := boardStyles[theme]; !ok {
		return "default"
	}
	return theme
}

// gridLayout places products row-major on a boardColumns-wide grid. The first
// product gets a double-size hero cell when at least four products exist.
func gridLayout(products []types.Product) []types.BoardCell {
	cells := make([]types.BoardCell, 0, len(products))
	hero := len(products) >= 4

	occupied := map[[2]int]bool{}
	place := func(productID uuid.UUID, w, h int) {
		for row := 0; ; row++ {
			for col := 0; col <= boardColumns-w; col++ {
				fits := true
				for dr := 0; dr < h && fits; dr++ {
					for dc := 0; dc < w && fits; dc++ {
						if occupied[[2]int{row + dr, col + dc}] {
							fits = false
						}
					}
				}
				if !fits {
					continue
				}
				for dr := 0; dr < h; dr++ {
					for dc := 0; dc < w; dc++ {
						occupied[[2]int{row + dr, col + dc}] = true
					}
				}
				cells = append(cells, types.BoardCell{ProductID: productID, Row: row, Col: col, Width: w, Height: h})
				return
			}
		}
	}

	for i, product := range products {
		if i == 0 && hero {
			place(product.ID, 2, 2)
			continue
		}
		place(product.ID, 1, 1)
	}
	return cells
}

func (vs *visionBoardService) Render(ctx context.Context, board *types.VisionBoard) (bytes.Buffer, error) {
	var buf bytes.Buffer
	if board == nil || len(board.Layout) == 0 {
		return buf, apierr.Validation(fmt.Errorf("vision board has no layout"))
	}

	rows := 0
	for _, cell := range board.Layout {
		if bottom := cell.Row + cell.Height; bottom > rows {
			rows = bottom
		}
	}

	width := boardColumns*boardCellSize + (boardColumns+1)*boardMargin
	height := boardHeader + rows*boardCellSize + (rows+1)*boardMargin

	dc := gg.NewContext(width, height)
	dc.SetHexColor(board.Style.Background)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()

	if vs.titleFace != nil {
		dc.SetFontFace(vs.titleFace)
		dc.SetHexColor(board.Style.FontColor)
		dc.DrawString(board.Title, float64(boardMargin), float64(boardHeader)/2+16)
	}

	productsByID := map[uuid.UUID]types.Product{}
	for _, product := range board.Products {
		productsByID[product.ID] = product
	}

	for _, cell := range board.Layout {
		x := float64(boardMargin + cell.Col*(boardCellSize+boardMargin))
		y := float64(boardHeader + boardMargin + cell.Row*(boardCellSize+boardMargin))
		w := float64(cell.Width*boardCellSize + (cell.Width-1)*boardMargin)
		h := float64(cell.Height*boardCellSize + (cell.Height-1)*boardMargin)

		dc.SetHexColor(board.Style.Accent)
		dc.DrawRoundedRectangle(x, y, w, h, 18)
		dc.Fill()

		product, ok := productsByID[cell.ProductID]
		if !ok || vs.fontFace == nil {
			continue
		}
		dc.SetFontFace(vs.fontFace)
		dc.SetHexColor(board.Style.Background)
		dc.DrawStringWrapped(product.Name, x+16, y+h-72, 0, 0, w-32, 1.3, gg.AlignLeft)
		dc.DrawString(fmt.Sprintf("$%.2f", product.Price), x+16, y+h-16)
	}

	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func loadBoardFont(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
