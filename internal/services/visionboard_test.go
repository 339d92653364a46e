package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/aurelle/marketing-backend/internal/types"
)

func newVisionBoardFixture(t *testing.T) (VisionBoardService, *fixture) {
	t.Helper()
	f := newFixture(t)
	recs := NewRecommendationService(f.db, f.log, f.userRepo, f.productRepo, f.purchaseRepo, f.graph, f.cache)
	svc, err := NewVisionBoardService(f.db, f.log, f.userRepo, f.productRepo, f.interestRepo, recs)
	if err != nil {
		t.Fatalf("init vision board service: %v", err)
	}
	return svc, f
}

func TestBuildBoardThemeFollowsTopInterest(t *testing.T) {
	svc, f := newVisionBoardFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "theme@example.com")
	mustCreateProduct(t, f.db, "Laptop", types.CategoryElectronics, 900)

	interest := &types.UserInterest{
		ID: uuid.New(), UserID: user.ID, Category: types.InterestTechnology, Value: "technology",
		ConfidenceScore: 0.9, Source: "explicit",
	}
	if err := f.db.Create(interest).Error; err != nil {
		t.Fatalf("create interest: %v", err)
	}

	board, err := svc.Build(ctx, user.ID, "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if board.Theme != "technology" {
		t.Fatalf("theme: want=technology got=%q", board.Theme)
	}
	if board.Style.Name != "Circuit" {
		t.Fatalf("style: got=%q", board.Style.Name)
	}
	if board.Title == "" {
		t.Fatalf("expected generated title")
	}
}

func TestBuildBoardLayoutCellsDoNotOverlap(t *testing.T) {
	svc, f := newVisionBoardFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "layout@example.com")
	for i := 0; i < 6; i++ {
		mustCreateProduct(t, f.db, "Item", types.CategoryBooksMedia, 12)
	}

	board, err := svc.Build(ctx, user.ID, "My board")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(board.Layout) != len(board.Products) {
		t.Fatalf("layout cells: want=%d got=%d", len(board.Products), len(board.Layout))
	}

	occupied := map[[2]int]bool{}
	for _, cell := range board.Layout {
		if cell.Width < 1 || cell.Height < 1 {
			t.Fatalf("degenerate cell: %+v", cell)
		}
		if cell.Col+cell.Width > 3 {
			t.Fatalf("cell out of bounds: %+v", cell)
		}
		for dr := 0; dr < cell.Height; dr++ {
			for dc := 0; dc < cell.Width; dc++ {
				pos := [2]int{cell.Row + dr, cell.Col + dc}
				if occupied[pos] {
					t.Fatalf("overlapping cell at %v", pos)
				}
				occupied[pos] = true
			}
		}
	}

	// The first cell is a double-size hero when enough products exist.
	if board.Layout[0].Width != 2 || board.Layout[0].Height != 2 {
		t.Fatalf("hero cell: got=%+v", board.Layout[0])
	}
}

func TestRenderBoardProducesPNG(t *testing.T) {
	svc, f := newVisionBoardFixture(t)
	ctx := context.Background()
	user := mustCreateUser(t, f.db, "render@example.com")
	for i := 0; i < 4; i++ {
		mustCreateProduct(t, f.db, "Item", types.CategoryTravelServices, 50)
	}

	board, err := svc.Build(ctx, user.ID, "Trip board")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	buf, err := svc.Render(ctx, board)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestRenderRejectsEmptyBoard(t *testing.T) {
	svc, _ := newVisionBoardFixture(t)

	if _, err := svc.Render(context.Background(), &types.VisionBoard{}); err == nil {
		t.Fatalf("expected error for empty board")
	}
}
