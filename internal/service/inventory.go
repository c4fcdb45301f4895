package service

import (
	"context"
	"strings"

	"github.com/itsupport/helpdesk-api/internal/model"
	"github.com/itsupport/helpdesk-api/internal/repo"
)

// RecentTransactionCount is how many ledger entries accompany each item
// in inventory listings.
const RecentTransactionCount = 5

type InventoryService struct {
	repo repo.InventoryRepository
}

func NewInventoryService(repo repo.InventoryRepository) *InventoryService {
	return &InventoryService{repo: repo}
}

func (s *InventoryService) CreateItem(ctx context.Context, req model.NewItem) (model.InventoryItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return model.InventoryItem{}, ErrValidation
	}
	if !req.Category.Valid() {
		return model.InventoryItem{}, ErrValidation
	}
	// Количество обязательно; отрицательный старт нарушил бы инвариант
	// quantity >= 0.
	if req.Quantity == nil || *req.Quantity < 0 {
		return model.InventoryItem{}, ErrValidation
	}

	return s.repo.CreateItem(ctx, model.InventoryItem{
		Name:     req.Name,
		Category: req.Category,
		Quantity: *req.Quantity,
	})
}

func (s *InventoryService) List(ctx context.Context) ([]model.InventoryItem, error) {
	return s.repo.ListItems(ctx, RecentTransactionCount)
}

// RecordTransaction validates the request and hands the paired
// ledger-insert plus quantity-update to the repository, which commits
// both atomically or neither.
func (s *InventoryService) RecordTransaction(ctx context.Context, req model.NewTransaction) (model.InventoryTransaction, error) {
	if strings.TrimSpace(req.ItemID) == "" {
		return model.InventoryTransaction{}, ErrValidation
	}
	if !req.Type.Valid() {
		return model.InventoryTransaction{}, ErrValidation
	}
	if req.Quantity <= 0 {
		return model.InventoryTransaction{}, ErrValidation
	}
	return s.repo.RecordTransaction(ctx, req)
}
