package repo

import (
	"context"

	"github.com/itsupport/helpdesk-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	List(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, id string, upd model.TaskUpdate) (model.Task, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (model.TaskStats, error)
}

// InventoryRepository определяет интерфейс для работы со складом
type InventoryRepository interface {
	CreateItem(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error)
	GetItem(ctx context.Context, id string) (model.InventoryItem, error)
	ListItems(ctx context.Context, recentTransactions int) ([]model.InventoryItem, error)
	RecordTransaction(ctx context.Context, req model.NewTransaction) (model.InventoryTransaction, error)
}
