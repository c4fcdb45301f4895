package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itsupport/helpdesk-api/internal/model"
)

type InventoryRepo struct {
	pool *pgxpool.Pool
}

func NewInventoryRepo(pool *pgxpool.Pool) *InventoryRepo {
	return &InventoryRepo{
		pool: pool,
	}
}

const itemColumns = "id, name, category, quantity, created_at, updated_at"
const transactionColumns = "id, item_id, type, quantity, recipient, notes, created_at"

func scanItem(row pgx.Row) (model.InventoryItem, error) {
	var it model.InventoryItem
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

func scanTransaction(row pgx.Row) (model.InventoryTransaction, error) {
	var tr model.InventoryTransaction
	err := row.Scan(&tr.ID, &tr.ItemID, &tr.Type, &tr.Quantity, &tr.Recipient, &tr.Notes, &tr.CreatedAt)
	return tr, err
}

func (r *InventoryRepo) CreateItem(ctx context.Context, item model.InventoryItem) (model.InventoryItem, error) {
	return scanItem(r.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (id, name, category, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING `+itemColumns+`
	`, uuid.NewString(), item.Name, string(item.Category), item.Quantity))
}

func (r *InventoryRepo) GetItem(ctx context.Context, id string) (model.InventoryItem, error) {
	it, err := scanItem(r.pool.QueryRow(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		WHERE id = $1
	`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return it, ErrorNotFound
	}
	return it, err
}

// ListItems возвращает все позиции склада вместе с последними
// записями журнала по каждой из них.
func (r *InventoryRepo) ListItems(ctx context.Context, recentTransactions int) ([]model.InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+itemColumns+`
		FROM inventory_items
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.InventoryItem, 0)
	index := make(map[string]int)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		it.Transactions = make([]model.InventoryTransaction, 0, recentTransactions)
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// One pass over the ledger, N most recent rows per item.
	trRows, err := r.pool.Query(ctx, `
		SELECT `+transactionColumns+`
		FROM (
			SELECT `+transactionColumns+`,
			       ROW_NUMBER() OVER (PARTITION BY item_id ORDER BY created_at DESC, id DESC) AS rn
			FROM inventory_transactions
		) recent
		WHERE rn <= $1
		ORDER BY item_id, created_at DESC
	`, recentTransactions)
	if err != nil {
		return nil, err
	}
	defer trRows.Close()

	for trRows.Next() {
		tr, err := scanTransaction(trRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[tr.ItemID]; ok {
			items[i].Transactions = append(items[i].Transactions, tr)
		}
	}
	return items, trRows.Err()
}

// RecordTransaction пишет запись журнала и новое количество одним
// коммитом. Строка позиции блокируется на время транзакции, поэтому
// параллельные списания по одной позиции сериализуются.
func (r *InventoryRepo) RecordTransaction(ctx context.Context, req model.NewTransaction) (model.InventoryTransaction, error) {
	var created model.InventoryTransaction

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return created, err
	}
	defer tx.Rollback(ctx)

	var quantity int
	err = tx.QueryRow(ctx, `
		SELECT quantity
		FROM inventory_items
		WHERE id = $1
		FOR UPDATE
	`, req.ItemID).Scan(&quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return created, ErrorNotFound
	}
	if err != nil {
		return created, err
	}

	newQuantity := quantity + req.Quantity
	if req.Type == model.TransactionOut {
		newQuantity = quantity - req.Quantity
	}
	if newQuantity < 0 {
		return created, ErrorInsufficientStock
	}

	created, err = scanTransaction(tx.QueryRow(ctx, `
		INSERT INTO inventory_transactions (id, item_id, type, quantity, recipient, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns+`
	`, uuid.NewString(), req.ItemID, string(req.Type), req.Quantity, req.Recipient, req.Notes))
	if err != nil {
		return created, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE inventory_items
		SET quantity = $2, updated_at = now()
		WHERE id = $1
	`, req.ItemID, newQuantity)
	if err != nil {
		return created, err
	}

	return created, tx.Commit(ctx)
}

var _ InventoryRepository = (*InventoryRepo)(nil)
