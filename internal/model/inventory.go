package model

import "time"

type InventoryCategory string

const (
	ItemKeyboard InventoryCategory = "KEYBOARD"
	ItemMouse    InventoryCategory = "MOUSE"
	ItemMonitor  InventoryCategory = "MONITOR"
	ItemHeadset  InventoryCategory = "HEADSET"
	ItemWebcam   InventoryCategory = "WEBCAM"
	ItemOther    InventoryCategory = "OTHER"
)

func (c InventoryCategory) Valid() bool {
	switch c {
	case ItemKeyboard, ItemMouse, ItemMonitor, ItemHeadset, ItemWebcam, ItemOther:
		return true
	}
	return false
}

type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIn || t == TransactionOut
}

type InventoryItem struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Category  InventoryCategory `json:"category"`
	Quantity  int               `json:"quantity"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`

	// Transactions carries the most recent ledger entries when the item
	// is returned by List; it is not a stored column.
	Transactions []InventoryTransaction `json:"transactions"`
}

// InventoryTransaction is an append-only ledger entry; rows are never
// updated or deleted once written.
type InventoryTransaction struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"itemId"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Recipient *string         `json:"recipient"`
	Notes     *string         `json:"notes"`
	CreatedAt time.Time       `json:"createdAt"`
}

// NewTransaction is the request payload for recording a stock movement.
type NewTransaction struct {
	ItemID    string          `json:"itemId"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Recipient *string         `json:"recipient"`
	Notes     *string         `json:"notes"`
}

// NewItem is the request payload for creating an inventory item.
// Quantity is a pointer so a missing field can be told apart from zero.
type NewItem struct {
	Name     string            `json:"name"`
	Category InventoryCategory `json:"category"`
	Quantity *int              `json:"quantity"`
}
