package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Category struct {
	ID          int32
	Name        string
	Description pgtype.Text
	ImageUrl    pgtype.Text
	SortOrder   int32
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type MenuItem struct {
	ID          int32
	CategoryID  int32
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageUrl    pgtype.Text
	IsAvailable bool
	SortOrder   int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CartItem struct {
	ID         int32
	SessionID  string
	MenuItemID int32
	Quantity   int32
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Order struct {
	ID              int32
	Uuid            uuid.UUID
	SessionID       string
	Status          string
	Subtotal        pgtype.Numeric
	DeliveryFee     pgtype.Numeric
	TotalAmount     pgtype.Numeric
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Notes           pgtype.Text
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID         int32
	OrderID    int32
	MenuItemID int32
	ItemName   string
	UnitPrice  pgtype.Numeric
	Quantity   int32
	Subtotal   pgtype.Numeric
	CreatedAt  time.Time
}

type OrderStatusEvent struct {
	ID        int32
	OrderID   int32
	Status    string
	Notes     pgtype.Text
	CreatedAt time.Time
}
