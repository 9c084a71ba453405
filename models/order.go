package models

import "time"

const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeaway = "takeaway"
	OrderTypeDelivery = "delivery"

	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	UserID         uint        `gorm:"not null;index" json:"user_id"`
	User           User        `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Type           string      `gorm:"type:varchar(20);not null" json:"type"`
	TableNumber    *int        `json:"table_number,omitempty"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	TotalPrice     float64     `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`
	Status         string      `gorm:"type:varchar(20);not null;default:'preparing';index" json:"status"`
	SpecialRequest string      `gorm:"type:text" json:"special_request,omitempty"`
	CreatedAt      time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func IsValidOrderType(t string) bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeaway, OrderTypeDelivery:
		return true
	}
	return false
}

func IsValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPreparing, OrderStatusReady, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderView is the order as returned over the API, with the owner stitched in.
type OrderView struct {
	Order
	Customer UserSummary `json:"user"`
}

func (o Order) View() OrderView {
	return OrderView{Order: o, Customer: o.User.Summary()}
}
