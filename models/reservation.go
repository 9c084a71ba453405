package models

import "time"

const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"

	// TableCount is the number of reservable tables, numbered 1..TableCount.
	TableCount = 20

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Reservation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableNumber int       `gorm:"not null" json:"table_number"`
	Date        string    `gorm:"type:varchar(10);not null;index:idx_reservation_slot" json:"date"`
	Time        string    `gorm:"type:varchar(5);not null;index:idx_reservation_slot" json:"time"`
	Guests      int       `gorm:"not null" json:"guests"`
	Phone       *string   `gorm:"type:varchar(30)" json:"phone,omitempty"`
	Status      string    `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ReservationView struct {
	Reservation
	Customer UserSummary `json:"user"`
}

func (r Reservation) View() ReservationView {
	return ReservationView{Reservation: r, Customer: r.User.Summary()}
}
