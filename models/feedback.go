package models

import "time"

const (
	FeedbackPending = "pending"
	FeedbackReplied = "replied"

	FeedbackKindRestaurant = "restaurant"
	FeedbackKindItem       = "item"
)

type RestaurantFeedback struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Rating    int        `gorm:"not null" json:"rating"`
	Date      time.Time  `gorm:"not null;index" json:"date"`
	AdminID   *uint      `json:"admin_id,omitempty"`
	Reply     *string    `gorm:"type:text" json:"reply,omitempty"`
	ReplyDate *time.Time `json:"reply_date,omitempty"`
	Status    string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
}

type ItemFeedback struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	MenuItemID uint       `gorm:"not null;index" json:"menu_item_id"`
	MenuItem   MenuItem   `gorm:"foreignKey:MenuItemID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"menu_item"`
	Message    string     `gorm:"type:text;not null" json:"message"`
	Rating     int        `gorm:"not null" json:"rating"`
	Date       time.Time  `gorm:"not null;index" json:"date"`
	AdminID    *uint      `json:"admin_id,omitempty"`
	Reply      *string    `gorm:"type:text" json:"reply,omitempty"`
	ReplyDate  *time.Time `json:"reply_date,omitempty"`
	Status     string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
}

// FeedbackSummary holds the aggregates of one feedback table.
type FeedbackSummary struct {
	Total   int64   `json:"total"`
	Average float64 `json:"average"`
	Pending int64   `json:"pending"`
	Replied int64   `json:"replied"`
}

// FeedbackActivity is one line of the dashboard's recent activity feed,
// covering both feedback kinds.
type FeedbackActivity struct {
	ID         uint        `json:"id"`
	Kind       string      `json:"kind"`
	User       UserSummary `json:"user"`
	MenuItemID *uint       `json:"menu_item_id,omitempty"`
	Message    string      `json:"message"`
	Rating     int         `json:"rating"`
	Status     string      `json:"status"`
	Date       time.Time   `json:"date"`
}

func (f RestaurantFeedback) Activity() FeedbackActivity {
	return FeedbackActivity{
		ID:      f.ID,
		Kind:    FeedbackKindRestaurant,
		User:    f.User.Summary(),
		Message: f.Message,
		Rating:  f.Rating,
		Status:  f.Status,
		Date:    f.Date,
	}
}

func (f ItemFeedback) Activity() FeedbackActivity {
	itemID := f.MenuItemID
	return FeedbackActivity{
		ID:         f.ID,
		Kind:       FeedbackKindItem,
		User:       f.User.Summary(),
		MenuItemID: &itemID,
		Message:    f.Message,
		Rating:     f.Rating,
		Status:     f.Status,
		Date:       f.Date,
	}
}
