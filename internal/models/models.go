package models

import (
	"time"
)

const (
	StatusPending        = "Pending"
	StatusOutForDelivery = "Out for Delivery"
	StatusCompleted      = "Completed"
	StatusCancelled      = "Cancelled"
)

const (
	PaymentCOD   = "COD"
	PaymentCard  = "Card"
	PaymentBkash = "bKash"
)

type Book struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"not null"                 json:"title"`
	Author      string    `gorm:"not null"                 json:"author"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Description string    `gorm:"not null"                 json:"description"`
	Language    string    `gorm:"not null"                 json:"language"`
	Genre       string    `gorm:"not null"                 json:"genre"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"unique;not null"          json:"username"`
	Email        string    `gorm:"unique;not null"          json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Address      string    `json:"address"`
	Avatar       string    `json:"avatar"`
	Role         string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type CartItem struct {
	ID     uint `gorm:"primaryKey"                               json:"id"`
	UserID uint `gorm:"index:idx_cart_user_book,unique;not null" json:"user_id"`
	BookID uint `gorm:"index:idx_cart_user_book,unique;not null" json:"book_id"`
}

type FavoriteItem struct {
	ID     uint `gorm:"primaryKey"                              json:"id"`
	UserID uint `gorm:"index:idx_fav_user_book,unique;not null" json:"user_id"`
	BookID uint `gorm:"index:idx_fav_user_book,unique;not null" json:"book_id"`
}

// OrderGroup is the header of one checkout. Every line created by that
// checkout carries its ID and the same PlacedAt.
type OrderGroup struct {
	ID            string    `gorm:"primaryKey"     json:"id"`
	UserID        uint      `gorm:"index;not null" json:"user_id"`
	PaymentMethod string    `gorm:"not null"       json:"payment_method"`
	PlacedAt      time.Time `gorm:"index;not null" json:"placed_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Order is one purchased book line. Payment details are flattened columns
// filled according to PaymentMethod.
type Order struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber   string    `gorm:"unique;not null"          json:"order_number"`
	GroupID       string    `gorm:"index;not null"           json:"group_id"`
	UserID        uint      `gorm:"index;not null"           json:"user_id"`
	BookID        uint      `gorm:"not null"                 json:"book_id"`
	Price         float64   `gorm:"not null"                 json:"price"`
	Status        string    `gorm:"not null;default:Pending" json:"status"`
	PaymentMethod string    `gorm:"not null;default:COD"     json:"payment_method"`
	PlacedAt      time.Time `gorm:"index;not null"           json:"placed_at"`

	CardNumber       string `json:"card_number,omitempty"`
	ExpiryDate       string `json:"expiry_date,omitempty"`
	CVC              string `json:"cvc,omitempty"`
	CardName         string `json:"card_name,omitempty"`
	BkashPhoneNumber string `json:"bkash_phone_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Event struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	EventDate   time.Time `gorm:"not null"                 json:"event_date"`
	StartTime   string    `gorm:"not null"                 json:"start_time"`
	EndTime     string    `gorm:"not null"                 json:"end_time"`
	IsVirtual   bool      `gorm:"default:false"            json:"is_virtual"`
	Description string    `gorm:"not null"                 json:"description"`
	ImageURL    string    `json:"image_url"`
	EventURL    string    `json:"event_url,omitempty"`
	Location    string    `json:"location,omitempty"`
	UserID      uint      `gorm:"index"                    json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
