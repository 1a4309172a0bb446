package report

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
)

var ErrNoOrders = errors.New("no orders found")

// InvoiceUser is the public slice of the account shown on an invoice.
type InvoiceUser struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Address  string `json:"address"`
}

type InvoiceLine struct {
	OrderNumber   string    `json:"order_number"`
	PaymentMethod string    `json:"payment_method"`
	PlacedAt      time.Time `json:"placed_at"`
	CreatedAt     time.Time `json:"created_at"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Price         float64   `json:"price"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
}

type Invoice struct {
	User   InvoiceUser   `json:"user"`
	Orders []InvoiceLine `json:"orders"`
}

// LatestInvoice returns the caller's most recent order group as an invoice.
func (s *Service) LatestInvoice(userID uint) (*Invoice, error) {
	user, err := s.invoiceUser(userID)
	if err != nil {
		return nil, err
	}

	var last models.Order
	if err := s.DB.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&last).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoOrders
		}
		return nil, err
	}

	lines, err := s.invoiceLines(userID, "orders.group_id = ?", last.GroupID)
	if err != nil {
		return nil, err
	}
	return &Invoice{User: user, Orders: lines}, nil
}

// InvoiceByTimestamp returns the caller's order lines placed within one hour
// from the given timestamp. The window absorbs timezone and precision drift
// in client-supplied timestamps.
func (s *Service) InvoiceByTimestamp(userID uint, ts time.Time) (*Invoice, error) {
	user, err := s.invoiceUser(userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.invoiceLines(userID,
		"orders.placed_at >= ? AND orders.placed_at < ?", ts, ts.Add(time.Hour))
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNoOrders
	}
	return &Invoice{User: user, Orders: lines}, nil
}

func (s *Service) invoiceUser(userID uint) (InvoiceUser, error) {
	var user models.User
	if err := s.DB.First(&user, userID).Error; err != nil {
		return InvoiceUser{}, err
	}
	return InvoiceUser{Username: user.Username, Email: user.Email, Address: user.Address}, nil
}

func (s *Service) invoiceLines(userID uint, cond string, args ...interface{}) ([]InvoiceLine, error) {
	var lines []InvoiceLine
	err := s.DB.Table("orders").
		Select("orders.order_number, orders.payment_method, orders.placed_at, orders.created_at, "+
			"books.title, books.author, books.price, books.description, books.url").
		Joins("JOIN books ON books.id = orders.book_id").
		Where("orders.user_id = ?", userID).
		Where(cond, args...).
		Order("orders.id ASC").
		Scan(&lines).Error
	return lines, err
}
