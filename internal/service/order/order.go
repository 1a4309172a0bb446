package order

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
)

var (
	ErrEmptyOrder     = errors.New("no books in the order")
	ErrPaymentDetails = errors.New("payment details are required")
	ErrInvalidPhone   = errors.New("invalid bKash phone number")
	ErrPriceMismatch  = errors.New("submitted price does not match the catalog price")
	ErrBookNotFound   = errors.New("book not found")
)

const orderNumberAttempts = 3

type Service struct {
	DB *gorm.DB

	// NumberFn overrides the order number generator; nil means
	// GenerateOrderNumber.
	NumberFn func() string
}

// Line is one submitted cart line: the book and the price the client saw.
type Line struct {
	BookID uint    `json:"book_id"`
	Price  float64 `json:"price"`
}

type PaymentDetails struct {
	CardNumber       string `json:"card_number"`
	ExpiryDate       string `json:"expiry_date"`
	CVC              string `json:"cvc"`
	CardName         string `json:"card_name"`
	BkashPhoneNumber string `json:"bkash_phone_number"`
}

type Result struct {
	Group  models.OrderGroup `json:"group"`
	Orders []models.Order    `json:"orders"`
	Total  float64           `json:"total"`
}

// Checkout converts cart lines into one order group with one order line per
// book. The group insert, line inserts and cart drain run in a single
// transaction; submitted prices must match the catalog.
func (s *Service) Checkout(userID uint, method string, lines []Line, details PaymentDetails) (*Result, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	switch method {
	case models.PaymentCard:
		if details.CardNumber == "" || details.ExpiryDate == "" || details.CVC == "" || details.CardName == "" {
			return nil, ErrPaymentDetails
		}
	case models.PaymentBkash:
		if details.BkashPhoneNumber == "" {
			return nil, ErrPaymentDetails
		}
		normalized, err := NormalizeBkashNumber(details.BkashPhoneNumber)
		if err != nil {
			return nil, err
		}
		details.BkashPhoneNumber = normalized
	}

	// Postgres stores timestamps at microsecond precision; round here so the
	// PlacedAt returned to the client matches the stored value exactly.
	placedAt := time.Now().Round(time.Microsecond)
	group := models.OrderGroup{
		ID:            uuid.NewString(),
		UserID:        userID,
		PaymentMethod: method,
		PlacedAt:      placedAt,
	}

	var (
		saved []models.Order
		total float64
	)

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		for _, line := range lines {
			var book models.Book
			if err := tx.First(&book, line.BookID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: id %d", ErrBookNotFound, line.BookID)
				}
				return err
			}
			if book.Price != line.Price {
				return fmt.Errorf("%w: book %d", ErrPriceMismatch, line.BookID)
			}
		}

		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		saved = make([]models.Order, 0, len(lines))
		bookIDs := make([]uint, 0, len(lines))
		for _, line := range lines {
			o := models.Order{
				GroupID:          group.ID,
				UserID:           userID,
				BookID:           line.BookID,
				Price:            line.Price,
				Status:           models.StatusPending,
				PaymentMethod:    method,
				PlacedAt:         placedAt,
				CardNumber:       details.CardNumber,
				ExpiryDate:       details.ExpiryDate,
				CVC:              details.CVC,
				CardName:         details.CardName,
				BkashPhoneNumber: details.BkashPhoneNumber,
			}
			if method != models.PaymentCard {
				o.CardNumber, o.ExpiryDate, o.CVC, o.CardName = "", "", "", ""
			}
			if method != models.PaymentBkash {
				o.BkashPhoneNumber = ""
			}

			if err := createWithOrderNumber(tx, &o, s.numberFn()); err != nil {
				return err
			}

			saved = append(saved, o)
			bookIDs = append(bookIDs, line.BookID)
			total += line.Price
		}

		if err := tx.Where("user_id = ? AND book_id IN ?", userID, bookIDs).
			Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &Result{Group: group, Orders: saved, Total: total}, nil
}

func (s *Service) numberFn() func() string {
	if s.NumberFn != nil {
		return s.NumberFn
	}
	return GenerateOrderNumber
}

// createWithOrderNumber inserts the line, regenerating the order number on a
// uniqueness collision. The generator gives no collision-free guarantee, the
// store's unique constraint does. Each attempt runs in its own savepoint:
// Postgres aborts the enclosing transaction after a failed INSERT, so the
// retry must roll back to a point before the failure.
func createWithOrderNumber(tx *gorm.DB, o *models.Order, gen func() string) error {
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		o.OrderNumber = gen()
		err = tx.Transaction(func(inner *gorm.DB) error {
			return inner.Create(o).Error
		})
		if err == nil {
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		o.ID = 0
	}
	return fmt.Errorf("order number collision after %d attempts: %w", orderNumberAttempts, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// GenerateOrderNumber builds "wspr" + low six digits of unix millis + a
// random suffix.
func GenerateOrderNumber() string {
	millis := fmt.Sprint(time.Now().UnixMilli())
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return fmt.Sprintf("wspr%s%d", millis, rand.Intn(10000))
}

var bkashPattern = regexp.MustCompile(`^\+8801\d{9}$`)

// NormalizeBkashNumber canonicalizes a Bangladeshi mobile number to
// "+8801XXXXXXXXX". A national "01XXXXXXXXX" form is promoted to the +880
// country code; separators are stripped.
func NormalizeBkashNumber(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	var candidate string
	if strings.HasPrefix(s, "+880") {
		candidate = "+880" + stripNonDigits(s[4:])
	} else {
		digits := stripNonDigits(s)
		if len(digits) == 11 && strings.HasPrefix(digits, "01") {
			candidate = "+880" + digits[1:]
		} else {
			return "", ErrInvalidPhone
		}
	}

	if !bkashPattern.MatchString(candidate) {
		return "", ErrInvalidPhone
	}
	return candidate, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
