package report

import (
	"time"

	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
)

// BestSellerThreshold is the trailing-30-day line count a book must exceed.
const BestSellerThreshold = 5

type Service struct {
	DB *gorm.DB
}

// activeStatuses are the statuses counted as real orders in the daily and
// period reports. Cancelled lines are excluded everywhere.
var activeStatuses = []string{
	models.StatusPending,
	models.StatusOutForDelivery,
	models.StatusCompleted,
}

// OrderRow is one flattened admin-table row: a line joined with its user and
// book.
type OrderRow struct {
	ID            uint      `json:"id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	PlacedAt      time.Time `json:"placed_at"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Price         float64   `json:"price"`
}

// HistoryRow is one line of a user's order history with the book populated.
type HistoryRow struct {
	ID            uint      `json:"id"`
	OrderNumber   string    `json:"order_number"`
	Status        string    `json:"status"`
	PaymentMethod string    `json:"payment_method"`
	PlacedAt      time.Time `json:"placed_at"`
	CreatedAt     time.Time `json:"created_at"`
	BookID        uint      `json:"book_id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Price         float64   `json:"price"`
	Description   string    `json:"description"`
}

type DayBucket struct {
	Day         string `json:"day"`
	TotalOrders int64  `json:"total_orders"`
}

type DateBucket struct {
	Day         int   `json:"day"`
	TotalOrders int64 `json:"total_orders"`
}

type MonthBucket struct {
	Month       int   `json:"month"`
	TotalOrders int64 `json:"total_orders"`
}

func (s *Service) AllOrders() ([]OrderRow, error) {
	var rows []OrderRow
	err := s.DB.Table("orders").
		Select("orders.id, orders.order_number, orders.status, orders.payment_method, orders.placed_at, " +
			"users.username, users.email, users.address, " +
			"books.title, books.author, books.price").
		Joins("JOIN users ON users.id = orders.user_id").
		Joins("JOIN books ON books.id = orders.book_id").
		Order("orders.placed_at DESC, orders.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (s *Service) OrderHistory(userID uint) ([]HistoryRow, error) {
	var rows []HistoryRow
	err := s.DB.Table("orders").
		Select("orders.id, orders.order_number, orders.status, orders.payment_method, orders.placed_at, orders.created_at, "+
			"orders.book_id, books.title, books.author, books.price, books.description").
		Joins("JOIN books ON books.id = orders.book_id").
		Where("orders.user_id = ?", userID).
		Order("orders.created_at DESC, orders.id DESC").
		Scan(&rows).Error
	return rows, err
}

// TodaySales sums the price of Completed lines placed within the
// server-local calendar day.
func (s *Service) TodaySales(now time.Time) (float64, error) {
	start, end := dayBounds(now)

	var total float64
	err := s.DB.Model(&models.Order{}).
		Where("placed_at >= ? AND placed_at < ? AND status = ?", start, end, models.StatusCompleted).
		Select("COALESCE(SUM(price), 0)").
		Scan(&total).Error
	return total, err
}

// TodayOrders counts non-Cancelled lines placed today.
func (s *Service) TodayOrders(now time.Time) (int64, error) {
	start, end := dayBounds(now)

	var count int64
	err := s.DB.Model(&models.Order{}).
		Where("placed_at >= ? AND placed_at < ? AND status IN ?", start, end, activeStatuses).
		Count(&count).Error
	return count, err
}

var dayNames = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// WeeklySales buckets this week's non-Cancelled lines by weekday. The week
// starts on Sunday; days after "now" are omitted.
func (s *Service) WeeklySales(now time.Time) ([]DayBucket, error) {
	startOfDay, _ := dayBounds(now)
	startOfWeek := startOfDay.AddDate(0, 0, -int(now.Weekday()))
	_, end := dayBounds(now)

	stamps, err := s.placedAtBetween(startOfWeek, end)
	if err != nil {
		return nil, err
	}

	counts := make(map[time.Weekday]int64)
	for _, ts := range stamps {
		counts[ts.Weekday()]++
	}

	buckets := make([]DayBucket, 0, int(now.Weekday())+1)
	for wd := time.Sunday; wd <= now.Weekday(); wd++ {
		buckets = append(buckets, DayBucket{Day: dayNames[wd], TotalOrders: counts[wd]})
	}
	return buckets, nil
}

// MonthlySales buckets this month's non-Cancelled lines by day of month, up
// to and including today.
func (s *Service) MonthlySales(now time.Time) ([]DateBucket, error) {
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	_, end := dayBounds(now)

	stamps, err := s.placedAtBetween(startOfMonth, end)
	if err != nil {
		return nil, err
	}

	counts := make(map[int]int64)
	for _, ts := range stamps {
		counts[ts.Day()]++
	}

	buckets := make([]DateBucket, 0, now.Day())
	for day := 1; day <= now.Day(); day++ {
		buckets = append(buckets, DateBucket{Day: day, TotalOrders: counts[day]})
	}
	return buckets, nil
}

// YearlySales buckets this year's non-Cancelled lines by month, up to and
// including the current month.
func (s *Service) YearlySales(now time.Time) ([]MonthBucket, error) {
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	_, end := dayBounds(now)

	stamps, err := s.placedAtBetween(startOfYear, end)
	if err != nil {
		return nil, err
	}

	counts := make(map[time.Month]int64)
	for _, ts := range stamps {
		counts[ts.Month()]++
	}

	buckets := make([]MonthBucket, 0, int(now.Month()))
	for m := time.January; m <= now.Month(); m++ {
		buckets = append(buckets, MonthBucket{Month: int(m), TotalOrders: counts[m]})
	}
	return buckets, nil
}

// BestSellers returns the books whose line count over the trailing 30 days
// is strictly greater than the threshold, regardless of status.
func (s *Service) BestSellers(now time.Time) ([]models.Book, error) {
	since := now.AddDate(0, 0, -30)

	var bookIDs []uint
	err := s.DB.Model(&models.Order{}).
		Where("placed_at >= ?", since).
		Group("book_id").
		Having("COUNT(*) > ?", BestSellerThreshold).
		Pluck("book_id", &bookIDs).Error
	if err != nil {
		return nil, err
	}
	if len(bookIDs) == 0 {
		return []models.Book{}, nil
	}

	var books []models.Book
	if err := s.DB.Where("id IN ?", bookIDs).Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// placedAtBetween loads the placement timestamps of non-Cancelled lines in
// [start, end). Bucketing happens in Go so the same query runs on Postgres
// and the sqlite test database.
func (s *Service) placedAtBetween(start, end time.Time) ([]time.Time, error) {
	var stamps []time.Time
	err := s.DB.Model(&models.Order{}).
		Where("placed_at >= ? AND placed_at < ? AND status IN ?", start, end, activeStatuses).
		Pluck("placed_at", &stamps).Error
	return stamps, err
}

func dayBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
