package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
)

func seedInvoiceUser(t *testing.T, db *gorm.DB) models.User {
	user := models.User{Username: "buyer", Email: "buyer@example.com", PasswordHash: "x", Address: "Chittagong", Role: "user"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedGroupOrder(t *testing.T, db *gorm.DB, userID, bookID uint, groupID string, placedAt time.Time) {
	orderSeq++
	o := models.Order{
		OrderNumber:   "wsprinv" + groupID + string(rune('a'+orderSeq%26)),
		GroupID:       groupID,
		UserID:        userID,
		BookID:        bookID,
		Price:         100,
		Status:        models.StatusPending,
		PaymentMethod: models.PaymentCOD,
		PlacedAt:      placedAt,
	}
	require.NoError(t, db.Create(&o).Error)
}

func TestLatestInvoiceReturnsMostRecentGroup(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}

	user := seedInvoiceUser(t, db)
	b1 := seedBook(t, db, "Old Pick", 100)
	b2 := seedBook(t, db, "New Pick", 100)
	b3 := seedBook(t, db, "New Pick Too", 100)

	seedGroupOrder(t, db, user.ID, b1.ID, "g1", time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC))
	seedGroupOrder(t, db, user.ID, b2.ID, "g2", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))
	seedGroupOrder(t, db, user.ID, b3.ID, "g2", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC))

	inv, err := svc.LatestInvoice(user.ID)
	require.NoError(t, err)
	require.Equal(t, "buyer", inv.User.Username)
	require.Equal(t, "Chittagong", inv.User.Address)
	require.Len(t, inv.Orders, 2)
	require.Equal(t, "New Pick", inv.Orders[0].Title)
	require.Equal(t, "New Pick Too", inv.Orders[1].Title)
}

func TestLatestInvoiceNoOrders(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}

	user := seedInvoiceUser(t, db)

	_, err := svc.LatestInvoice(user.ID)
	require.ErrorIs(t, err, ErrNoOrders)
}

func TestInvoiceByTimestampWindow(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}

	user := seedInvoiceUser(t, db)
	b1 := seedBook(t, db, "In Window", 100)
	b2 := seedBook(t, db, "Out Of Window", 100)

	ts := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	seedGroupOrder(t, db, user.ID, b1.ID, "g1", ts.Add(30*time.Minute))
	seedGroupOrder(t, db, user.ID, b2.ID, "g2", ts.Add(2*time.Hour))

	inv, err := svc.InvoiceByTimestamp(user.ID, ts)
	require.NoError(t, err)
	require.Len(t, inv.Orders, 1)
	require.Equal(t, "In Window", inv.Orders[0].Title)

	_, err = svc.InvoiceByTimestamp(user.ID, ts.AddDate(0, 0, 5))
	require.ErrorIs(t, err, ErrNoOrders)
}

func TestInvoiceByTimestampOtherUserHidden(t *testing.T) {
	db := newTestDB(t)
	svc := &Service{DB: db}

	user := seedInvoiceUser(t, db)
	other := models.User{Username: "other", Email: "other@example.com", PasswordHash: "x", Role: "user"}
	require.NoError(t, db.Create(&other).Error)

	book := seedBook(t, db, "Private Pick", 100)
	ts := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	seedGroupOrder(t, db, other.ID, book.ID, "g1", ts)

	_, err := svc.InvoiceByTimestamp(user.ID, ts)
	require.ErrorIs(t, err, ErrNoOrders)
}
