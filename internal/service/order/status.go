package order

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/models"
)

var (
	ErrInvalidStatus     = errors.New("invalid status provided")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrNoOrders          = errors.New("no orders found")
)

var validStatuses = map[string]bool{
	models.StatusPending:        true,
	models.StatusOutForDelivery: true,
	models.StatusCompleted:      true,
	models.StatusCancelled:      true,
}

// transitions is the legal state machine per line: Completed and Cancelled
// are terminal.
var transitions = map[string]map[string]bool{
	models.StatusPending: {
		models.StatusOutForDelivery: true,
		models.StatusCancelled:      true,
	},
	models.StatusOutForDelivery: {
		models.StatusCompleted: true,
		models.StatusCancelled: true,
	},
}

func ValidStatus(status string) bool {
	return validStatuses[status]
}

func CanTransition(from, to string) bool {
	return transitions[from][to]
}

// UpdateStatusByTimestamp sets the status of every line sharing the
// placement timestamp. The whole update is rejected if any affected line
// forbids the transition, so a group never ends up half-moved.
func (s *Service) UpdateStatusByTimestamp(placedAt time.Time, newStatus string) (int64, error) {
	if !ValidStatus(newStatus) {
		return 0, ErrInvalidStatus
	}

	var updated int64
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var lines []models.Order
		if err := tx.Where("placed_at = ?", placedAt).Find(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrNoOrders
		}

		for _, line := range lines {
			if !CanTransition(line.Status, newStatus) {
				return ErrIllegalTransition
			}
		}

		res := tx.Model(&models.Order{}).
			Where("placed_at = ?", placedAt).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return nil
	})
	if txErr != nil {
		return 0, txErr
	}
	return updated, nil
}
