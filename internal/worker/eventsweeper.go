package worker

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/wsprbooks/bookstore/internal/logging"
	"github.com/wsprbooks/bookstore/internal/models"
)

const SweepInterval = time.Minute

// EventSweeper deletes events whose end datetime has passed. One sweep runs
// per tick; there is no coordination with concurrent reads.
type EventSweeper struct {
	DB  *gorm.DB
	Log *slog.Logger
}

func (s *EventSweeper) Run(ctx context.Context, interval time.Duration) {
	if s.Log == nil {
		s.Log = logging.FromContext(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(time.Now())
		}
	}
}

// Sweep removes every event that ended before now.
func (s *EventSweeper) Sweep(now time.Time) {
	var events []models.Event
	if err := s.DB.Find(&events).Error; err != nil {
		s.Log.Error("event sweep: load events", "err", err)
		return
	}

	for _, event := range events {
		end, err := eventEnd(event)
		if err != nil {
			s.Log.Warn("event sweep: bad end time", "event_id", event.ID, "err", err)
			continue
		}
		if end.Before(now) {
			if err := s.DB.Delete(&models.Event{}, event.ID).Error; err != nil {
				s.Log.Error("event sweep: delete", "event_id", event.ID, "err", err)
				continue
			}
			s.Log.Info("expired event deleted", "event_id", event.ID)
		}
	}
}

// eventEnd combines EventDate with the "HH:MM" EndTime.
func eventEnd(event models.Event) (time.Time, error) {
	t, err := time.Parse("15:04", event.EndTime)
	if err != nil {
		return time.Time{}, err
	}
	d := event.EventDate
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, d.Location()), nil
}
