package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/repositories/repomanager"
)

// UpdateReminderInput is a partial update: nil fields keep their stored
// values. ClearQuietHours removes the quiet window regardless of the two
// hour fields.
type UpdateReminderInput struct {
	IsEnabled            *bool `json:"isEnabled"`
	IntervalMinutes      *int  `json:"intervalMinutes"`
	BreakDurationMinutes *int  `json:"breakDurationMinutes"`
	QuietHoursStart      *int  `json:"quietHoursStart"`
	QuietHoursEnd        *int  `json:"quietHoursEnd"`
	ClearQuietHours      bool  `json:"clearQuietHours"`
}

// ReminderService manages break-reminder settings.
type ReminderService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewReminderService constructs a ReminderService.
func NewReminderService(db *sql.DB, m repomanager.RepositoryManager) *ReminderService {
	return &ReminderService{db: db, repomanager: m}
}

// Get returns the user's settings, creating the defaults on first read:
// enabled, hourly reminders, 5-minute breaks, no quiet window.
func (s *ReminderService) Get(ctx context.Context, userID string) (*models.BreakReminder, error) {
	reminder, err := s.repomanager.Reminders(s.db).Get(ctx, userID)
	if err == nil {
		return reminder, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	return s.repomanager.Reminders(s.db).Upsert(ctx, &models.BreakReminder{
		UserID:               userID,
		IsEnabled:            true,
		IntervalMinutes:      60,
		BreakDurationMinutes: 5,
	})
}

// Update applies a partial settings change on top of the stored (or
// default-bootstrapped) row.
func (s *ReminderService) Update(ctx context.Context, userID string, input UpdateReminderInput) (*models.BreakReminder, error) {
	reminder, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.IsEnabled != nil {
		reminder.IsEnabled = *input.IsEnabled
	}
	if input.IntervalMinutes != nil {
		reminder.IntervalMinutes = *input.IntervalMinutes
	}
	if input.BreakDurationMinutes != nil {
		reminder.BreakDurationMinutes = *input.BreakDurationMinutes
	}
	if input.QuietHoursStart != nil {
		reminder.QuietHoursStart = input.QuietHoursStart
	}
	if input.QuietHoursEnd != nil {
		reminder.QuietHoursEnd = input.QuietHoursEnd
	}
	if input.ClearQuietHours {
		reminder.QuietHoursStart = nil
		reminder.QuietHoursEnd = nil
	}

	if err := validateReminder(reminder); err != nil {
		return nil, err
	}

	return s.repomanager.Reminders(s.db).Upsert(ctx, reminder)
}

func validateReminder(r *models.BreakReminder) error {
	if r.IntervalMinutes < 1 || r.IntervalMinutes > 1440 {
		return fmt.Errorf("%w: intervalMinutes must be between 1 and 1440", common.ErrValidation)
	}
	if r.BreakDurationMinutes < 1 || r.BreakDurationMinutes > 120 {
		return fmt.Errorf("%w: breakDurationMinutes must be between 1 and 120", common.ErrValidation)
	}
	for _, h := range []*int{r.QuietHoursStart, r.QuietHoursEnd} {
		if h != nil && (*h < 0 || *h > 23) {
			return fmt.Errorf("%w: quiet hours must be between 0 and 23", common.ErrValidation)
		}
	}
	if r.QuietHoursStart != nil && r.QuietHoursEnd != nil && *r.QuietHoursStart == *r.QuietHoursEnd {
		return fmt.Errorf("%w: quiet hours start and end must differ", common.ErrValidation)
	}
	return nil
}
