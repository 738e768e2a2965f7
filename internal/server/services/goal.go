package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/screenbudget/backend/internal/common"
	"github.com/screenbudget/backend/internal/datex"
	"github.com/screenbudget/backend/internal/server/models"
	"github.com/screenbudget/backend/internal/server/repositories/repomanager"
)

// defaultWeeklyMinutes seeds a first goal for users with no usage history:
// four hours a day for a week.
const defaultWeeklyMinutes = 1680

// GoalService manages weekly total-minutes reduction goals.
type GoalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewGoalService constructs a GoalService.
func NewGoalService(db *sql.DB, m repomanager.RepositoryManager) *GoalService {
	return &GoalService{db: db, repomanager: m}
}

// Current returns the goal for the week containing now, creating a default
// one when absent: 80% of the trailing week's total usage, or
// defaultWeeklyMinutes without history.
func (s *GoalService) Current(ctx context.Context, userID string, now time.Time) (*models.WeeklyGoal, error) {
	weekStart := datex.WeekStart(now)

	goal, err := s.repomanager.Goals(s.db).GetByWeek(ctx, userID, weekStart)
	if err == nil {
		return goal, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	trailing, err := s.trailingWeekTotal(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if trailing == 0 {
		trailing = defaultWeeklyMinutes
	}

	return s.repomanager.Goals(s.db).Create(ctx, &models.WeeklyGoal{
		UserID:        userID,
		WeekStartDate: weekStart,
		TargetMinutes: int(math.Round(float64(trailing) * 0.8)),
		IsActive:      true,
	})
}

// Set upserts the goal target for the week containing weekStart (or the
// current week when weekStart is zero), reactivating an inactive goal.
func (s *GoalService) Set(ctx context.Context, userID string, targetMinutes int, weekStart time.Time) (*models.WeeklyGoal, error) {
	if targetMinutes <= 0 {
		return nil, fmt.Errorf("%w: targetMinutes must be positive", common.ErrValidation)
	}
	if weekStart.IsZero() {
		weekStart = time.Now()
	}
	return s.repomanager.Goals(s.db).Upsert(ctx, &models.WeeklyGoal{
		UserID:        userID,
		WeekStartDate: datex.WeekStart(weekStart),
		TargetMinutes: targetMinutes,
	})
}

// UpdateProgress recomputes the week's total minutes and the number of days
// that stayed at or under the pro-rated daily target. Called after every
// usage sync; silently a no-op when the week has no active goal.
func (s *GoalService) UpdateProgress(ctx context.Context, userID string, date time.Time) (*models.WeeklyGoal, error) {
	weekStart := datex.WeekStart(date)

	goal, err := s.repomanager.Goals(s.db).GetByWeek(ctx, userID, weekStart)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !goal.IsActive {
		return nil, nil
	}

	weekEnd := weekStart.AddDate(0, 0, 6)
	rows, err := s.repomanager.Usage(s.db).Range(ctx, userID, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	total := 0
	perDay := make(map[string]int)
	for _, row := range rows {
		total += row.TotalMinutes
		key := row.UsageDate.Format("2006-01-02")
		perDay[key] += row.TotalMinutes
	}

	dailyTarget := (goal.TargetMinutes + 6) / 7 // ceil(target/7)
	daysCompleted := 0
	for _, minutes := range perDay {
		if minutes <= dailyTarget {
			daysCompleted++
		}
	}

	if err := s.repomanager.Goals(s.db).UpdateProgress(ctx, goal.ID, total, daysCompleted); err != nil {
		return nil, err
	}
	goal.CurrentMinutes = total
	goal.DaysCompleted = daysCompleted
	return goal, nil
}

// History returns the user's recent weekly goals, newest week first.
func (s *GoalService) History(ctx context.Context, userID string, limit int) ([]*models.WeeklyGoal, error) {
	if limit <= 0 {
		limit = 4
	}
	return s.repomanager.Goals(s.db).List(ctx, userID, limit)
}

func (s *GoalService) trailingWeekTotal(ctx context.Context, userID string, now time.Time) (int, error) {
	to := datex.DayStart(now)
	from := to.AddDate(0, 0, -7)
	rows, err := s.repomanager.Usage(s.db).Range(ctx, userID, from, to)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, row := range rows {
		total += row.TotalMinutes
	}
	return total, nil
}
