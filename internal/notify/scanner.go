// Package notify delivers maintenance reminders: a scanner walks every
// user's tasks, classifies them, and produces in-app notifications and
// reminder emails.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/maintenance"
	"github.com/autotrackhq/autotrack/internal/models"
)

// Scanner walks users' maintenance tasks and notifies about due work.
type Scanner struct {
	users         db.UserCollection
	cars          db.CarCollection
	tasks         db.TaskCollection
	notifications db.NotificationCollection
	engine        *maintenance.Engine
	sender        EmailSender
}

// NewScanner creates a reminder scanner.
func NewScanner(users db.UserCollection, cars db.CarCollection, tasks db.TaskCollection, notifications db.NotificationCollection, engine *maintenance.Engine, sender EmailSender) *Scanner {
	return &Scanner{
		users:         users,
		cars:          cars,
		tasks:         tasks,
		notifications: notifications,
		engine:        engine,
		sender:        sender,
	}
}

// Run performs one reminder pass over all users. Per-task failures are
// logged and skipped so one bad record cannot stall the whole pass.
func (s *Scanner) Run(ctx context.Context) error {
	users, err := s.users.FindUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	now := time.Now().UTC()
	for _, user := range users {
		if err := s.scanUser(ctx, user, now); err != nil {
			log.WithError(err).WithField("user_id", user.ID).Error("reminder scan failed for user")
		}
	}
	return nil
}

func (s *Scanner) scanUser(ctx context.Context, user models.User, now time.Time) error {
	cars, err := s.cars.FindCarsByUser(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to list cars: %w", err)
	}
	mileageByCar := make(map[string]int, len(cars))
	nameByCar := make(map[string]string, len(cars))
	for _, car := range cars {
		mileageByCar[car.ID] = car.CurrentMileage
		nameByCar[car.ID] = fmt.Sprintf("%d %s %s", car.Year, car.Make, car.Model)
	}

	tasks, err := s.tasks.FindTasksByUser(ctx, user.ID, "")
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	for _, task := range tasks {
		res, err := s.engine.Evaluate(maintenance.Input{
			LastPerformedMileage: task.LastPerformedMileage,
			LastPerformedDate:    task.LastPerformedDate,
			IntervalMiles:        task.IntervalMiles,
			IntervalMonths:       task.IntervalMonths,
			CurrentMileage:       mileageByCar[task.CarID],
			Today:                now,
			ReplacementRequested: task.ReplacementRequested,
		})
		if err != nil {
			log.WithError(err).WithField("task_id", task.ID).Warn("skipping task with invalid intervals")
			continue
		}

		dueInfo, remind := describeDue(res, now, user.Settings.ReminderDaysBefore)
		if !remind {
			continue
		}

		label := string(task.TaskType)
		if info, ok := models.TaskTypeDefaults(task.TaskType); ok {
			label = info.Label
		}
		carName := nameByCar[task.CarID]

		notification := models.Notification{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			Title:     reminderSubject(label, carName),
			Message:   fmt.Sprintf("Your %s for %s is %s.", label, carName, dueInfo),
			Type:      "maintenance_due",
			CreatedAt: now,
		}
		if err := s.notifications.InsertNotification(ctx, notification); err != nil {
			log.WithError(err).WithField("task_id", task.ID).Error("failed to insert notification")
		}

		if user.Settings.EmailReminders {
			body := reminderBody(user.Name, carName, label, dueInfo)
			if err := s.sender.Send(ctx, user.Email, user.Name, reminderSubject(label, carName), body); err != nil {
				log.WithError(err).WithField("user_id", user.ID).Error("failed to send reminder email")
			}
		}
	}
	return nil
}

// describeDue turns an evaluation into reminder text. Replacement requests
// are user-initiated and never reminded about; good tasks only when they
// fall inside the user's reminder window.
func describeDue(res maintenance.Result, now time.Time, reminderDaysBefore int) (string, bool) {
	switch res.Status {
	case models.StatusOverdue:
		return "overdue", true
	case models.StatusDueSoon:
		return fmt.Sprintf("due soon (by %s)", res.NextDueDate.Format("Jan 2, 2006")), true
	case models.StatusGood:
		days := int(res.NextDueDate.Sub(now).Hours() / 24)
		if reminderDaysBefore > 0 && days >= 0 && days <= reminderDaysBefore {
			return fmt.Sprintf("due in %d days", days), true
		}
	}
	return "", false
}
