package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookline/models"
	"bookline/services/tasks"
	"bookline/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Reminder offsets before the confirmed start.
var reminderOffsets = []struct {
	d     time.Duration
	label string
}{
	{24 * time.Hour, "24h"},
	{60 * time.Minute, "60m"},
}

// DefaultNotificationService sends notices through the messaging gateway and
// schedules reminders on the asynq queue.
type DefaultNotificationService struct {
	gateway Gateway
	queue   *asynq.Client
}

func NewDefaultNotificationService(gateway Gateway, queue *asynq.Client) (*DefaultNotificationService, error) {
	if gateway == nil {
		return nil, fmt.Errorf("notification service initialization error: gateway is nil")
	}
	return &DefaultNotificationService{gateway: gateway, queue: queue}, nil
}

func (s *DefaultNotificationService) SendBookingConfirmation(ctx context.Context, phone, spoken string) error {
	body := fmt.Sprintf("Your appointment is confirmed for %s. Reply to this number if anything changes.", spoken)
	return s.send(ctx, phone, body, models.MessageConfirmation)
}

func (s *DefaultNotificationService) SendCancellation(ctx context.Context, phone string, start time.Time) error {
	body := fmt.Sprintf("Your appointment on %s has been cancelled.", start.Format("Monday, January 2 at 3:04 PM"))
	return s.send(ctx, phone, body, models.MessageCancellation)
}

func (s *DefaultNotificationService) SendReschedule(ctx context.Context, phone, spoken string) error {
	body := fmt.Sprintf("Your appointment has been moved to %s.", spoken)
	return s.send(ctx, phone, body, models.MessageReschedule)
}

func (s *DefaultNotificationService) send(ctx context.Context, phone, body string, kind models.MessageKind) error {
	if phone == "" {
		return fmt.Errorf("cannot send %s notice: no phone on record", kind)
	}
	if err := s.gateway.SendText(ctx, phone, body); err != nil {
		return fmt.Errorf("failed to send %s notice: %w", kind, err)
	}
	return nil
}

// ScheduleReminders enqueues one delayed task per offset that is still in the
// future. Duplicate task IDs (already scheduled by the sweep) are skipped.
func (s *DefaultNotificationService) ScheduleReminders(ctx context.Context, eventID, phone string, start time.Time, spoken string) error {
	if s.queue == nil {
		return fmt.Errorf("reminder queue not configured")
	}
	logger := utils.GetLogger()

	for _, off := range reminderOffsets {
		fireAt := start.Add(-off.d)
		if !fireAt.After(time.Now()) {
			continue
		}
		payload := models.ReminderPayload{
			EventID: eventID,
			Phone:   phone,
			Start:   start,
			Spoken:  spoken,
			Offset:  off.label,
		}
		task, opts, err := tasks.NewReminderTask(payload, fireAt)
		if err != nil {
			return fmt.Errorf("failed to build reminder task: %w", err)
		}
		if _, err := s.queue.EnqueueContext(ctx, task, opts...); err != nil {
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				continue
			}
			return fmt.Errorf("failed to enqueue %s reminder: %w", off.label, err)
		}
		logger.Debug("Scheduled reminder",
			zap.String("eventId", eventID),
			zap.String("offset", off.label),
			zap.Time("fireAt", fireAt))
	}
	return nil
}
