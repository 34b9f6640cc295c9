package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"bookline/config"
	"bookline/models"
	"bookline/services/booking"
	"bookline/services/calendar"
	"bookline/services/extraction"
	"bookline/services/notification"
	"bookline/services/tasks"
	"bookline/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitReminderWorker runs the async worker and the periodic sweep in the
// background. The worker delivers scheduled reminder sends; the sweep
// re-derives due reminders from tagged calendar events so process restarts
// don't lose them.
func InitReminderWorker(gateway notification.Gateway, cal calendar.Service) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(gateway))
	mux.HandleFunc(tasks.TypeReminderSweep, handleSweepTask(cal))

	go startSweepScheduler()

	// Start async worker with retry logic.
	go func() {
		log.Println("[ReminderWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// startSweepScheduler registers the periodic sweep trigger.
func startSweepScheduler() {
	scheduler := asynq.NewScheduler(redisOpts(), nil)
	if _, err := scheduler.Register("@every 15m", tasks.NewReminderSweepTask()); err != nil {
		log.Printf("[ReminderWorker] Failed to register sweep: %v", err)
		return
	}
	if err := scheduler.Run(); err != nil {
		log.Printf("[ReminderWorker] Sweep scheduler stopped: %v", err)
	}
}

func handleReminderTask(gateway notification.Gateway) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("Invalid reminder payload", zap.Error(err))
			return err
		}
		if p.Phone == "" {
			logger.Warn("Reminder without phone, skipping", zap.String("eventId", p.EventID))
			return nil
		}

		body := fmt.Sprintf("Reminder: your appointment is coming up on %s.", p.Spoken)
		if err := gateway.SendText(ctx, p.Phone, body); err != nil {
			logger.Error("Reminder send failed",
				zap.String("eventId", p.EventID),
				zap.String("offset", p.Offset),
				zap.Error(err))
			return err
		}

		logger.Info("Reminder delivered",
			zap.String("eventId", p.EventID),
			zap.String("offset", p.Offset))
		return nil
	}
}

// handleSweepTask scans upcoming tagged events and enqueues any reminder that
// should fire within the next sweep horizon. Task IDs dedupe against sends
// already scheduled at booking time.
func handleSweepTask(cal calendar.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()
		queue := asynq.NewClient(redisOpts())
		defer queue.Close()

		now := time.Now()
		events, err := cal.ListEvents(ctx, now, now.Add(25*time.Hour))
		if err != nil {
			logger.Error("Reminder sweep calendar fetch failed", zap.Error(err))
			return err
		}

		for _, ev := range events {
			if !strings.Contains(ev.Description, utils.BookingTag) {
				continue
			}
			contact := booking.ContactFromDescription(ev.Description)
			if contact.Phone == "" {
				continue
			}
			for _, off := range []struct {
				d     time.Duration
				label string
			}{{24 * time.Hour, "24h"}, {60 * time.Minute, "60m"}} {
				fireAt := ev.Start.Add(-off.d)
				if !fireAt.After(now) {
					continue
				}
				payload := models.ReminderPayload{
					EventID: ev.ID,
					Phone:   contact.Phone,
					Start:   ev.Start,
					Spoken:  extraction.SpokenTime(ev.Start),
					Offset:  off.label,
				}
				t, opts, err := tasks.NewReminderTask(payload, fireAt)
				if err != nil {
					continue
				}
				if _, err := queue.EnqueueContext(ctx, t, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
					logger.Warn("Sweep enqueue failed",
						zap.String("eventId", ev.ID),
						zap.Error(err))
				}
			}
		}
		return nil
	}
}

// NewQueueClient builds the shared asynq client for reminder scheduling.
func NewQueueClient() *asynq.Client {
	return asynq.NewClient(redisOpts())
}
