package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"bookline/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendReminder  = "reminder:send"
	TypeReminderSweep = "reminder:sweep"
)

// NewReminderTask builds a delayed reminder send. The task ID is derived from
// the event and offset so the direct schedule and the periodic sweep dedupe
// against each other.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(payload.EventID, payload.Offset)),
	}

	return task, opts, nil
}

// NewReminderSweepTask builds the periodic sweep trigger.
func NewReminderSweepTask() *asynq.Task {
	return asynq.NewTask(TypeReminderSweep, nil)
}

// ReminderTaskID is the stable identity of one reminder for one event.
func ReminderTaskID(eventID, offset string) string {
	return fmt.Sprintf("reminder:%s:%s", eventID, offset)
}
