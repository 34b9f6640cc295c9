package records

import (
	"context"

	"bookline/models"
)

// Repository is the booking archive: an audit trail of created and cancelled
// bookings. The calendar stays the source of truth; the archive exists so a
// real datastore can eventually replace the description-as-database contract.
type Repository interface {
	Insert(ctx context.Context, entry models.BookingRecordEntry) error
	FindByPhone(ctx context.Context, phone string, limit int64) ([]models.BookingRecordEntry, error)
}
