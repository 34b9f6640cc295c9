// File: utils/constants.go
package utils

// BookingTag marks calendar events created by this system. The locator and
// the reminder sweep recognize our bookings by this marker in the event
// description; there is no separate datastore for identity.
const BookingTag = "[bookline]"

// SessionKeyPrefix namespaces booking session snapshots in Redis.
const SessionKeyPrefix = "session:"
