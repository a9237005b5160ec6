// Package schedule implements the appointment collaborator. Booking enforces
// the availability rule (weekdays only, business hours 9-17, no exact slot
// collision for the same caller's day) and proposes up to five alternative
// weekday slots from a fixed candidate list when a request cannot be
// honored. An in-memory store serves tests; a pgx-backed store persists to
// Postgres.
package schedule
