// Package history implements the caller history collaborator: per-caller
// call counts, VIP flags and a rolling satisfaction average, available as a
// volatile in-memory store for tests and a Redis-backed store for
// deployments. Both apply the same moving-average update:
// new_avg = (old_avg*old_count + score) / (old_count + 1).
package history
