// Package scheduler implements the spaced-repetition engine: a validated
// scheduling policy, the per-card state machine and interval arithmetic, and
// the session shuffle. Everything here is pure computation; persistence and
// transport live in the surrounding packages.
package scheduler
