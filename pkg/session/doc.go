// Package session defines the server side session model and its stores.
//
// A Session carries the signed in user, arbitrary values and a cookie token
// that is rotated on sign in. Stores persist sessions:
//
//   - MemoryStore for development and tests,
//   - RedisStore, JSON documents expiring with the session,
//   - PostgresStore, rows in duende_sessions created by MigrationsFS.
//
// Stores without native expiry implement Cleaner; the job package runs
// DeleteExpired on a cron schedule.
//
// Values read back from Redis or Postgres have JSON types: numbers are
// float64, lists are []any and objects are map[string]any.
package session
