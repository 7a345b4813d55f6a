// Package health serves liveness and readiness probes.
//
// Readiness runs the registered checks in parallel under a shared timeout.
// Clients asking for JSON (Accept header or ?format=json) get a Response
// with the result of every check; others get a plain text status.
package health
