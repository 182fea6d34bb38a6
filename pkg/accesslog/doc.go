// Package accesslog persists one record per proxied request to a local
// SQLite database.
//
// Recording is strictly off the hot path: the handler hands a finished
// Record to the recorder after the response is fully relayed, and a failed
// insert is logged but never fails the request. Retention is enforced by a
// cron-scheduled pruner.
package accesslog
