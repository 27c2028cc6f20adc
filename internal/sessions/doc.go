// Package sessions persists analysis sessions and reads them back as history.
//
// Every analysis produces one Record keyed by a second-granularity timestamp
// id (YYYYMMDD_HHMMSS). Records are append-only: the package never updates or
// deletes them. Two backends implement Store:
//   - FileStore writes one indented JSON file per record, session_<id>.json.
//   - SQLiteStore keeps the same JSON payload in a single database table.
//
// Both backends resolve same-second collisions by appending a two-digit
// suffix, so ids stay unique and sort lexically in recording order. History
// returns at most MaxHistory records, newest first.
package sessions
