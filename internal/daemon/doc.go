// Package daemon runs the long-lived studypulse process.
//
// It owns the single-instance flock, the session store, the Assistant that
// performs analyses, the HTTP API the browser talks to and the websocket feed
// that pushes newly recorded sessions. Analysis logic lives in internal/api and
// below; handlers here only decode requests and encode responses.
package daemon
