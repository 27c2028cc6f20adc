// Package preflight provides readiness checks for the filesystem paths and
// remote classifier endpoints studypulse depends on.
//
// These checks run in two contexts:
//   - The daemon reports RunAll results from GET /api/status.
//   - The CLI "studypulse status" command runs the same checks locally and,
//     with --probe, the remote endpoint checks from RunRemote.
//
// Each remote check is gated by its config toggle; disabled features pass with
// a "Disabled" detail.
package preflight
