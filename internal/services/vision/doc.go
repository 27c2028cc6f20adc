// Package vision classifies facial emotion by sending snapshots to an
// OpenAI-compatible vision chat model and parsing the per-category
// percentages it returns.
package vision
