// Package emotion models facial-emotion readings: the fixed label set,
// per-category score maps, dominant-label selection, multi-frame aggregation
// and the Classifier boundary that external classifiers implement.
//
// Image payloads arrive as base64 or data URLs; DecodeImage validates them
// before any classifier sees the bytes.
package emotion
