// Package api implements the HTTP surface of the prediction server.
//
// New(artifacts, metrics) returns an http.Handler that serves:
//
//	POST /predict : one house record in, {"prediction": x} or {"error": "..."} out
//	GET  /healthz : liveness plus the kinds of the loaded artifacts
//	GET  /metrics : Prometheus text exposition
//
// POST /predict validates the body before the predictor sees it: all twelve
// fields are required, integer fields must hold integral numbers, unknown
// fields are ignored. Validation failures return 422, oversized bodies 413.
// A failure inside the predictor is not an HTTP error: it returns 200 with an
// error payload, so a bad record never shows up as a server fault.
//
// Every request is logged with a request ID taken from X-Request-ID or
// generated, and echoed back in the same header.
package api
