// Package metrics keeps the prediction server's counters and renders them in
// the Prometheus text exposition format for GET /metrics.
//
// Exposed families:
//
//	housepredict_http_requests_total{route,code}             counter
//	housepredict_predictions_total{outcome}                   counter
//	housepredict_prediction_errors_total{stage}               counter
//	housepredict_prediction_duration_seconds                  summary (count, sum)
//	housepredict_artifact_changes_total{artifact,valid}       counter
//	housepredict_artifacts_loaded_timestamp_seconds           gauge
//
// Metrics is safe for concurrent use. It never touches the artifacts.
package metrics
