package api

// HealthResponse is the payload for GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Features int    `json:"features"`
	Model    string `json:"model"`
	Scaler   string `json:"scaler"`
	LoadedAt string `json:"loaded_at"` // RFC3339
}

// errorResponse is a generic JSON error body. It has the same shape as a
// failed prediction so clients only handle one error form.
type errorResponse struct {
	Error string `json:"error"`
}
