// Package config loads the prediction server configuration from config.yaml.
//
// Config fields:
//   - Server.HTTPPort       : port for /predict, /healthz, /metrics (default 8080)
//   - Server.ReadTimeout    : per-request read bound (default 10s)
//   - Server.WriteTimeout   : per-request write bound (default 10s)
//   - Server.ShutdownTimeout: grace period for in-flight requests (default 5s)
//   - Server.LogLevel       : debug | info | warn | error (default info)
//   - Artifacts.ModelPath   : fitted model JSON (default model.json)
//   - Artifacts.ScalerPath  : fitted scaler JSON (default scaler.json)
//   - Artifacts.Watch       : log when an artifact changes on disk (default true)
//
// Load(path) applies defaults before unmarshalling, then validates.
package config
