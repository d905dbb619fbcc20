// Package artifact loads the fitted scaler and regression model exported by
// the model-build pipeline.
//
// Both artifacts are JSON documents with a "kind" discriminator:
//
//	scaler: standard | minmax | identity   (one column, fit on area)
//	model:  linear                          (coefficients in feature order)
//
// Load(modelPath, scalerPath, features) is a one-shot, fail-fast gate: any
// missing, malformed or incompatible file yields a *StartupError and the
// caller must not start serving. Loaded artifacts are immutable and safe for
// concurrent use.
//
// Watcher logs when an artifact file changes on disk. It never swaps the
// loaded artifacts; picking up a new model requires a restart.
package artifact
