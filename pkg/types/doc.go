// Package types defines the JSON wire types shared by the prediction server
// and its clients: the house record accepted by POST /predict and the
// single-key payloads it returns.
package types
