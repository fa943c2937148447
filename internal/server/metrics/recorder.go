// Package metrics provides observability hooks for the HTTP API. Components
// receive a Recorder through dependency injection; NoopRecorder is the
// default so metrics stay optional.
package metrics

import "time"

// Recorder defines the metrics the server reports. Implementations may
// forward to Prometheus or stay silent; all methods must be cheap enough to
// sit on the request path.
type Recorder interface {
	ObserveRequestDuration(route string, status int, d time.Duration)
	IncCatalogReplace(success bool)
	SetCatalogSize(n int)
	IncFlagUpload(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequestDuration(string, int, time.Duration) {}
func (NoopRecorder) IncCatalogReplace(bool)                           {}
func (NoopRecorder) SetCatalogSize(int)                               {}
func (NoopRecorder) IncFlagUpload(bool)                               {}
