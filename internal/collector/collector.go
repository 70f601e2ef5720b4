package collector

import "context"

// Result carries one collected value or the failure that replaced it.
// Failures travel the same channel as values so the consumer sees every
// skipped feed and dropped entry as data, not just as a log line.
type Result[T any] struct {
	Result T
	Err    error
}

// Collector produces a stream of results until its source is exhausted
// or the context is cancelled.
type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}
