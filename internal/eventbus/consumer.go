package eventbus

import "context"

// Consumer handles events of one type. A returned error makes the bus retry
// the event with backoff.
type Consumer interface {
	Consume(ctx context.Context, event Event) error
	GetWorkerCount() int
}
