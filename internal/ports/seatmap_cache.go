package ports

import "context"

// Port: a read cache for rendered seat maps, invalidated whenever a seat
// on the trip changes state. A miss is (nil, false, nil); cache failures
// are returned so callers can degrade to the repository.
type SeatMapCache interface {
	Get(ctx context.Context, tripID int) ([]byte, bool, error)
	Put(ctx context.Context, tripID int, payload []byte) error
	Invalidate(ctx context.Context, tripID int) error
}
