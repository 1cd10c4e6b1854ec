package discard

import "time"

// Metrics receives observations about completed discard requests.
//
// The interface lives here so the Prometheus implementation in pkg/metrics
// can depend on this package without a cycle. A nil Metrics disables
// collection with zero overhead.
//
// Implementations must be safe for concurrent use; observations arrive from
// many worker goroutines.
type Metrics interface {
	// ObserveRequest records one completed request with its duration and
	// outcome. err is nil on success, otherwise an *OpError.
	ObserveRequest(duration time.Duration, err error)

	// AddReclaimedBytes counts bytes whose backing storage was released or
	// zeroed by a successful request.
	AddReclaimedBytes(n uint64)
}
