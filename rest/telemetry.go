package rest

import "time"

// Telemetry receives one record per logical call. Implementations must be
// safe for concurrent use; the pipeline invokes them on a detached
// goroutine with no ordering guarantee relative to the call's result.
type Telemetry interface {
	RecordCall(method, path string, statusCode, attempts int, elapsed time.Duration)
}

func (c *Client) record(method, path string, statusCode, attempts int, elapsed time.Duration) {
	if c.telemetry == nil {
		return
	}
	go c.telemetry.RecordCall(method, path, statusCode, attempts, elapsed)
}
