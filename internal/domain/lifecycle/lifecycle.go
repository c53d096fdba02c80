// Package lifecycle holds shared constants for service start/stop behavior.
package lifecycle

import "time"

// DefaultTimeout bounds graceful shutdown and startup checks.
const DefaultTimeout = 10 * time.Second
