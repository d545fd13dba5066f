//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package system

import "time"

// monoEpoch anchors the runtime monotonic reading
var monoEpoch = time.Now()

// Now returns the current reading of the runtime monotonic clock.
// The reading only has a meaning relative to other readings.
func Now() Time {
	return FromDuration(time.Since(monoEpoch))
}
