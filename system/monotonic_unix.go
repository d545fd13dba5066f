//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package system

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// Now returns the current reading of the OS monotonic clock.
// The reading only has a meaning relative to other readings.
// The process exits if the clock can not be sampled.
func Now() Time {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		log.Fatal().Err(err).Msg("could not sample monotonic clock")
	}
	sec, nsec := ts.Unix()
	return Microseconds(sec*1e6 + nsec/1e3)
}
