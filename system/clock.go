package system

// Clock measures the elapsed time.
//
// It reads the most precise monotonic source the OS provides,
// so the measured time never goes backward, even if the wall clock is changed.
// A Clock is a single-owner value: concurrent Restart calls must be
// synchronized by the caller.
//
//	clock := system.StartClock()
//	// ...
//	time1 := clock.ElapsedTime()
//	// ...
//	time2 := clock.Restart()
type Clock struct {
	startTime Time
}

// StartClock creates a new Clock and starts it automatically.
func StartClock() Clock {
	return Clock{startTime: Now()}
}

// ElapsedTime returns the time elapsed since the last call to Restart
// (or the construction of the instance if Restart has not been called).
func (c *Clock) ElapsedTime() Time {
	return Now().Sub(c.startTime)
}

// Restart puts the time counter back to zero.
// It returns the time elapsed since the clock was started.
func (c *Clock) Restart() Time {
	now := Now()
	elapsed := now.Sub(c.startTime)
	c.startTime = now
	return elapsed
}

// StartTime returns the monotonic reading taken on start or the last Restart.
func (c Clock) StartTime() Time {
	return c.startTime
}

// ClockAt creates a Clock started at the monotonic reading start,
// the reading should be obtained from Now.
func ClockAt(start Time) Clock {
	return Clock{startTime: start}
}
