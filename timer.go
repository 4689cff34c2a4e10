package refetch

import "time"

// stopAndDrainTimer stops t and discards a tick that fired concurrently,
// so a following Reset starts a clean period.
func stopAndDrainTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}
