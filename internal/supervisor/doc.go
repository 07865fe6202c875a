// Package supervisor runs one pacing session per configured stream for the
// life of the process: it restarts the session when the source ends
// cleanly, swaps in a new session when a reload arrives, and shuts down
// when its context is cancelled.
package supervisor
