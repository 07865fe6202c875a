// Package app is the composition root: it loads the stream configuration,
// runs one supervisor per configured stream, and fans SIGHUP-triggered
// reloads out to each by name.
package app
