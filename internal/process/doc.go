// Package process terminates browser process trees left behind by the
// chrome rendering engine.
package process
