//go:build !linux || tinygo

// setaffinity_stub.go
//
// Non-Linux (or TinyGo) fallback: pinning is not attempted, workers simply
// run wherever the Go scheduler puts them.

package ringbuf

func setAffinity(cpu int) {}
