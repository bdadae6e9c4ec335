// Package gdb hosts a GDB subprocess speaking the MI interpreter and wires
// its streams to a session.Session.
package gdb

// State represents the lifecycle state of the debugger process.
type State string

const (
	StateStopped  State = "stopped"
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)
