package core

//go:generate mockgen -destination=mocks/signal_mock.go -package=mocks . SignalConnection

// Frame is an encoded outbound payload, ready for the transport.
type Frame []byte

// ConnID is a process-unique handle assigned to a connection at accept time.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// TrySend must never block: a full or closed connection reports an error.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
