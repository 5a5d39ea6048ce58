package dialog

import "errors"

var (
	// ErrActionNotFound is returned by the action registry for an
	// unregistered action name. The engine catches it at the execution
	// boundary and converts it to the "error" result code.
	ErrActionNotFound = errors.New("action not found")

	// ErrUnknownState indicates the context points at a state id missing
	// from the state table. This is a configuration error.
	ErrUnknownState = errors.New("unknown state")

	// ErrActionChainTooLong indicates chained action states exceeded the
	// configured hop limit, almost certainly a cycle in the flow graph.
	ErrActionChainTooLong = errors.New("action chain exceeded hop limit")
)
