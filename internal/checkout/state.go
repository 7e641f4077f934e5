package checkout

// State is the position of one checkout session in its lifecycle. A session
// only ever moves forward; once terminal it never changes again.
type State string

const (
	// StateIdle is the zero state before a payment link exists.
	StateIdle State = "idle"
	// StateLinkCreated means the provider issued a hosted payment link.
	StateLinkCreated State = "link_created"
	// StateObserving means the link was handed to the buyer and navigation
	// events are being classified.
	StateObserving State = "observing"
	// StateSucceeding means payment completed and fulfillment is running.
	StateSucceeding State = "succeeding"
	// StateCancelled means the buyer backed out before paying.
	StateCancelled State = "cancelled"
	// StateArchiving means the unused link is being retired.
	StateArchiving State = "archiving"

	// StateSucceeded is terminal: payment received and the order recorded.
	StateSucceeded State = "succeeded"
	// StateSucceededOrderFailed is terminal: payment received but the order
	// could not be recorded. It must surface to support, never be swallowed.
	StateSucceededOrderFailed State = "succeeded_order_failed"
	// StateArchived is terminal: the session ended without a payment.
	StateArchived State = "archived"
)

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}

// Terminal reports whether the session can still change state.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateSucceededOrderFailed, StateArchived:
		return true
	}
	return false
}
