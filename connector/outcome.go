package connector

// Outcome is the diagnostic result of one round trip. The bus contract is
// the boolean OK(); the other values only feed observers.
type Outcome uint8

const (
	// OutcomeDelivered means the receiver recognised and handled the message.
	OutcomeDelivered Outcome = iota
	// OutcomeNoPeer means no connector is paired with the sender.
	OutcomeNoPeer
	// OutcomeDestinationMismatch means the message was routed to an
	// endpoint of another type.
	OutcomeDestinationMismatch
	// OutcomeUnsupported means the receiver has no handler for the type.
	OutcomeUnsupported
	// OutcomeNoOwner means the receiver's owning vehicle (or computer) is
	// not attached.
	OutcomeNoOwner
	// OutcomeBadPayload means a slot did not hold what the type requires.
	OutcomeBadPayload
	// OutcomeRejected is reported for receivers that only expose the
	// boolean contract.
	OutcomeRejected
)

// OK reports whether the outcome maps to a successful round trip.
func (o Outcome) OK() bool {
	return o == OutcomeDelivered
}

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeNoPeer:
		return "no_peer"
	case OutcomeDestinationMismatch:
		return "destination_mismatch"
	case OutcomeUnsupported:
		return "unsupported"
	case OutcomeNoOwner:
		return "no_owner"
	case OutcomeBadPayload:
		return "bad_payload"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
