package connector

import (
	"fmt"

	"github.com/signalsfoundry/saturn-connectors/protocol"
)

// Message is the envelope passed through a connector for one synchronous
// round trip. The receiver overwrites value slots in place to return
// results; the caller reads them after SendMessage returns.
type Message struct {
	Type        protocol.MessageType
	Destination protocol.ConnectorType

	Val1, Val2, Val3 Value

	name      string
	direction protocol.Direction
}

// NewMessage builds a message addressed to dest carrying a catalog value.
func NewMessage[T protocol.Catalog](dest protocol.ConnectorType, t T) *Message {
	return &Message{
		Type:        protocol.MessageType(t),
		Destination: dest,
		name:        t.String(),
		direction:   protocol.DirectionOf(t),
	}
}

// Name returns the catalog name when the message was built by NewMessage,
// otherwise a numeric form.
func (m *Message) Name() string {
	if m.name != "" {
		return m.name
	}
	return fmt.Sprintf("MESSAGE_%d", int32(m.Type))
}

// Direction returns the direction the catalog value was drawn from.
func (m *Message) Direction() protocol.Direction {
	return m.direction
}

func (m *Message) String() string {
	return fmt.Sprintf("%s@%s [%s, %s, %s]", m.Name(), m.Destination, m.Val1, m.Val2, m.Val3)
}
