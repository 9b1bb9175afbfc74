// Package protocol holds the wire contract of the connector bus: the
// connector (channel) type tags and the closed message catalog of every
// channel.
//
// The numeric values are persisted by replay journals and scenario data.
// New message types may be appended to a catalog; existing values must
// never be renumbered or change meaning.
package protocol

import (
	"fmt"
	"strings"
)

// MessageType is the raw message-type tag carried by every message. Its
// meaning is scoped to the destination channel and to the direction of
// travel.
type MessageType int32

// Catalog is implemented by every channel catalog enumeration.
type Catalog interface {
	~int32
	String() string
}

// ConnectorType identifies a channel (and therefore the kind of endpoint a
// message is routed to).
type ConnectorType int32

const (
	NoConnector ConnectorType = iota
	MFDConnector
	CSMIUCommand
	LVIUCommand
	CSMSIVBCommand
	CSMSIVBPower
)

var connectorTypeNames = map[ConnectorType]string{
	NoConnector:    "NO_CONNECTOR",
	MFDConnector:   "MFD_CONNECTOR",
	CSMIUCommand:   "CSM_IU_COMMAND",
	LVIUCommand:    "LV_IU_COMMAND",
	CSMSIVBCommand: "CSM_SIVB_COMMAND",
	CSMSIVBPower:   "CSM_SIVB_POWER",
}

func (t ConnectorType) String() string {
	if name, ok := connectorTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CONNECTOR_%d", int32(t))
}

// ParseConnectorType maps a connector type name (case-insensitive) back to
// its tag.
func ParseConnectorType(name string) (ConnectorType, error) {
	for t, n := range connectorTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return NoConnector, fmt.Errorf("unknown connector type %q", name)
}

// Direction says which side of a channel originated a message. It selects
// the catalog a MessageType is interpreted against.
type Direction uint8

const (
	// DirectionUnknown is used when the catalog cannot be inferred.
	DirectionUnknown Direction = iota
	// DirectionIUToLV covers the IULV catalog.
	DirectionIUToLV
	// DirectionIUToCSM covers the IUCSM catalog.
	DirectionIUToCSM
	// DirectionCSMToIU covers the CSMIU catalog.
	DirectionCSMToIU
	// DirectionCSMToSIVB covers the CSMSIVB catalog.
	DirectionCSMToSIVB
)

func (d Direction) String() string {
	switch d {
	case DirectionIUToLV:
		return "iu->lv"
	case DirectionIUToCSM:
		return "iu->csm"
	case DirectionCSMToIU:
		return "csm->iu"
	case DirectionCSMToSIVB:
		return "csm->sivb"
	default:
		return "unknown"
	}
}

// MessageName resolves a raw tag to its catalog name for the given
// direction, falling back to a numeric form.
func MessageName(d Direction, t MessageType) string {
	code := int32(t)
	switch d {
	case DirectionIUToLV:
		return IULVMessage(code).String()
	case DirectionIUToCSM:
		return IUCSMMessage(code).String()
	case DirectionCSMToIU:
		return CSMIUMessage(code).String()
	case DirectionCSMToSIVB:
		return CSMSIVBMessage(code).String()
	default:
		return fmt.Sprintf("MESSAGE_%d", code)
	}
}

func catalogName(names []string, prefix string, code int32) string {
	if code >= 0 && int(code) < len(names) {
		return names[code]
	}
	return fmt.Sprintf("%s_%d", prefix, code)
}

func parseCatalog(names []string, prefix, name string) (int32, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return int32(i), nil
		}
	}
	return 0, fmt.Errorf("unknown %s message %q", prefix, name)
}

// DirectionOf infers the direction of travel from a catalog value's type.
func DirectionOf[T Catalog](t T) Direction {
	switch any(t).(type) {
	case IULVMessage:
		return DirectionIUToLV
	case IUCSMMessage:
		return DirectionIUToCSM
	case CSMIUMessage:
		return DirectionCSMToIU
	case CSMSIVBMessage:
		return DirectionCSMToSIVB
	default:
		return DirectionUnknown
	}
}
