package bridge

import (
	"github.com/mirrorlink/bridge/errors"
)

// Origin identifies which runtime created an instance.
type Origin uint8

const (
	// OriginGuest marks instances created by the guest runtime.
	OriginGuest Origin = iota
	// OriginHost marks instances created by the host runtime.
	OriginHost
)

func (o Origin) String() string {
	switch o {
	case OriginGuest:
		return "guest"
	case OriginHost:
		return "host"
	default:
		return "unknown"
	}
}

// MinHostIdentifier is the first identifier in the host-created range.
// Identifiers are locked to disjoint ranges to avoid collisions between
// objects created simultaneously on each side of the bridge: the guest
// uses values n where 0 <= n < MinHostIdentifier, the host uses values
// >= MinHostIdentifier.
const MinHostIdentifier int64 = 1 << 16

// OriginOf returns the origin implied by an identifier's range.
// Negative identifiers carry no valid origin and are a protocol violation.
func OriginOf(id int64) (Origin, error) {
	if id < 0 {
		return 0, errors.NegativeIdentifier(errors.PhaseProtocol, id)
	}
	if id < MinHostIdentifier {
		return OriginGuest, nil
	}
	return OriginHost, nil
}

// Validate checks that id lies in the range reserved for origin.
// A cross-boundary message carrying an identifier outside its expected
// range is a protocol violation.
func Validate(id int64, origin Origin) error {
	actual, err := OriginOf(id)
	if err != nil {
		return err
	}
	if actual != origin {
		return errors.OutOfRange(id, origin.String())
	}
	return nil
}
