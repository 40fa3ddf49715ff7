package flagging

import "errors"

var (
	// ErrSlotRange indicates a slot index outside [0, Len()).
	ErrSlotRange = errors.New("flagging: slot index out of range")

	// ErrBadSize indicates a negative or inconsistent size request, the
	// checkable analog of an allocation failure.
	ErrBadSize = errors.New("flagging: invalid size")

	// ErrNilMatrix indicates a nil matrix reference where one is required.
	ErrNilMatrix = errors.New("flagging: nil matrix")

	// ErrInvalidArgument indicates an out-of-domain parameter value.
	ErrInvalidArgument = errors.New("flagging: invalid argument")
)
