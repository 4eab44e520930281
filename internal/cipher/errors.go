package cipher

import "errors"

var (
	ErrUnknownTransform      = errors.New("unknown transform")
	ErrInvalidOrdering       = errors.New("invalid transform ordering")
	ErrInvalidStepCount      = errors.New("invalid step count")
	ErrInvalidKey            = errors.New("key must contain at least one alphabetic character")
	ErrInvalidGridDimensions = errors.New("invalid grid dimensions")
	ErrMissingReplacementMap = errors.New("no replacement map provided for decoding")
	ErrOddLengthInput        = errors.New("hex encoded string must have an even number of characters")
	ErrInvalidHexSequence    = errors.New("invalid hexadecimal sequence")
	ErrInvalidParameterValue = errors.New("invalid parameter value")
	ErrInvalidCode           = errors.New("invalid character code")
)
