package scene

import "errors"

var (
	ErrInvalidPath             = errors.New("invalid path")
	ErrEngineInit              = errors.New("engine initialization failed")
	ErrMalformedTree           = errors.New("malformed tree")
	ErrMalformedTopology       = errors.New("malformed topology")
	ErrAttributeLengthMismatch = errors.New("attribute length mismatch")
	ErrMaterialSlot            = errors.New("material slot out of range")
)
