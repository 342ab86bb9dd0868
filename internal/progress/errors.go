package progress

import "errors"

// ErrInvalidArgument is returned for malformed dates and out-of-range windows.
var ErrInvalidArgument = errors.New("invalid argument")
