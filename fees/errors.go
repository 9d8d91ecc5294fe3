package fees

import "errors"

// ErrInvalidArgument is returned when fee inputs are negative, out of the
// 256-bit range, or mutually inconsistent.
var ErrInvalidArgument = errors.New("invalid argument")
