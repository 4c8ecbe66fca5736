package databuf

import "errors"

// ErrInvalidLength is returned by Resize for a negative length.
var ErrInvalidLength = errors.New("databuf: invalid length")
