package capacity

import "errors"

var (
	ErrGeometry    = errors.New("invalid anchor geometry")
	ErrUnsupported = errors.New("unsupported anchor and soil combination")
)
