package lateral

import "errors"

var (
	ErrGeometry      = errors.New("invalid pile geometry")
	ErrSingular      = errors.New("singular pile system")
	ErrNoConvergence = errors.New("lateral solve did not converge")
)
