package sizing

import "errors"

var (
	ErrNoConvergence = errors.New("sizing did not converge")
	ErrProblem       = errors.New("invalid sizing problem")
)
