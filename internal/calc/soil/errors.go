package soil

import "errors"

var ErrProfile = errors.New("soil profile error")
