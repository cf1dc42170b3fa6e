package sharecard

import "errors"

// ErrFont is returned when a font cannot be loaded.
var ErrFont = errors.New("sharecard font")
