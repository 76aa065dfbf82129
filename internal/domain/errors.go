package domain

import "errors"

// ErrMissingData means a command ran before the files it reads exist, such
// as matching before any discovery run.
var ErrMissingData = errors.New("missing prerequisite data")
