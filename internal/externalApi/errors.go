package externalApi

import "errors"

var ErrNoPrice = errors.New("error response has no price field")
