package qnet

import "github.com/quantflow/spapq/spapqerr"

var errInvalid = spapqerr.ErrInvalidNetwork
