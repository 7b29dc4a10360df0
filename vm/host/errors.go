package host

import "errors"

// errUnsupported is returned by Null's capabilities that model a failable
// host operation (a missing file, an unreachable network), since Null has
// no real backing device to consult.
var errUnsupported = errors.New("host: unsupported on a Null host")
