package flasharray

import "github.com/pkg/errors"

var (
	ErrSession        = errors.New("error establishing array session")
	ErrRequest        = errors.New("array request error")
	ErrResponseDecode = errors.New("error decoding array response")
	ErrResponseStatus = errors.New("array returned an error status")
)
