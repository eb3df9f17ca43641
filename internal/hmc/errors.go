package hmc

import (
	"github.com/pkg/errors"
)

var (
	ErrCommandChannel = errors.New("command channel error")
	ErrCommandFailed  = errors.New("remote command returned non-zero status")
	ErrCommandTimeout = errors.New("remote command timed out")
)
