package model

import (
	"github.com/pkg/errors"
)

var (
	ErrConfig = errors.New("configuration error")

	// ErrNoPartitions is returned when a full discovery pass finds zero
	// LPARs, which usually means bad HMC credentials or an exclusion
	// filter that swallowed everything. Mapped to a distinct exit code.
	ErrNoPartitions = errors.New("no logical partitions discovered")

	// ErrHostNotFound is returned by a registry when the named host does
	// not exist yet.
	ErrHostNotFound = errors.New("host not found")
)
