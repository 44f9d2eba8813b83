package model

import (
	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-gol3d/rules"
)

var (
	// ErrConfiguration marks invalid dimensions, rules, neighborhoods or strategies.
	ErrConfiguration = rules.ErrConfiguration
	// ErrResource marks a grid that cannot be allocated.
	ErrResource = errors.New("resource error")
	// ErrInternal marks a broken engine invariant. It is never recoverable.
	ErrInternal = errors.New("internal invariant violation")
	// ErrAborted is returned by a controller whose run was torn down by ErrInternal.
	ErrAborted = errors.New("simulation aborted")
)
