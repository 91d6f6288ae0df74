package core

import (
	"errors"
)

var (
	ErrNotInitialized  = errors.New("system not initialized")
	ErrAlreadyShutdown = errors.New("system already shut down")
)
