package cache

import (
	"errors"
	"time"
)

// ErrUnavailable is returned when a remote backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// Connection attempts made by [NewRedisCache]; tests shorten the delay.
var (
	connectAttempts = 3
	connectDelay    = time.Second
)
