package cache

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by New and Config.Validate when a
// configuration constraint is violated. The wrapped message names the
// constraint that failed.
var ErrInvalidConfig = errors.New("invalid cache configuration")

// ErrOutOfRange is returned by Request and Decode when an address does
// not fit in the configured address width. The engine state is not
// modified on this failure.
var ErrOutOfRange = errors.New("address out of range")

func outOfRangeError(address uint64, addressBits int) error {
	return fmt.Errorf("%w: address %d does not fit in %d bits",
		ErrOutOfRange, address, addressBits)
}
