//go:build !linux

package fastflow

import (
	"errors"
)

var errPinUnsupported = errors.New("fastflow: CPU pinning is only supported on linux")

func PinToCPU(cpu int) error {
	return errPinUnsupported
}
