package vm

import (
	"math/big"

	"fortio.org/safecast"
)

// smallInt converts v to a Go int when it fits.
func smallInt(v *big.Int) (int, bool) {
	if !v.IsInt64() {
		return 0, false
	}
	n, err := safecast.Conv[int](v.Int64())
	if err != nil {
		return 0, false
	}
	return n, true
}
