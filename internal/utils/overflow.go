package utils

import (
	"fmt"
	"math"
)

// CheckMultiplyOverflow checks if multiplying two uint64 values would overflow.
func CheckMultiplyOverflow(a, b uint64) error {
	if a == 0 || b == 0 {
		return nil
	}
	if a > math.MaxUint64/b {
		return fmt.Errorf("multiplication overflow: %d * %d exceeds uint64 max", a, b)
	}
	return nil
}

// SafeMultiply multiplies two uint64 values and returns the result if no overflow occurs.
func SafeMultiply(a, b uint64) (uint64, error) {
	if err := CheckMultiplyOverflow(a, b); err != nil {
		return 0, err
	}
	return a * b, nil
}

// Common size limits used while validating a dataset read from disk.
const (
	// MaxStorageWords is an upper bound, in u64 words, for a single
	// dataset's storage blob. No dataset reader in this module checks
	// against it.
	MaxStorageWords = 1 << 34 // 128GiB of u64 words

	// MaxShapeElements bounds the element count derived from a packed
	// Shape before a read is rejected.
	MaxShapeElements = 1 << 40
)

// ValidateBufferSize validates that a buffer size is within reasonable limits.
func ValidateBufferSize(size, maxSize uint64, description string) error {
	if size > maxSize {
		return fmt.Errorf("%s: size %d exceeds maximum %d", description, size, maxSize)
	}
	return nil
}

// CalculateShapeElements safely computes the product x*y*z of a Shape's
// three axes, rejecting overflow or implausibly large element counts.
func CalculateShapeElements(x, y, z uint64) (uint64, error) {
	xy, err := SafeMultiply(x, y)
	if err != nil {
		return 0, fmt.Errorf("shape element overflow: %w", err)
	}
	total, err := SafeMultiply(xy, z)
	if err != nil {
		return 0, fmt.Errorf("shape element overflow: %w", err)
	}
	if err := ValidateBufferSize(total, MaxShapeElements, "shape element count"); err != nil {
		return 0, err
	}
	return total, nil
}
