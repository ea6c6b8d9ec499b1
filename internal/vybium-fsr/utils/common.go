package utils

import "math/bits"

// IsPowerOfTwo checks if a number is a power of 2
func IsPowerOfTwo(n uint64) bool {
	return n > 0 && (n&(n-1)) == 0
}

// CeilLog2 returns ceil(log2(n)), with CeilLog2(0) = CeilLog2(1) = 0
func CeilLog2(n uint64) uint32 {
	if n <= 1 {
		return 0
	}
	if IsPowerOfTwo(n) {
		return uint32(bits.TrailingZeros64(n))
	}
	return uint32(bits.Len64(n))
}

// ByteLen returns the number of bytes needed for a width of nbits, at least 1
func ByteLen(nbits uint8) int {
	n := (int(nbits) + 7) / 8
	if n == 0 {
		return 1
	}
	return n
}
