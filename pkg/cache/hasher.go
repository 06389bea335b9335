package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// ImageHash computes a canonical key for a wrapped phase image plus the
// options that affect the unwrap result. The image is hashed as its exact
// float64 bit patterns in row-major order, so two images compare equal iff
// every pixel is bit-identical.
func ImageHash(phase [][]float64, algorithm, costModel string, maxIterations int) string {
	h := sha256.New()

	var buf [8]byte
	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
		h.Write(buf[:])
	}

	writeInt(len(phase))
	if len(phase) > 0 {
		writeInt(len(phase[0]))
	}
	for _, row := range phase {
		for _, v := range row {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}

	h.Write([]byte(algorithm))
	h.Write([]byte{0})
	h.Write([]byte(costModel))
	h.Write([]byte{0})
	writeInt(maxIterations)

	sum := h.Sum(nil)
	return "unwrap:" + hex.EncodeToString(sum[:16])
}
