package services

import (
	"bytes"
	"math"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

func floatClose(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}
