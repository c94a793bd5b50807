package pkg

import (
	"fmt"
	"math"
	"os"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !stat.IsDir() {
		return false, fmt.Errorf("%s is not a directory", path)
	}
	return true, nil
}

// RoundHalfUp rounds to the nearest integer, halves going towards +Inf.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Round2 rounds to two decimal places.
func Round2(x float64) float64 {
	return RoundHalfUp(x*100) / 100
}
