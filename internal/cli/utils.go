package cli

import "fmt"

const (
	minPlatforms = 2
	maxPlatforms = 20
)

// clampPlatforms forces the platform count into the supported range before
// it reaches the engine, which does not validate it.
func clampPlatforms(n int) int {
	if n < minPlatforms {
		fmt.Printf("⚠️  platform count %d below minimum, using %d\n", n, minPlatforms)
		return minPlatforms
	}
	if n > maxPlatforms {
		fmt.Printf("⚠️  platform count %d above maximum, using %d\n", n, maxPlatforms)
		return maxPlatforms
	}
	return n
}

func validSpeed(speed int) bool {
	switch speed {
	case 30, 60, 180:
		return true
	}
	return false
}
