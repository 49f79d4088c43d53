package bytes

import "fmt"

// FmtMem renders a byte count with the two largest binary units, e.g.
// "1GB 512MB". Used for occupancy log lines only.
func FmtMem(n uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case n >= TB:
		return fmt.Sprintf("%dTB %dGB", n/TB, (n%TB)/GB)
	case n >= GB:
		return fmt.Sprintf("%dGB %dMB", n/GB, (n%GB)/MB)
	case n >= MB:
		return fmt.Sprintf("%dMB %dKB", n/MB, (n%MB)/KB)
	case n >= KB:
		return fmt.Sprintf("%dKB %dB", n/KB, n%KB)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
