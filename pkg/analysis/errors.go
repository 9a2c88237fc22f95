package analysis

import "github.com/dbehnke/linecode/pkg/linecode"

// CountErrors returns the number of positions where received differs from
// original, compared up to the shorter of the two lengths. Both arguments
// must be logical bitstreams, never raw encoded signals.
func CountErrors(original, received linecode.Bitstream) int {
	n := min(len(original), len(received))
	errs := 0
	for i := 0; i < n; i++ {
		if original[i] != received[i] {
			errs++
		}
	}
	return errs
}
