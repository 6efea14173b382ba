// internal/output/rows.go
package output

import (
	"fmt"
	"strconv"
	"strings"

	"repsim/pkg/api"
)

// IntsCSV joins ints with commas.
func IntsCSV(a []int) string {
	if len(a) == 0 {
		return ""
	}
	ss := make([]string, len(a))
	for i, v := range a {
		ss[i] = strconv.Itoa(v)
	}
	return strings.Join(ss, ",")
}

// FormatIterationTSV returns one trace row (no trailing newline) in TSVHeader order.
func FormatIterationTSV(it api.IterationV1) string {
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d",
		it.Iteration, it.Placed, it.Merges, it.Quota,
		it.Replicated, it.Unreplicated, it.Gaps, it.ActiveForks,
	)
}

// TrimTrack drops trailing empty slots; the count dropped is returned.
func TrimTrack(track []int) ([]int, int) {
	n := len(track)
	for n > 0 && track[n-1] == 0 {
		n--
	}
	return track[:n], len(track) - n
}

// FormatReplicateTSV returns one sweep row (no trailing newline).
func FormatReplicateTSV(r api.ReplicateV1) string {
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%d\t%d\t%d\t%t\t%s",
		r.Replicate, r.Seed, r.Iterations, r.WarmupDraws,
		r.OriginsFired, r.Merges, r.Draws, r.Complete, r.Error,
	)
}
