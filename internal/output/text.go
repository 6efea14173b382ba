// internal/output/text.go
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"repsim/pkg/api"
)

// maxTextSegments caps the segment listing in text reports.
const maxTextSegments = 20

// WriteText prints a human-readable run summary.
func WriteText(w io.Writer, r api.ResultV1) error {
	var b strings.Builder
	row := func(k, format string, a ...any) {
		fmt.Fprintf(&b, "%-12s "+format+"\n", append([]any{k}, a...)...)
	}

	row("run", "%s", r.RunID)
	row("seed", "%d", r.Seed)
	row("genome", "%s bp (%s)", humanize.Comma(int64(r.Config.GenomeLength)), humanize.SI(float64(r.Config.GenomeLength), "b"))
	row("forks", "%d max, %s bp/iteration, layout %s", r.Config.MaxForks, humanize.Comma(int64(r.Config.ReplicationRate)), r.Config.Layout)
	row("gate", "threshold %g, %d warm-up draws", r.Config.Threshold, r.WarmupDraws)
	row("iterations", "%s", humanize.Comma(int64(r.Iterations)))
	row("origins", "%s fired (p=%g), %s merges", humanize.Comma(int64(r.OriginsFired)), r.Config.FireProbability, humanize.Comma(int64(r.Merges)))
	row("draws", "%s", humanize.Comma(int64(r.Draws)))
	row("elapsed", "%s", time.Duration(r.ElapsedMS)*time.Millisecond)
	row("complete", "%t", r.Complete)
	if r.Error != "" {
		row("error", "%s", r.Error)
	}

	trimmed, empty := TrimTrack(r.Track)
	row("track", "[%s] (+%d empty slots)", IntsCSV(trimmed), empty)

	row("segments", "%d", len(r.Segments))
	for i, s := range r.Segments {
		if i == maxTextSegments {
			fmt.Fprintf(&b, "  ... %d more\n", len(r.Segments)-i)
			break
		}
		state := "unreplicated"
		if s.Replicated {
			state = "replicated"
		}
		fmt.Fprintf(&b, "  %12d %12d %12d  %s\n", s.Start, s.End, s.Length, state)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
