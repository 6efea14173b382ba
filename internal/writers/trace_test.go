package writers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"
	"testing"

	"go.uber.org/goleak"

	"repsim/internal/output"
	"repsim/pkg/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func records(n int) []api.IterationV1 {
	out := make([]api.IterationV1, n)
	for i := range out {
		out[i] = api.IterationV1{Iteration: i + 1, Placed: 1, Quota: 3, Replicated: 10 * (i + 1), Unreplicated: 100 - 10*(i+1), Gaps: 2, ActiveForks: 4}
	}
	return out
}

func TestTraceJSONL(t *testing.T) {
	var buf bytes.Buffer
	in, done := StartTraceWriter(&buf, output.FormatJSONL, 2)
	for _, r := range records(5) {
		in <- r
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("writer err: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("want 5 lines, got %d:\n%s", len(lines), buf.String())
	}
	var last api.IterationV1
	if err := json.Unmarshal([]byte(lines[4]), &last); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if last != records(5)[4] {
		t.Fatalf("last record %+v", last)
	}
}

func TestTraceTSV(t *testing.T) {
	var buf bytes.Buffer
	in, done := StartTraceWriter(&buf, output.FormatTSV, 0)
	for _, r := range records(3) {
		in <- r
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("writer err: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != output.TSVHeader || len(lines) != 4 {
		t.Fatalf("unexpected TSV:\n%s", buf.String())
	}
	if lines[1] != "1\t1\t0\t3\t10\t90\t2\t4" {
		t.Fatalf("row 1 = %q", lines[1])
	}
}

func TestTraceEmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	in, done := StartTraceWriter(&buf, output.FormatTSV, 1)
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if buf.String() != output.TSVHeader+"\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestUnknownTraceFormatError(t *testing.T) {
	var b bytes.Buffer
	in, done := StartTraceWriter(&b, "nope-format", 1)
	in <- api.IterationV1{}
	close(in)
	err := <-done
	if err == nil || !strings.Contains(err.Error(), "unknown trace format") {
		t.Fatalf("want 'unknown trace format' error, got: %v", err)
	}
}

type failWriter struct{ err error }

func (f failWriter) Write([]byte) (int, error) { return 0, f.err }

func TestWriteErrorDrainsAndReports(t *testing.T) {
	boom := errors.New("disk full")
	in, done := StartTraceWriter(failWriter{boom}, output.FormatTSV, 1)
	// more records than the 64 KiB buffer holds would block if not drained
	for i := 0; i < 20000; i++ {
		in <- api.IterationV1{Iteration: i}
	}
	close(in)
	if err := <-done; !errors.Is(err, boom) {
		t.Fatalf("want disk full, got %v", err)
	}
}

func TestBrokenPipeIsSilent(t *testing.T) {
	in, done := StartTraceWriter(failWriter{fmt.Errorf("write: %w", syscall.EPIPE)}, output.FormatJSONL, 1)
	in <- api.IterationV1{Iteration: 1}
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("broken pipe should be swallowed, got %v", err)
	}
}

func TestIsBrokenPipe(t *testing.T) {
	if !IsBrokenPipe(io.ErrClosedPipe) || !IsBrokenPipe(syscall.EPIPE) {
		t.Fatal("pipe errors not recognized")
	}
	if IsBrokenPipe(nil) || IsBrokenPipe(errors.New("x")) {
		t.Fatal("false positive")
	}
}

func TestReplicateTSV(t *testing.T) {
	var buf bytes.Buffer
	in, done := StartReplicateWriter(&buf, output.FormatTSV, 4)
	in <- api.ReplicateV1{Replicate: 0, Seed: 1701, Iterations: 12, WarmupDraws: 3, OriginsFired: 9, Merges: 8, Draws: 400, Complete: true}
	in <- api.ReplicateV1{Replicate: 1, Seed: 1702, Iterations: 2, Error: "engine: iteration cap reached (2)"}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || lines[0] != output.ReplicateTSVHeader {
		t.Fatalf("unexpected TSV:\n%s", buf.String())
	}
	if lines[1] != "0\t1701\t12\t3\t9\t8\t400\ttrue\t" {
		t.Fatalf("row 0 = %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "\tfalse\tengine: iteration cap reached (2)") {
		t.Fatalf("row 1 = %q", lines[2])
	}
}

func TestReplicateJSONL(t *testing.T) {
	var buf bytes.Buffer
	in, done := StartReplicateWriter(&buf, output.FormatJSONL, 1)
	in <- api.ReplicateV1{Replicate: 3, Seed: 9, Complete: true}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	var r api.ReplicateV1
	if err := json.Unmarshal(buf.Bytes(), &r); err != nil || r.Seed != 9 || !r.Complete {
		t.Fatalf("decode %q: %+v %v", buf.String(), r, err)
	}
}
