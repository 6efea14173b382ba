// internal/integration/integration_test.go
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"repsim/internal/app"
	"repsim/internal/output"
	"repsim/pkg/api"
)

func runOK(t *testing.T, args ...string) string {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.Run(args, &out, &errBuf)
	if code != 0 {
		t.Fatalf("repsim %s: exit %d, stderr=%s", strings.Join(args, " "), code, errBuf.String())
	}
	return out.String()
}

func TestEndToEnd(t *testing.T) {
	out := runOK(t, "run", "-L", "200000", "--rate", "40", "--seed", "5")
	for _, want := range []string{"complete     true", "genome       200,000", "seed         5"} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestSameSeedSameReport(t *testing.T) {
	run := func(layout string) api.ResultV1 {
		out := runOK(t, "run", "-L", "300000", "--max-forks", "8", "--rate", "30", "--seed", "1701", "--layout", layout, "-o", "json", "-q")
		var r api.ResultV1
		if err := json.Unmarshal([]byte(out), &r); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		return r
	}
	a, b, c := run("array"), run("array"), run("intervals")

	// run IDs and timings differ by design; everything simulated must not
	for _, r := range []*api.ResultV1{&a, &b, &c} {
		r.RunID, r.ElapsedMS = "", 0
	}
	c.Config.Layout = a.Config.Layout

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	jc, _ := json.Marshal(c)
	if !bytes.Equal(ja, jb) {
		t.Fatalf("same seed differs:\n%s\n%s", ja, jb)
	}
	if !bytes.Equal(ja, jc) {
		t.Fatalf("layouts differ:\n%s\n%s", ja, jc)
	}
}

func TestYAMLReport(t *testing.T) {
	out := runOK(t, "run", "-L", "50000", "--seed", "2", "-o", "yaml", "-q")
	var r api.ResultV1
	if err := yaml.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("yaml: %v\n%s", err, out)
	}
	if !r.Complete || r.Config.GenomeLength != 50000 {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestArtifacts(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "trace.tsv")
	prom := filepath.Join(dir, "run.prom")
	pic := filepath.Join(dir, "progress.png")
	cfg := filepath.Join(dir, "sim.toml")
	if err := os.WriteFile(cfg, []byte("genome_length = 120000\nmax_forks = 5\nreplication_rate = 20\nseed = 77\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := runOK(t, "run", "--config", cfg, "-o", "json", "-q",
		"--trace", trace, "--trace-format", "tsv", "--trace-every", "10",
		"--metrics-file", prom, "--plot", pic)

	var r api.ResultV1
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(trace)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) < 2 || lines[0] != output.TSVHeader {
		t.Fatalf("bad trace header: %v", lines)
	}
	last := strings.Split(lines[len(lines)-1], "\t")
	if last[0] != itoa(r.Iterations) || last[5] != "0" {
		t.Fatalf("last trace row %v should be final iteration %d with nothing unreplicated", last, r.Iterations)
	}

	body, err := os.ReadFile(prom)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `repsim_complete{layout="array"} 1`) {
		t.Fatalf("metrics missing completion gauge:\n%s", body)
	}

	pf, err := os.Open(pic)
	if err != nil {
		t.Fatal(err)
	}
	defer pf.Close()
	if _, err := png.Decode(pf); err != nil {
		t.Fatalf("plot is not a PNG: %v", err)
	}
}

func TestTraceToStdoutJSONL(t *testing.T) {
	out := runOK(t, "run", "-L", "40000", "--seed", "3", "--trace", "-", "-q")
	var n int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "{") {
			var it api.IterationV1
			if err := json.Unmarshal([]byte(line), &it); err != nil {
				t.Fatalf("bad trace line %q: %v", line, err)
			}
			n++
		}
	}
	if n == 0 || !strings.Contains(out, "complete     true") {
		t.Fatalf("expected trace lines followed by report, got:\n%s", out)
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestParallelSweepEqualsSerial(t *testing.T) {
	run := func(threads string) string {
		return runOK(t, "sweep", "-L", "100000", "--rate", "25", "-n", "6", "--seed", "1701", "--threads", threads, "-o", "jsonl", "-q")
	}
	serial := run("1")
	parallel := run("4")
	if serial != parallel {
		t.Fatalf("parallel sweep differs from serial\nserial: %s\nparallel:%s", serial, parallel)
	}
}
