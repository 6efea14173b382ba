// internal/plot/plot.go
//
// Package plot renders replication progress as a PNG line chart.
package plot

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"repsim/internal/engine"
)

var ErrNoData = errors.New("plot: need at least one iteration")

// Progress samples the replicated fraction and fork count every N iterations.
type Progress struct {
	genome int
	every  int

	xs, frac, forks []float64
	maxForks        float64
	last            engine.IterationStats
	pending         bool
}

// NewProgress starts a series at (0, 0). every < 1 samples every iteration.
func NewProgress(genomeLength, every int) *Progress {
	if every < 1 {
		every = 1
	}
	return &Progress{
		genome: genomeLength,
		every:  every,
		xs:     []float64{0},
		frac:   []float64{0},
		forks:  []float64{0},
	}
}

func (p *Progress) Observe(st engine.IterationStats) {
	p.last = st
	p.pending = st.Iteration%p.every != 0
	if !p.pending {
		p.add(st)
	}
}

func (p *Progress) add(st engine.IterationStats) {
	p.xs = append(p.xs, float64(st.Iteration))
	p.frac = append(p.frac, float64(st.Replicated)/float64(p.genome))
	p.forks = append(p.forks, float64(st.ActiveForks))
	p.maxForks = max(p.maxForks, float64(st.ActiveForks))
}

// Points returns the number of sampled points, including the origin.
func (p *Progress) Points() int {
	n := len(p.xs)
	if p.pending {
		n++
	}
	return n
}

// Render writes the chart as PNG. The last observed iteration is always
// plotted even when it falls between samples.
func (p *Progress) Render(w io.Writer) error {
	if p.pending {
		p.add(p.last)
		p.pending = false
	}
	if len(p.xs) < 2 {
		return ErrNoData
	}
	graph := chart.Chart{
		Title:  "Replication progress",
		Width:  960,
		Height: 480,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "iteration",
			Style: chart.Style{FontSize: 10.0},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:           "replicated fraction",
			Style:          chart.Style{FontSize: 10.0},
			Range:          &chart.ContinuousRange{Min: 0, Max: 1},
			ValueFormatter: chart.PercentValueFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:  "active forks",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: max(p.maxForks, 1)},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "replicated",
				XValues: p.xs,
				YValues: p.frac,
				Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "active forks",
				YAxis:   chart.YAxisSecondary,
				XValues: p.xs,
				YValues: p.forks,
				Style:   chart.Style{StrokeColor: drawing.Color{R: 255, G: 165, B: 0, A: 255}, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("plot: render: %w", err)
	}
	return nil
}

// WriteFile renders to path.
func (p *Progress) WriteFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("plot: close %s: %w", path, cerr)
		}
	}()
	return p.Render(f)
}
