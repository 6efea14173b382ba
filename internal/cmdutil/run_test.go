package cmdutil

import (
	"context"
	"errors"
	"testing"

	"repsim/internal/pipeline"
)

type evenSim struct{}

func (evenSim) Simulate(_ context.Context, i int, seed uint64) (pipeline.Replicate, error) {
	return pipeline.Replicate{Seed: seed}, nil
}

func TestRunStreamFiltersAndCounts(t *testing.T) {
	var sent []uint64
	n, err := RunStream(context.Background(),
		pipeline.Config{Threads: 2, Replicates: 6, FirstSeed: 10},
		evenSim{},
		func(r pipeline.Replicate) (bool, uint64, error) { return r.Index%2 == 0, r.Seed, nil },
		func(s uint64) error { sent = append(sent, s); return nil },
	)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || len(sent) != 3 || sent[0] != 10 || sent[1] != 12 || sent[2] != 14 {
		t.Fatalf("n=%d sent=%v", n, sent)
	}
}

func TestRunStreamSendError(t *testing.T) {
	full := errors.New("full")
	n, err := RunStream(context.Background(),
		pipeline.Config{Threads: 1, Replicates: 4},
		evenSim{},
		func(r pipeline.Replicate) (bool, int, error) { return true, r.Index, nil },
		func(int) error { return full },
	)
	if !errors.Is(err, full) || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}
