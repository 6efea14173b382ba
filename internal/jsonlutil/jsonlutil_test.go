package jsonlutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type rec struct {
	N int `json:"n"`
}

func never(error) bool { return false }

func TestStartEncodesLines(t *testing.T) {
	var buf bytes.Buffer
	in, done := Start(&buf, 0, func(e *json.Encoder, r rec) error { return e.Encode(r) }, never)
	for i := 1; i <= 3; i++ {
		in <- rec{i}
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n" {
		t.Fatalf("got %q", got)
	}
}

func TestStartDrainsAfterEncodeError(t *testing.T) {
	bad := errors.New("bad value")
	in, done := Start(&bytes.Buffer{}, 1, func(_ *json.Encoder, r rec) error {
		if r.N == 2 {
			return bad
		}
		return nil
	}, never)
	for i := 0; i < 100; i++ {
		in <- rec{i}
	}
	close(in)
	if err := <-done; !errors.Is(err, bad) {
		t.Fatalf("want bad value, got %v", err)
	}
}

func TestStartSuppressesBroken(t *testing.T) {
	broken := errors.New("pipe")
	in, done := Start(&bytes.Buffer{}, 1, func(*json.Encoder, rec) error { return broken },
		func(err error) bool { return errors.Is(err, broken) })
	in <- rec{}
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("broken pipe should be nil, got %v", err)
	}
}
