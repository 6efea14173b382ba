// internal/writers/trace.go
package writers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"syscall"

	"repsim/internal/jsonlutil"
	"repsim/internal/output"
	"repsim/pkg/api"
)

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// StartTraceWriter spins up a writer goroutine for per-iteration records.
// The caller closes the returned channel; the error channel yields exactly
// one value once the goroutine is done.
func StartTraceWriter(out io.Writer, format string, bufSize int) (chan<- api.IterationV1, <-chan error) {
	switch format {
	case output.FormatJSONL:
		return jsonlutil.Start(out, bufSize, func(enc *json.Encoder, it api.IterationV1) error {
			return enc.Encode(it)
		}, IsBrokenPipe)
	case output.FormatTSV:
		return startTSV(out, bufSize, output.TSVHeader, output.FormatIterationTSV)
	default:
		return startUnknown[api.IterationV1]("trace", format, bufSize)
	}
}

// StartReplicateWriter is StartTraceWriter for sweep summaries.
func StartReplicateWriter(out io.Writer, format string, bufSize int) (chan<- api.ReplicateV1, <-chan error) {
	switch format {
	case output.FormatJSONL:
		return jsonlutil.Start(out, bufSize, func(enc *json.Encoder, r api.ReplicateV1) error {
			return enc.Encode(r)
		}, IsBrokenPipe)
	case output.FormatTSV:
		return startTSV(out, bufSize, output.ReplicateTSVHeader, output.FormatReplicateTSV)
	default:
		return startUnknown[api.ReplicateV1]("replicate", format, bufSize)
	}
}

// startTSV writes header, then one row per value. After an error it keeps
// draining so senders never block.
func startTSV[T any](out io.Writer, bufSize int, header string, row func(T) string) (chan<- T, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan T, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bufio.NewWriterSize(out, 64<<10)
		_, err := io.WriteString(bw, header+"\n")
		for v := range in {
			if err != nil {
				continue
			}
			_, err = io.WriteString(bw, row(v)+"\n")
		}
		if err == nil {
			err = bw.Flush()
		}
		if IsBrokenPipe(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}

func startUnknown[T any](kind, format string, bufSize int) (chan<- T, <-chan error) {
	in := make(chan T, max(bufSize, 1))
	done := make(chan error, 1)
	go func() {
		for range in {
		}
		done <- fmt.Errorf("unknown %s format %q (no writer registered)", kind, format)
	}()
	return in, done
}
