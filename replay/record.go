// Package replay journals connector round trips to disk and reads them
// back. Each record is a google.protobuf.Struct written length-delimited;
// a ".zst" path suffix compresses the stream with zstd.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/saturn-connectors/connector"
	"github.com/signalsfoundry/saturn-connectors/model"
)

// ErrClosed is returned when recording to a closed Recorder.
var ErrClosed = errors.New("recorder closed")

// Recorder writes every observed round trip to a journal. It implements
// connector.Observer; write failures are kept and reported by Err and
// Close.
type Recorder struct {
	mu      sync.Mutex
	w       *bufio.Writer
	closers []io.Closer
	seq     uint64
	err     error
	closed  bool
}

// NewRecorder journals to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: bufio.NewWriter(w)}
}

// Create opens a journal file, truncating it.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}
	if !compressed(path) {
		r := NewRecorder(f)
		r.closers = []io.Closer{f}
		return r, nil
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create zstd writer: %w", err)
	}
	r := NewRecorder(enc)
	r.closers = []io.Closer{enc, f}
	return r, nil
}

func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Observe implements connector.Observer.
func (r *Recorder) Observe(ev connector.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed && r.err == nil {
		r.err = ErrClosed
	}
	if r.err != nil {
		return
	}
	r.seq++
	rec, err := structpb.NewStruct(record(r.seq, ev))
	if err != nil {
		r.err = fmt.Errorf("encode record %d: %w", r.seq, err)
		return
	}
	if _, err := protodelim.MarshalTo(r.w, rec); err != nil {
		r.err = fmt.Errorf("write record %d: %w", r.seq, err)
	}
}

// Count returns the number of records written.
func (r *Recorder) Count() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Err returns the first write failure.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Flush pushes buffered records to the underlying writer.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.w.Flush(); err != nil && r.err == nil {
		r.err = fmt.Errorf("flush journal: %w", err)
	}
	return r.err
}

// Close flushes and closes the journal.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	errs := []error{r.err}
	if err := r.w.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush journal: %w", err))
	}
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close journal: %w", err))
		}
	}
	return errors.Join(errs...)
}

func record(seq uint64, ev connector.Event) map[string]any {
	return map[string]any{
		"seq":         seq,
		"start":       ev.Start.UTC().Format(time.RFC3339Nano),
		"duration_ns": ev.Duration.Nanoseconds(),
		"channel":     ev.Channel.String(),
		"direction":   ev.Direction.String(),
		"type":        int32(ev.Type),
		"name":        ev.Name,
		"from":        string(ev.From),
		"to":          string(ev.To),
		"outcome":     ev.Outcome.String(),
		"request":     slots(ev.Request, false),
		"response":    slots(ev.Response, true),
	}
}

func slots(m connector.Message, deref bool) map[string]any {
	out := make(map[string]any, 3)
	for i, v := range []connector.Value{m.Val1, m.Val2, m.Val3} {
		if v.IsSet() {
			out[fmt.Sprintf("val%d", i+1)] = slot(v, deref)
		}
	}
	return out
}

// slot encodes a value. Pointer slots alias the sender's buffer, so the
// pointee is only recorded on the response side, after the receiver
// filled it.
func slot(v connector.Value, deref bool) map[string]any {
	s := map[string]any{"kind": v.Kind().String()}
	switch v.Kind() {
	case connector.KindFloat:
		s["value"], _ = v.Float()
	case connector.KindInt:
		s["value"], _ = v.Int()
	case connector.KindBool:
		s["value"], _ = v.Bool()
	case connector.KindHandle:
		h, _ := v.Handle()
		s["value"] = uint64(h)
	case connector.KindVector:
		vec, _ := v.Vector()
		s["value"] = vector(vec)
	case connector.KindPointer:
		p, _ := v.Pointer()
		kind, value := pointee(p)
		s["type"] = kind
		if deref && value != nil {
			s["value"] = value
		}
	}
	return s
}

func pointee(p any) (string, any) {
	switch b := p.(type) {
	case *model.Vector3:
		if b == nil {
			return "vector", nil
		}
		return "vector", vector(*b)
	case *model.Matrix3:
		if b == nil {
			return "matrix", nil
		}
		rows := make([]any, 3)
		for i, row := range b {
			rows[i] = []any{row[0], row[1], row[2]}
		}
		return "matrix", rows
	case *model.VesselStatus:
		if b == nil {
			return "status", nil
		}
		return "status", map[string]any{
			"rpos":      vector(b.RPos),
			"rvel":      vector(b.RVel),
			"vrot":      vector(b.VRot),
			"arot":      vector(b.ARot),
			"fuel":      b.Fuel,
			"eng_main":  b.EngMain,
			"eng_hover": b.EngHover,
			"rbody":     uint64(b.RBody),
			"base":      uint64(b.Base),
			"port":      b.Port,
			"status":    b.Status,
		}
	case *model.Elements:
		if b == nil {
			return "elements", nil
		}
		return "elements", map[string]any{
			"a":    b.SemiMajorAxis,
			"e":    b.Eccentricity,
			"i":    b.Inclination,
			"node": b.AscendingNode,
			"lpe":  b.LongitudePeriapsis,
			"l":    b.MeanLongitude,
		}
	default:
		return "opaque", nil
	}
}

func vector(v model.Vector3) []any {
	return []any{v.X, v.Y, v.Z}
}
