package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"
	"google.golang.org/protobuf/encoding/protodelim"
	"google.golang.org/protobuf/types/known/structpb"
)

// Slot is a recorded value slot.
type Slot struct {
	Kind string
	// Type names the buffer of a pointer slot: vector, matrix, status,
	// elements or opaque.
	Type  string
	Value any
}

// Entry is one recorded round trip.
type Entry struct {
	Seq       uint64
	Start     time.Time
	Duration  time.Duration
	Channel   string
	Direction string
	Type      int32
	Name      string
	From      string
	To        string
	Outcome   string
	Request   map[string]Slot
	Response  map[string]Slot
}

// Delivered reports whether the round trip succeeded.
func (e Entry) Delivered() bool { return e.Outcome == "delivered" }

// Reader iterates over a journal.
type Reader struct {
	r      *bufio.Reader
	close  func() error
	offset uint64
}

// NewReader reads an uncompressed journal from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r), close: func() error { return nil }}
}

// Open opens a journal file written by Create.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if !compressed(path) {
		r := NewReader(f)
		r.close = f.Close
		return r, nil
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open zstd reader: %w", err)
	}
	r := NewReader(dec)
	r.close = func() error {
		dec.Close()
		return f.Close()
	}
	return r, nil
}

// Next returns the next entry, or io.EOF after the last one.
func (r *Reader) Next() (Entry, error) {
	var rec structpb.Struct
	if err := protodelim.UnmarshalFrom(r.r, &rec); err != nil {
		if errors.Is(err, io.EOF) {
			return Entry{}, io.EOF
		}
		return Entry{}, fmt.Errorf("read record %d: %w", r.offset+1, err)
	}
	r.offset++
	return decode(rec.AsMap())
}

// Close releases the journal file.
func (r *Reader) Close() error { return r.close() }

func decode(m map[string]any) (Entry, error) {
	start, err := time.Parse(time.RFC3339Nano, str(m["start"]))
	if err != nil {
		return Entry{}, fmt.Errorf("record start: %w", err)
	}
	return Entry{
		Seq:       uint64(num(m["seq"])),
		Start:     start,
		Duration:  time.Duration(num(m["duration_ns"])),
		Channel:   str(m["channel"]),
		Direction: str(m["direction"]),
		Type:      int32(num(m["type"])),
		Name:      str(m["name"]),
		From:      str(m["from"]),
		To:        str(m["to"]),
		Outcome:   str(m["outcome"]),
		Request:   decodeSlots(m["request"]),
		Response:  decodeSlots(m["response"]),
	}, nil
}

func decodeSlots(v any) map[string]Slot {
	raw, _ := v.(map[string]any)
	out := make(map[string]Slot, len(raw))
	for name, s := range raw {
		fields, ok := s.(map[string]any)
		if !ok {
			continue
		}
		out[name] = Slot{Kind: str(fields["kind"]), Type: str(fields["type"]), Value: fields["value"]}
	}
	return out
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// Struct numbers decode as float64.
func num(v any) float64 {
	f, _ := v.(float64)
	return f
}
