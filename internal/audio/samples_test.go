package audio

import (
	"errors"
	"io"
	"testing"
)

// scriptedSource yields canned samples, then a final error.
type scriptedSource struct {
	samples []Sample
	final   error
	pos     int
}

func (s *scriptedSource) Next() (Sample, error) {
	if s.pos >= len(s.samples) {
		return 0, s.final
	}
	sample := s.samples[s.pos]
	s.pos++
	return sample, nil
}

// countingCloser records how many times it was closed.
type countingCloser struct {
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestSampleIteratorDrains(t *testing.T) {
	it := newSampleIterator(&scriptedSource{samples: []Sample{0.1, 0.2, 0.3}, final: io.EOF}, nil)

	got := collectSamples(t, it)
	if len(got) != 3 {
		t.Fatalf("read %d samples, expected 3", len(got))
	}
}

func TestSampleIteratorClosesSourceOnEOF(t *testing.T) {
	closer := &countingCloser{}
	it := newSampleIterator(&scriptedSource{final: io.EOF}, closer)

	if _, err := it.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	if closer.closed != 1 {
		t.Errorf("source closed %d times, expected 1", closer.closed)
	}
}

func TestSampleIteratorExhaustedAfterError(t *testing.T) {
	decodeErr := errors.New("bad block")
	closer := &countingCloser{}
	it := newSampleIterator(&scriptedSource{samples: []Sample{0.5}, final: decodeErr}, closer)

	if _, err := it.Next(); err != nil {
		t.Fatalf("first sample: %v", err)
	}

	if _, err := it.Next(); !errors.Is(err, decodeErr) {
		t.Fatalf("expected decode error, got %v", err)
	}

	// The sequence is unreliable past the error; it just ends.
	if _, err := it.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after error, got %v", err)
	}
	if closer.closed != 1 {
		t.Errorf("source closed %d times, expected 1", closer.closed)
	}
}

func TestSampleIteratorCloseIdempotent(t *testing.T) {
	closer := &countingCloser{}
	it := newSampleIterator(&scriptedSource{final: io.EOF}, closer)

	if err := it.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := it.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if closer.closed != 1 {
		t.Errorf("source closed %d times, expected 1", closer.closed)
	}

	if _, err := it.Next(); err != io.EOF {
		t.Errorf("expected io.EOF after Close, got %v", err)
	}
}
