package audio

import (
	"io"
	"log/slog"
)

// sampleSource is the capability each backend adapter exposes once a stream
// is committed: pull the next normalized sample. io.EOF marks a clean end
// of stream; any other error marks the stream unreliable past that point.
type sampleSource interface {
	Next() (Sample, error)
}

// SampleIterator is a one-shot, single-pass sequence of normalized samples.
// Channels are interleaved. It owns the underlying byte source; the source
// is closed by Close, and automatically once the stream ends or fails.
type SampleIterator struct {
	src    sampleSource
	closer io.Closer
	done   bool
}

func newSampleIterator(src sampleSource, closer io.Closer) *SampleIterator {
	return &SampleIterator{src: src, closer: closer}
}

// Next returns the next sample in the stream. It returns io.EOF when the
// stream is exhausted. Any other error is a decode or I/O failure; the
// iterator is done afterwards and further calls keep returning io.EOF.
func (it *SampleIterator) Next() (Sample, error) {
	if it.done {
		return 0, io.EOF
	}

	sample, err := it.src.Next()
	if err != nil {
		it.done = true
		if cerr := it.release(); cerr != nil {
			slog.Warn("failed to close sample source", "error", cerr)
		}
		return 0, err
	}
	return sample, nil
}

// Close releases the underlying byte source. It is safe to call more than
// once and after the stream has ended.
func (it *SampleIterator) Close() error {
	it.done = true
	return it.release()
}

func (it *SampleIterator) release() error {
	if it.closer == nil {
		return nil
	}
	closer := it.closer
	it.closer = nil
	return closer.Close()
}
