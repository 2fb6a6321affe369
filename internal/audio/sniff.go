package audio

import (
	"fmt"
	"io"
	"log/slog"
)

// FromReader identifies the format of a generic seekable source by trial
// decoding and returns a committed decoder. Backends are tried in a fixed
// order (FLAC, MP3, Vorbis, WAV, AIFF, minus whatever is compiled out);
// the first positive identification wins and is re-parsed for real use.
// If src is also an io.Closer, the decoder takes ownership of it.
func FromReader(src io.ReadSeeker) (*Decoder, error) {
	slog.Debug("sniffing audio format by trial decode")

	for _, feature := range sniffOrder {
		entry, ok := backends[feature]
		if !ok {
			continue
		}

		matched, err := trialDecode(src, entry)
		if err != nil {
			return nil, err
		}
		if !matched {
			slog.Debug("trial decode rejected", "feature", feature)
			continue
		}

		backend, err := entry.open(src)
		if err != nil {
			return nil, err
		}

		info := backend.Info()
		slog.Info("audio format identified by sniffing",
			"format", info.Format().String(),
			"sample_rate", info.SampleRate(),
			"channels", info.Channels())

		closer, _ := src.(io.Closer)
		return &Decoder{backend: backend, closer: closer}, nil
	}

	return nil, ErrUnknownFormat
}

// trialDecode probes one backend against src. The probe is transactional:
// the source position is restored to the start regardless of outcome.
// Only a format-class failure counts as a negative identification; if the
// source itself reported an I/O error during the probe, the sniff as a
// whole is aborted.
func trialDecode(src io.ReadSeeker, entry backendEntry) (matched bool, err error) {
	// Probe from the start regardless of where the caller (or a previous
	// trial) left the source.
	if _, serr := src.Seek(0, io.SeekStart); serr != nil {
		return false, fmt.Errorf("seeking to start before %s trial: %w", entry.feature, serr)
	}

	defer func() {
		if _, serr := src.Seek(0, io.SeekStart); serr != nil && err == nil {
			matched = false
			err = fmt.Errorf("rewinding source after %s trial: %w", entry.feature, serr)
		}
	}()

	tracked := &errTrackingReadSeeker{src: src}
	if _, oerr := entry.open(tracked); oerr != nil {
		if tracked.err != nil {
			return false, fmt.Errorf("%s trial aborted by source error: %w", entry.feature, tracked.err)
		}
		if isFormatError(oerr) {
			return false, nil
		}
		return false, oerr
	}
	return true, nil
}

// errTrackingReadSeeker records I/O errors raised by the source itself,
// so trial failures caused by a broken source can be told apart from
// "this is not my format" parse failures. Only Read failures count: EOF
// conditions are normal while probing short inputs, and a rejected Seek
// is the probing backend chasing an offset that does not exist in a
// stream of some other format, not a source fault.
type errTrackingReadSeeker struct {
	src io.ReadSeeker
	err error
}

func (t *errTrackingReadSeeker) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		t.err = err
	}
	return n, err
}

func (t *errTrackingReadSeeker) Seek(offset int64, whence int) (int64, error) {
	return t.src.Seek(offset, whence)
}
