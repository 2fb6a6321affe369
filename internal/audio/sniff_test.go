package audio

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestSniffIdentifiesWav(t *testing.T) {
	data := generateWAV(16, 2, 44100, pcm16(10, -10, 20, -20))

	dec, err := FromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.Info().Format() != FormatWav {
		t.Errorf("format = %v, expected WAV", dec.Info().Format())
	}
}

func TestSniffUnknownFormat(t *testing.T) {
	garbage := bytes.Repeat([]byte("this is not audio "), 16)

	_, err := FromReader(bytes.NewReader(garbage))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestSniffEmptySource(t *testing.T) {
	_, err := FromReader(bytes.NewReader(nil))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat for empty source, got %v", err)
	}
}

// brokenReadSeeker fails every read with a non-EOF error.
type brokenReadSeeker struct {
	err error
}

func (b *brokenReadSeeker) Read(p []byte) (int, error)         { return 0, b.err }
func (b *brokenReadSeeker) Seek(o int64, w int) (int64, error) { return 0, nil }

func TestSniffAbortsOnSourceError(t *testing.T) {
	sourceErr := errors.New("device unplugged")

	_, err := FromReader(&brokenReadSeeker{err: sourceErr})
	if errors.Is(err, ErrUnknownFormat) {
		t.Fatal("source I/O failure must abort the sniff, not report unknown format")
	}
	if !errors.Is(err, sourceErr) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}

func TestBackendSeekRejectionIsNotASourceFailure(t *testing.T) {
	// A probing backend may chase offsets that do not exist in a stream
	// of some other format (a negative seek, typically). That rejection
	// belongs to the trial, not the source, and must not abort the sniff.
	tracked := &errTrackingReadSeeker{src: bytes.NewReader([]byte("RIFF"))}

	if _, err := tracked.Seek(-10, io.SeekStart); err == nil {
		t.Fatal("expected an error for a negative seek")
	}
	if tracked.err != nil {
		t.Errorf("seek rejection recorded as source failure: %v", tracked.err)
	}

	// Read failures are a different story.
	failing := &errTrackingReadSeeker{src: &brokenReadSeeker{err: errors.New("bad sector")}}
	if _, err := failing.Read(make([]byte, 4)); err == nil {
		t.Fatal("expected the read to fail")
	}
	if failing.err == nil {
		t.Error("source read failure was not recorded")
	}
}

func TestSniffSurvivesSeekHappyBackends(t *testing.T) {
	// Trials ahead of WAV in the sniff order seek around (and past the
	// end of) the source while probing; none of that may leak out as an
	// aborted sniff for a perfectly healthy WAV stream.
	data := generateWAV(16, 2, 44100, pcm16(5, -5))

	dec, err := FromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer dec.Close()

	if dec.Info().Format() != FormatWav {
		t.Errorf("format = %v, expected WAV", dec.Info().Format())
	}
}

func TestTrialDecodeRewindsSource(t *testing.T) {
	data := generateWAV(16, 1, 8000, pcm16(1, 2, 3))
	src := bytes.NewReader(data)

	// Advance the reader so the rewind is observable.
	if _, err := src.Seek(4, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}

	entry, ok := backends[featureWav]
	if !ok {
		t.Skip("wav backend not compiled in")
	}

	matched, err := trialDecode(src, entry)
	if err != nil {
		t.Fatalf("trialDecode: %v", err)
	}
	if !matched {
		t.Error("expected a positive WAV identification")
	}

	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos != 0 {
		t.Errorf("source position after trial = %d, expected 0", pos)
	}
}

func TestTrialDecodeRejectionRewindsToo(t *testing.T) {
	garbage := bytes.NewReader(bytes.Repeat([]byte{0x42}, 64))

	entry, ok := backends[featureFlac]
	if !ok {
		t.Skip("flac backend not compiled in")
	}

	matched, err := trialDecode(garbage, entry)
	if err != nil {
		t.Fatalf("trialDecode: %v", err)
	}
	if matched {
		t.Error("garbage must not match FLAC")
	}

	pos, err := garbage.Seek(0, io.SeekCurrent)
	if err != nil {
		t.Fatalf("seek: %v", err)
	}
	if pos != 0 {
		t.Errorf("source position after rejected trial = %d, expected 0", pos)
	}
}
