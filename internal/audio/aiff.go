package audio

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
)

// aiffDecoder adapts the go-audio/aiff container parser. AIFF carries
// signed PCM at every depth, so IntMaxSignedValue scaling applies across
// the board.
type aiffDecoder struct {
	dec  *aiff.Decoder
	info AudioInfo
}

func newAiffDecoder(src io.ReadSeeker) (formatDecoder, error) {
	slog.Debug("opening AIFF stream")

	dec := aiff.NewDecoder(src)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, newFormatError("aiff", "invalid AIFF file", nil)
	}

	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, newFormatError("aiff", fmt.Sprintf("invalid stream parameters (rate %d, channels %d)", dec.SampleRate, dec.NumChans), nil)
	}

	slog.Debug("AIFF stream opened",
		"sample_rate", dec.SampleRate,
		"channels", dec.NumChans,
		"bits_per_sample", dec.SampleBitDepth())

	return &aiffDecoder{
		dec: dec,
		info: AudioInfo{
			sampleRate: uint32(dec.SampleRate),
			channels:   int(dec.NumChans),
			format:     FormatAiff,
		},
	}, nil
}

func (d *aiffDecoder) Info() AudioInfo { return d.info }

func (d *aiffDecoder) Samples() (sampleSource, error) {
	bitDepth := int(d.dec.SampleBitDepth())
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, newFormatError("aiff", fmt.Sprintf("%d-bit samples are not supported", bitDepth), nil)
	}

	// The AIFF parser exposes no chunked PCM pull, so the sound chunk is
	// decoded in one shot and iterated from memory.
	buf, err := d.dec.FullPCMBuffer()
	if err != nil {
		return nil, newFormatError("aiff", "reading sound data", err)
	}

	return &aiffSampleSource{
		data:     buf.Data,
		maxValue: float64(goaudio.IntMaxSignedValue(bitDepth)),
	}, nil
}

type aiffSampleSource struct {
	data     []int
	maxValue float64
	cursor   int
}

func (s *aiffSampleSource) Next() (Sample, error) {
	if s.cursor >= len(s.data) {
		return 0, io.EOF
	}

	v := s.data[s.cursor]
	s.cursor++
	return Sample(float64(v) / s.maxValue), nil
}
