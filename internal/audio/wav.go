package audio

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavChunkSize is the number of interleaved samples pulled from the WAV
// parser per refill.
const wavChunkSize = 4096

// wavDecoder adapts the go-audio/wav container parser to the canonical
// sample stream.
type wavDecoder struct {
	dec  *wav.Decoder
	info AudioInfo
}

func newWavDecoder(src io.ReadSeeker) (formatDecoder, error) {
	slog.Debug("opening WAV stream")

	dec := wav.NewDecoder(src)
	if !dec.IsValidFile() {
		return nil, newFormatError("wav", "invalid WAV file", nil)
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, newFormatError("wav", "locating PCM data", err)
	}

	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, newFormatError("wav", fmt.Sprintf("invalid stream parameters (rate %d, channels %d)", dec.SampleRate, dec.NumChans), nil)
	}

	slog.Debug("WAV stream opened",
		"sample_rate", dec.SampleRate,
		"channels", dec.NumChans,
		"bits_per_sample", dec.BitDepth,
		"wav_audio_format", dec.WavAudioFormat)

	return &wavDecoder{
		dec: dec,
		info: AudioInfo{
			sampleRate: dec.SampleRate,
			channels:   int(dec.NumChans),
			format:     FormatWav,
		},
	}, nil
}

func (d *wavDecoder) Info() AudioInfo { return d.info }

func (d *wavDecoder) Samples() (sampleSource, error) {
	bitDepth := int(d.dec.BitDepth)
	isFloat := d.dec.WavAudioFormat == 3 // WAVE_FORMAT_IEEE_FLOAT

	switch {
	case isFloat && bitDepth == 32:
	case !isFloat && (bitDepth == 8 || bitDepth == 16 || bitDepth == 24 || bitDepth == 32):
	default:
		return nil, newFormatError("wav", fmt.Sprintf("%d-bit format %d is not supported", bitDepth, d.dec.WavAudioFormat), nil)
	}

	return &wavSampleSource{
		dec:      d.dec,
		bitDepth: bitDepth,
		isFloat:  isFloat,
		maxValue: float64(goaudio.IntMaxSignedValue(bitDepth)),
		buf: &goaudio.IntBuffer{
			Data: make([]int, wavChunkSize),
			Format: &goaudio.Format{
				NumChannels: d.info.channels,
				SampleRate:  int(d.info.sampleRate),
			},
		},
	}, nil
}

type wavSampleSource struct {
	dec      *wav.Decoder
	bitDepth int
	isFloat  bool
	maxValue float64
	buf      *goaudio.IntBuffer
	filled   int
	cursor   int
}

func (s *wavSampleSource) Next() (Sample, error) {
	if s.cursor >= s.filled {
		n, err := s.dec.PCMBuffer(s.buf)
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("reading WAV samples: %w", err)
		}
		if n == 0 {
			return 0, io.EOF
		}
		s.filled = n
		s.cursor = 0
	}

	v := s.buf.Data[s.cursor]
	s.cursor++

	switch {
	case s.isFloat:
		// IEEE float samples come back from the parser as raw 32-bit
		// patterns; reinterpret and pass through.
		return Sample(math.Float32frombits(uint32(int32(v)))), nil
	case s.bitDepth == 8:
		// 8-bit WAV is unsigned in the container; center before scaling.
		return Sample(float64(v-128) / s.maxValue), nil
	default:
		return Sample(float64(v) / s.maxValue), nil
	}
}
