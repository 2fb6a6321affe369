package audio

import (
	"io"
	"log/slog"
	"math"

	"github.com/mewkiz/flac"
)

// flacDecoder adapts the mewkiz/flac block decoder. FLAC streams carry a
// declared bits-per-sample, so normalization divides by a per-stream
// maximum instead of a fixed constant.
type flacDecoder struct {
	stream    *flac.Stream
	info      AudioInfo
	maxSample float64
}

func newFlacDecoder(src io.ReadSeeker) (formatDecoder, error) {
	slog.Debug("opening FLAC stream")

	stream, err := flac.New(src)
	if err != nil {
		return nil, newFormatError("flac", "parsing stream", err)
	}

	si := stream.Info
	if si == nil || si.NChannels == 0 || si.SampleRate == 0 || si.BitsPerSample == 0 || si.BitsPerSample > 32 {
		return nil, newFormatError("flac", "invalid stream info", nil)
	}

	slog.Debug("FLAC stream opened",
		"sample_rate", si.SampleRate,
		"channels", si.NChannels,
		"bits_per_sample", si.BitsPerSample)

	return &flacDecoder{
		stream:    stream,
		maxSample: float64(int32(math.MaxInt32) >> (32 - uint(si.BitsPerSample))),
		info: AudioInfo{
			sampleRate: si.SampleRate,
			channels:   int(si.NChannels),
			format:     FormatFlac,
		},
	}, nil
}

func (d *flacDecoder) Info() AudioInfo { return d.info }

func (d *flacDecoder) Samples() (sampleSource, error) {
	return &flacSampleSource{
		stream:    d.stream,
		maxSample: d.maxSample,
	}, nil
}

type flacSampleSource struct {
	stream    *flac.Stream
	maxSample float64
	// block is reused across pulls to avoid reallocating per block.
	block    []Sample
	blockLen int
	cursor   int
}

func (s *flacSampleSource) Next() (Sample, error) {
	for s.cursor >= s.blockLen {
		frame, err := s.stream.ParseNext()
		if err != nil {
			// Any block read failure ends the stream. This matches the
			// historical leniency of the FLAC path; see DESIGN.md.
			return 0, io.EOF
		}

		channels := len(frame.Subframes)
		if channels == 0 {
			continue
		}
		perChannel := len(frame.Subframes[0].Samples)
		if perChannel == 0 {
			continue
		}

		total := perChannel * channels
		if cap(s.block) < total {
			s.block = make([]Sample, total)
		}

		// Subframes hold one channel each; interleave them.
		for i := 0; i < perChannel; i++ {
			for ch := 0; ch < channels; ch++ {
				s.block[i*channels+ch] = Sample(float64(frame.Subframes[ch].Samples[i]) / s.maxSample)
			}
		}

		s.blockLen = total
		s.cursor = 0
	}

	sample := s.block[s.cursor]
	s.cursor++
	return sample, nil
}
