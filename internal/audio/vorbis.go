package audio

import (
	"io"
	"log/slog"

	"github.com/jfreymuth/oggvorbis"
)

// vorbisPacketFrames is the number of frames pulled from the bitstream
// decoder per packet refill.
const vorbisPacketFrames = 1024

// vorbisDecoder adapts the jfreymuth/oggvorbis bitstream decoder. The
// collaborator already yields interleaved normalized float32 samples, so
// packet contents pass through unscaled.
type vorbisDecoder struct {
	dec  *oggvorbis.Reader
	info AudioInfo
}

func newVorbisDecoder(src io.ReadSeeker) (formatDecoder, error) {
	slog.Debug("opening Ogg Vorbis stream")

	dec, err := oggvorbis.NewReader(src)
	if err != nil {
		// The bitstream layer does not separate container, header, and
		// audio failures here; all of them mean "not a Vorbis stream".
		return nil, newFormatError("ogg", "parsing vorbis stream", err)
	}

	if dec.Channels() < 1 || dec.SampleRate() < 1 {
		return nil, newFormatError("ogg", "invalid stream parameters", nil)
	}

	slog.Debug("Ogg Vorbis stream opened",
		"sample_rate", dec.SampleRate(),
		"channels", dec.Channels())

	return &vorbisDecoder{
		dec: dec,
		info: AudioInfo{
			sampleRate: uint32(dec.SampleRate()),
			channels:   dec.Channels(),
			format:     FormatVorbis,
		},
	}, nil
}

func (d *vorbisDecoder) Info() AudioInfo { return d.info }

func (d *vorbisDecoder) Samples() (sampleSource, error) {
	return &vorbisSampleSource{
		dec: d.dec,
		buf: make([]float32, vorbisPacketFrames*d.info.channels),
	}, nil
}

type vorbisSampleSource struct {
	dec     *oggvorbis.Reader
	buf     []float32
	packet  []float32
	cursor  int
	pending error
}

func (s *vorbisSampleSource) Next() (Sample, error) {
	for s.cursor >= len(s.packet) {
		// Current packet exhausted; surface a deferred decode error
		// before pulling the next one.
		if s.pending != nil {
			err := s.pending
			s.pending = nil
			if err == io.EOF {
				return 0, io.EOF
			}
			return 0, newFormatError("ogg", "decoding packet", err)
		}

		n, err := s.dec.Read(s.buf)
		if n == 0 {
			if err == nil || err == io.EOF {
				return 0, io.EOF
			}
			return 0, newFormatError("ogg", "decoding packet", err)
		}

		s.packet = s.buf[:n]
		s.cursor = 0
		if err != nil {
			// Deliver the decoded samples first, then the error.
			s.pending = err
		}
	}

	sample := s.packet[s.cursor]
	s.cursor++
	return Sample(sample), nil
}
