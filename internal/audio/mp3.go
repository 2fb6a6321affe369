package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"

	mp3lib "github.com/hajimehoshi/go-mp3"
)

// mp3FrameBufSize fits one full MPEG frame of decoded output
// (1152 frames x 2 channels x 2 bytes).
const mp3FrameBufSize = 4608

// mp3Frame is one decoded MPEG frame: interleaved 16-bit little-endian
// PCM plus the frame's own reported stream parameters.
type mp3Frame struct {
	pcm        []byte
	sampleRate int
	channels   int
}

// mp3FrameSource is the frame decoder collaborator: it yields one decoded
// frame per pull and io.EOF at the genuine end of the stream. Frames with
// no samples are allowed and are skipped by the adapter.
type mp3FrameSource interface {
	NextFrame() (mp3Frame, error)
}

// gomp3FrameSource implements mp3FrameSource over hajimehoshi/go-mp3.
// The library handles skippable junk between frames internally and always
// reports two output channels.
type gomp3FrameSource struct {
	dec *mp3lib.Decoder
	buf []byte
}

func (s *gomp3FrameSource) NextFrame() (mp3Frame, error) {
	n, err := s.dec.Read(s.buf)
	if n > 0 {
		return mp3Frame{
			pcm:        s.buf[:n],
			sampleRate: s.dec.SampleRate(),
			channels:   2,
		}, nil
	}
	if err == nil || err == io.EOF {
		return mp3Frame{}, io.EOF
	}
	return mp3Frame{}, err
}

// mp3Decoder adapts a frame decoder to the canonical sample stream. The
// first frame is read eagerly at open time to establish the stream
// parameters; every later frame must match them exactly.
type mp3Decoder struct {
	frames mp3FrameSource
	first  mp3Frame
	info   AudioInfo
}

func newMp3Decoder(src io.ReadSeeker) (formatDecoder, error) {
	slog.Debug("opening MP3 stream")

	dec, err := mp3lib.NewDecoder(src)
	if err != nil {
		return nil, newFormatError("mp3", "parsing stream", err)
	}

	return newMp3DecoderFromFrames(&gomp3FrameSource{
		dec: dec,
		buf: make([]byte, mp3FrameBufSize),
	})
}

func newMp3DecoderFromFrames(frames mp3FrameSource) (formatDecoder, error) {
	var first mp3Frame
	for {
		frame, err := frames.NextFrame()
		if err == io.EOF {
			return nil, newFormatError("mp3", "no audio data", nil)
		}
		if err != nil {
			return nil, newFormatError("mp3", "reading first frame", err)
		}
		if len(frame.pcm) == 0 {
			continue
		}
		first = frame
		break
	}

	if first.channels < 1 || first.sampleRate < 1 {
		return nil, newFormatError("mp3", "invalid stream parameters", nil)
	}

	slog.Debug("MP3 stream opened",
		"sample_rate", first.sampleRate,
		"channels", first.channels,
		"first_frame_bytes", len(first.pcm))

	return &mp3Decoder{
		frames: frames,
		first:  first,
		info: AudioInfo{
			sampleRate: uint32(first.sampleRate),
			channels:   first.channels,
			format:     FormatMp3,
		},
	}, nil
}

func (d *mp3Decoder) Info() AudioInfo { return d.info }

func (d *mp3Decoder) Samples() (sampleSource, error) {
	return &mp3SampleSource{
		frames:           d.frames,
		expectedRate:     int(d.info.sampleRate),
		expectedChannels: d.info.channels,
		cur:              d.first,
	}, nil
}

type mp3SampleSource struct {
	frames           mp3FrameSource
	expectedRate     int
	expectedChannels int
	cur              mp3Frame
	cursor           int
}

func (s *mp3SampleSource) Next() (Sample, error) {
	for s.cursor >= len(s.cur.pcm) {
		frame, err := s.frames.NextFrame()
		if err == io.EOF {
			return 0, io.EOF
		}
		if err != nil {
			return 0, fmt.Errorf("reading MP3 frame: %w", err)
		}
		// Skip empty frames.
		if len(frame.pcm) == 0 {
			continue
		}
		// Stream parameters must stay constant across the whole stream.
		if frame.sampleRate != s.expectedRate {
			return 0, newFormatError("mp3", "streams with variable sample rates are not supported", nil)
		}
		if frame.channels != s.expectedChannels {
			return 0, newFormatError("mp3", "streams with variable channel counts are not supported", nil)
		}
		s.cur = frame
		s.cursor = 0
	}

	if len(s.cur.pcm)-s.cursor < 2 {
		return 0, ErrIncompleteData
	}

	v := int16(binary.LittleEndian.Uint16(s.cur.pcm[s.cursor : s.cursor+2]))
	s.cursor += 2
	return Sample(float64(v) / math.MaxInt16), nil
}
