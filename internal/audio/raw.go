package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
)

// Endianness selects the byte order of raw samples.
type Endianness int

const (
	// LittleEndian stores the least significant byte first.
	LittleEndian Endianness = iota
	// BigEndian stores the most significant byte first.
	BigEndian
)

// String returns the display name of the endianness.
func (e Endianness) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

func (e Endianness) byteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// RawSampleFormat describes the binary layout of one raw sample.
type RawSampleFormat int

const (
	// RawFloat32 is a 32-bit IEEE floating-point sample.
	RawFloat32 RawSampleFormat = iota
	// RawFloat64 is a 64-bit IEEE floating-point sample.
	RawFloat64
	// RawUnsigned8 is an unsigned 8-bit integer sample.
	RawUnsigned8
	// RawSigned8 is a signed 8-bit integer sample.
	RawSigned8
	// RawUnsigned16 is an unsigned 16-bit integer sample.
	RawUnsigned16
	// RawSigned16 is a signed 16-bit integer sample.
	RawSigned16
	// RawUnsigned24 is an unsigned 24-bit integer sample stored in 3 bytes.
	RawUnsigned24
	// RawSigned24 is a signed 24-bit integer sample stored in 3 bytes.
	RawSigned24
	// RawUnsigned32 is an unsigned 32-bit integer sample.
	RawUnsigned32
	// RawSigned32 is a signed 32-bit integer sample.
	RawSigned32
	// RawUnsigned64 is an unsigned 64-bit integer sample.
	RawUnsigned64
	// RawSigned64 is a signed 64-bit integer sample.
	RawSigned64
)

// ByteWidth returns how many bytes one sample of this format consumes.
// 24-bit formats consume exactly 3 bytes even though they are decoded
// through 32-bit integer arithmetic.
func (f RawSampleFormat) ByteWidth() int {
	switch f {
	case RawUnsigned8, RawSigned8:
		return 1
	case RawUnsigned16, RawSigned16:
		return 2
	case RawUnsigned24, RawSigned24:
		return 3
	case RawFloat32, RawUnsigned32, RawSigned32:
		return 4
	case RawFloat64, RawUnsigned64, RawSigned64:
		return 8
	default:
		return 0
	}
}

// String returns the display name of the sample format.
func (f RawSampleFormat) String() string {
	switch f {
	case RawFloat32:
		return "f32"
	case RawFloat64:
		return "f64"
	case RawUnsigned8:
		return "u8"
	case RawSigned8:
		return "s8"
	case RawUnsigned16:
		return "u16"
	case RawSigned16:
		return "s16"
	case RawUnsigned24:
		return "u24"
	case RawSigned24:
		return "s24"
	case RawUnsigned32:
		return "u32"
	case RawSigned32:
		return "s32"
	case RawUnsigned64:
		return "u64"
	case RawSigned64:
		return "s64"
	default:
		return "unknown"
	}
}

// RawAudioSpec describes how to decode an unheadered binary sample stream.
type RawAudioSpec struct {
	// SampleRate of the stream in Hz.
	SampleRate uint32
	// Channels is the number of interleaved channels.
	Channels int
	// SampleFormat is the binary layout of each sample.
	SampleFormat RawSampleFormat
	// Endianness is the byte order of each sample.
	Endianness Endianness
	// StartOffset is the byte offset where sample data begins.
	StartOffset int64
	// MaxFrames caps the stream at this many frames (one frame is
	// Channels consecutive samples). Zero means no cap.
	MaxFrames uint64
}

// Maximum representable values for the 3-byte integer formats. The
// arithmetic type is 32 bits wide but only 24 bits carry sample data.
const (
	maxInt24  = 1<<23 - 1
	maxUint24 = 1<<24 - 1
)

// decodeRawSample reads exactly one sample from r and normalizes it.
// Unsigned integers map [0, MAX] onto [-1, 1] via v/MAX*2-1; signed
// integers divide by the maximum positive value; floats pass through
// (64-bit floats are narrowed). A read of zero bytes ends the stream
// with io.EOF; a short read is ErrIncompleteData.
func decodeRawSample(r io.Reader, format RawSampleFormat, end Endianness, scratch []byte) (Sample, error) {
	width := format.ByteWidth()
	buf := scratch[:width]

	if _, err := io.ReadFull(r, buf); err != nil {
		switch err {
		case io.EOF:
			return 0, io.EOF
		case io.ErrUnexpectedEOF:
			return 0, ErrIncompleteData
		default:
			return 0, fmt.Errorf("reading raw sample: %w", err)
		}
	}

	order := end.byteOrder()

	switch format {
	case RawFloat32:
		return Sample(math.Float32frombits(order.Uint32(buf))), nil
	case RawFloat64:
		return Sample(math.Float64frombits(order.Uint64(buf))), nil
	case RawUnsigned8:
		return unsignedToSample(uint64(buf[0]), math.MaxUint8), nil
	case RawSigned8:
		return signedToSample(int64(int8(buf[0])), math.MaxInt8), nil
	case RawUnsigned16:
		return unsignedToSample(uint64(order.Uint16(buf)), math.MaxUint16), nil
	case RawSigned16:
		return signedToSample(int64(int16(order.Uint16(buf))), math.MaxInt16), nil
	case RawUnsigned24:
		return unsignedToSample(uint64(decodeUint24(buf, end)), maxUint24), nil
	case RawSigned24:
		return signedToSample(int64(decodeInt24(buf, end)), maxInt24), nil
	case RawUnsigned32:
		return unsignedToSample(uint64(order.Uint32(buf)), math.MaxUint32), nil
	case RawSigned32:
		return signedToSample(int64(int32(order.Uint32(buf))), math.MaxInt32), nil
	case RawUnsigned64:
		return unsignedToSample(order.Uint64(buf), math.MaxUint64), nil
	case RawSigned64:
		return signedToSample(int64(order.Uint64(buf)), math.MaxInt64), nil
	default:
		return 0, newFormatError("raw", fmt.Sprintf("unknown sample format %d", format), nil)
	}
}

func unsignedToSample(v uint64, max float64) Sample {
	return Sample(float64(v)/max*2.0 - 1.0)
}

func signedToSample(v int64, maxPositive float64) Sample {
	return Sample(float64(v) / maxPositive)
}

// decodeUint24 widens 3 sample bytes into a 4-byte integer, zero-padding
// the byte position dictated by the requested endianness.
func decodeUint24(b []byte, end Endianness) uint32 {
	var quad [4]byte
	if end == BigEndian {
		copy(quad[1:], b[:3])
		return binary.BigEndian.Uint32(quad[:])
	}
	copy(quad[:3], b[:3])
	return binary.LittleEndian.Uint32(quad[:])
}

func decodeInt24(b []byte, end Endianness) int32 {
	// Sign-extend the 24-bit value through the 32-bit container.
	return int32(decodeUint24(b, end)<<8) >> 8
}

// rawDecoder drives the raw sample codec over a seekable byte source.
type rawDecoder struct {
	src  io.ReadSeeker
	spec RawAudioSpec
	info AudioInfo
}

// newRawDecoder seeks src to the spec's start offset. A seek failure is
// fatal at construction.
func newRawDecoder(src io.ReadSeeker, spec RawAudioSpec) (*rawDecoder, error) {
	if spec.Channels < 1 {
		return nil, newFormatError("raw", fmt.Sprintf("invalid channel count %d", spec.Channels), nil)
	}
	if spec.SampleFormat.ByteWidth() == 0 {
		return nil, newFormatError("raw", fmt.Sprintf("unknown sample format %d", spec.SampleFormat), nil)
	}

	if _, err := src.Seek(spec.StartOffset, io.SeekStart); err != nil {
		slog.Error("failed to seek to raw sample data", "offset", spec.StartOffset, "error", err)
		return nil, fmt.Errorf("seeking to sample data: %w", err)
	}

	slog.Debug("raw decoder opened",
		"sample_rate", spec.SampleRate,
		"channels", spec.Channels,
		"sample_format", spec.SampleFormat.String(),
		"endianness", spec.Endianness.String(),
		"start_offset", spec.StartOffset,
		"max_frames", spec.MaxFrames)

	return &rawDecoder{
		src:  src,
		spec: spec,
		info: AudioInfo{
			sampleRate: spec.SampleRate,
			channels:   spec.Channels,
			format:     FormatRaw,
		},
	}, nil
}

func (d *rawDecoder) Info() AudioInfo { return d.info }

func (d *rawDecoder) Samples() (sampleSource, error) {
	return &rawSampleSource{
		r:    bufio.NewReader(d.src),
		spec: d.spec,
	}, nil
}

type rawSampleSource struct {
	r       *bufio.Reader
	spec    RawAudioSpec
	scratch [8]byte
	emitted uint64
}

func (s *rawSampleSource) Next() (Sample, error) {
	if s.spec.MaxFrames > 0 && s.emitted >= s.spec.MaxFrames*uint64(s.spec.Channels) {
		return 0, io.EOF
	}

	sample, err := decodeRawSample(s.r, s.spec.SampleFormat, s.spec.Endianness, s.scratch[:])
	if err != nil {
		return 0, err
	}

	s.emitted++
	return sample, nil
}
