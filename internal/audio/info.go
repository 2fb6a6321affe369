package audio

// Sample is a single normalized amplitude value. All backends scale their
// native sample width so the representable range maps to [-1.0, 1.0].
type Sample = float32

// AudioFormat identifies the container/codec an audio stream was decoded from.
type AudioFormat int

const (
	// FormatWav is the WAV container format.
	FormatWav AudioFormat = iota
	// FormatVorbis is the Ogg Vorbis format.
	FormatVorbis
	// FormatMp3 is the MPEG Layer 3 format.
	FormatMp3
	// FormatFlac is the FLAC format.
	FormatFlac
	// FormatAiff is the AIFF container format.
	FormatAiff
	// FormatRaw is unheadered raw sample data.
	FormatRaw
)

// String returns the display name of the format.
func (f AudioFormat) String() string {
	switch f {
	case FormatWav:
		return "WAV"
	case FormatVorbis:
		return "Vorbis"
	case FormatMp3:
		return "MP3"
	case FormatFlac:
		return "FLAC"
	case FormatAiff:
		return "AIFF"
	case FormatRaw:
		return "Raw"
	default:
		return "unknown"
	}
}

// AudioInfo is an immutable snapshot of an opened stream's parameters.
// It is produced once when a decoder is opened and copied by value.
type AudioInfo struct {
	sampleRate uint32
	channels   int
	format     AudioFormat
}

// SampleRate returns the sample rate of the audio in Hz.
func (i AudioInfo) SampleRate() uint32 { return i.sampleRate }

// Channels returns the number of interleaved channels in the audio.
func (i AudioInfo) Channels() int { return i.channels }

// Format returns the detected format of the audio.
func (i AudioInfo) Format() AudioFormat { return i.format }
