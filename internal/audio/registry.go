package audio

import (
	"io"
	"log/slog"
	"sort"
)

// formatDecoder is the capability set every backend adapter implements:
// report the stream parameters captured at open time, and hand over a
// pull-based sample source. Obtaining the sample source consumes the
// adapter's claim on the byte source.
type formatDecoder interface {
	Info() AudioInfo
	Samples() (sampleSource, error)
}

// openFunc parses just enough header/metadata from src to report stream
// parameters, without consuming sample data. An invalid bitstream for the
// backend must surface as a *FormatError so sniffing can classify it as a
// negative identification.
type openFunc func(src io.ReadSeeker) (formatDecoder, error)

// backendEntry describes one compiled-in decode backend. The stream's
// AudioFormat is reported by the opened adapter itself, via Info.
type backendEntry struct {
	feature string
	open    openFunc
}

// knownExtensions maps recognized file extensions to the feature that
// serves them. The table deliberately lives outside the build-tag-gated
// registration files: an extension whose backend is compiled out must
// still be recognized so dispatch can fail with DisabledExtensionError
// instead of UnsupportedExtensionError.
var knownExtensions = map[string]string{
	"wav":  featureWav,
	"wave": featureWav,
	"ogg":  featureVorbis,
	"mp3":  featureMp3,
	"flac": featureFlac,
	"aiff": featureAiff,
	"aif":  featureAiff,
}

// Feature names for the toggleable backends. Building with tag
// "no_<feature>" removes that backend from the binary.
const (
	featureWav    = "wav"
	featureVorbis = "vorbis"
	featureMp3    = "mp3"
	featureFlac   = "flac"
	featureAiff   = "aiff"
)

// sniffOrder is the fixed trial order for content sniffing. Backends that
// are compiled out are skipped.
var sniffOrder = []string{featureFlac, featureMp3, featureVorbis, featureWav, featureAiff}

// backends holds the registered backend per feature name. Registration
// happens in init functions of the per-backend *_enabled.go files, so the
// map is effectively read-only afterwards.
var backends = map[string]backendEntry{}

func registerBackend(feature string, open openFunc) {
	backends[feature] = backendEntry{feature: feature, open: open}
}

// EnabledFeatures returns the feature names of all compiled-in backends,
// sorted for stable output.
func EnabledFeatures() []string {
	features := make([]string, 0, len(backends))
	for feature := range backends {
		features = append(features, feature)
	}
	sort.Strings(features)

	slog.Debug("enumerated enabled backends", "features", features)
	return features
}
