// Package audio is a unifying decode layer: it turns WAV, Ogg Vorbis,
// MP3, FLAC, AIFF, and raw PCM byte sources into one canonical lazy
// stream of interleaved float32 samples normalized to [-1.0, 1.0].
//
// The container and codec bitstream work is delegated to collaborator
// libraries; this package owns format dispatch, stream-parameter
// snapshots, and sample normalization.
package audio

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Decoder is an opened audio stream. It owns exactly one byte source and
// one backend parser state, and is not safe for concurrent use. Samples
// consumes it: the byte source moves into the returned iterator and the
// Decoder cannot be reused afterwards.
type Decoder struct {
	backend  formatDecoder
	closer   io.Closer
	consumed bool
}

// Open opens the audio file at path, picking the decode backend from the
// file extension. Recognized extensions are .wav/.wave, .ogg, .mp3,
// .flac, and .aiff/.aif.
func Open(path string) (*Decoder, error) {
	return OpenFs(afero.NewOsFs(), path)
}

// OpenFs is Open against an explicit filesystem.
func OpenFs(fsys afero.Fs, path string) (*Decoder, error) {
	slog.Debug("opening audio file by extension", "path", path)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		slog.Debug("path has no extension", "path", path)
		return nil, ErrNoExtension
	}

	feature, known := knownExtensions[ext]
	if !known {
		slog.Debug("extension not recognized", "extension", ext)
		return nil, &UnsupportedExtensionError{Extension: ext}
	}

	entry, enabled := backends[feature]
	if !enabled {
		slog.Debug("backend not compiled in", "extension", ext, "feature", feature)
		return nil, &DisabledExtensionError{Extension: ext, Feature: feature}
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	backend, err := entry.open(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	info := backend.Info()
	slog.Info("audio file opened",
		"path", path,
		"format", info.Format().String(),
		"sample_rate", info.SampleRate(),
		"channels", info.Channels())

	return &Decoder{backend: backend, closer: f}, nil
}

// OpenRaw opens the file at path as unheadered sample data described by
// spec.
func OpenRaw(path string, spec RawAudioSpec) (*Decoder, error) {
	return OpenRawFs(afero.NewOsFs(), path, spec)
}

// OpenRawFs is OpenRaw against an explicit filesystem.
func OpenRawFs(fsys afero.Fs, path string, spec RawAudioSpec) (*Decoder, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	backend, err := newRawDecoder(f, spec)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Decoder{backend: backend, closer: f}, nil
}

// RawFromReader decodes unheadered sample data from a generic seekable
// source. If src is also an io.Closer, the decoder takes ownership of it.
func RawFromReader(src io.ReadSeeker, spec RawAudioSpec) (*Decoder, error) {
	backend, err := newRawDecoder(src, spec)
	if err != nil {
		return nil, err
	}

	closer, _ := src.(io.Closer)
	return &Decoder{backend: backend, closer: closer}, nil
}

// Info returns the stream parameter snapshot captured at open time.
func (d *Decoder) Info() AudioInfo {
	return d.backend.Info()
}

// Samples consumes the decoder and returns the one-shot sample iterator.
// Ownership of the byte source moves into the iterator; the decoder and
// the iterator are never both usable.
func (d *Decoder) Samples() (*SampleIterator, error) {
	if d.consumed {
		return nil, ErrDecoderConsumed
	}
	d.consumed = true

	src, err := d.backend.Samples()
	if err != nil {
		if cerr := d.closeSource(); cerr != nil {
			slog.Warn("failed to close source after sample setup failure", "error", cerr)
		}
		return nil, err
	}

	closer := d.closer
	d.closer = nil
	return newSampleIterator(src, closer), nil
}

// Close releases the byte source if it has not already been handed to a
// sample iterator.
func (d *Decoder) Close() error {
	d.consumed = true
	return d.closeSource()
}

func (d *Decoder) closeSource() error {
	if d.closer == nil {
		return nil
	}
	closer := d.closer
	d.closer = nil
	return closer.Close()
}
