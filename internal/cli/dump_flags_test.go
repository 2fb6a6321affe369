package cli

import (
	"testing"

	"decant.audio/internal/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRawSpec(t *testing.T) {
	opts := &dumpOptions{
		rate:      48000,
		channels:  2,
		format:    "s24",
		endian:    "big",
		offset:    44,
		maxFrames: 1000,
	}

	spec, err := buildRawSpec(opts)
	require.NoError(t, err)

	assert.Equal(t, uint32(48000), spec.SampleRate)
	assert.Equal(t, 2, spec.Channels)
	assert.Equal(t, audio.RawSigned24, spec.SampleFormat)
	assert.Equal(t, audio.BigEndian, spec.Endianness)
	assert.Equal(t, int64(44), spec.StartOffset)
	assert.Equal(t, uint64(1000), spec.MaxFrames)
}

func TestBuildRawSpecDefaults(t *testing.T) {
	opts := &dumpOptions{
		rate:     44100,
		channels: 2,
		format:   "s16",
		endian:   "little",
	}

	spec, err := buildRawSpec(opts)
	require.NoError(t, err)

	assert.Equal(t, audio.RawSigned16, spec.SampleFormat)
	assert.Equal(t, audio.LittleEndian, spec.Endianness)
	assert.Zero(t, spec.StartOffset)
	assert.Zero(t, spec.MaxFrames, "max frames should default to unlimited")
}

func TestBuildRawSpecRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		opts *dumpOptions
	}{
		{"unknown format", &dumpOptions{rate: 44100, channels: 2, format: "dsd", endian: "little"}},
		{"unknown endianness", &dumpOptions{rate: 44100, channels: 2, format: "s16", endian: "network"}},
		{"negative offset", &dumpOptions{rate: 44100, channels: 2, format: "s16", endian: "little", offset: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := buildRawSpec(tc.opts)
			assert.Error(t, err)
		})
	}
}
