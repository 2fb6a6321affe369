package audio

import (
	"bytes"
	"math"
	"testing"
)

func TestFlacDecoderRejectsGarbage(t *testing.T) {
	_, err := newFlacDecoder(bytes.NewReader([]byte("fLaC is spelled differently")))
	if !isFormatError(err) {
		t.Errorf("expected format error for garbage input, got %v", err)
	}
}

func TestFlacMaxSamplePerBitDepth(t *testing.T) {
	// The normalization divisor is derived from the declared bits per
	// sample, not a fixed constant.
	cases := []struct {
		bits     uint
		expected float64
	}{
		{8, 127},
		{16, 32767},
		{24, 8388607},
		{32, math.MaxInt32},
	}

	for _, tc := range cases {
		got := float64(int32(math.MaxInt32) >> (32 - tc.bits))
		if got != tc.expected {
			t.Errorf("bits=%d: max = %v, expected %v", tc.bits, got, tc.expected)
		}
	}
}
