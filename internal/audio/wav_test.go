package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/spf13/afero"
)

// generateWAV builds a minimal valid RIFF/WAVE buffer around the given
// little-endian PCM payload.
func generateWAV(bitsPerSample, channels int, sampleRate uint32, pcm []byte) []byte {
	blockAlign := channels * bitsPerSample / 8
	byteRate := int(sampleRate) * blockAlign

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

func pcm16(values ...int16) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, values)
	return buf.Bytes()
}

func collectSamples(t *testing.T, it *SampleIterator) []Sample {
	t.Helper()
	var out []Sample
	for {
		sample, err := it.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error while collecting samples: %v", err)
		}
		out = append(out, sample)
	}
}

func TestWavDecoderInfo(t *testing.T) {
	data := generateWAV(16, 2, 44100, pcm16(1, 2, 3, 4))

	dec, err := FromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info := dec.Info()
	if info.Format() != FormatWav {
		t.Errorf("format = %v, expected WAV", info.Format())
	}
	if info.SampleRate() != 44100 {
		t.Errorf("sample rate = %d, expected 44100", info.SampleRate())
	}
	if info.Channels() != 2 {
		t.Errorf("channels = %d, expected 2", info.Channels())
	}
}

func TestWavDecoder16BitNormalization(t *testing.T) {
	values := []int16{0, math.MaxInt16, math.MinInt16, 16384}
	data := generateWAV(16, 1, 8000, pcm16(values...))

	dec, err := FromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	samples, err := dec.Samples()
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	got := collectSamples(t, samples)

	if len(got) != len(values) {
		t.Fatalf("read %d samples, expected %d", len(got), len(values))
	}
	for i, v := range values {
		expected := float64(v) / math.MaxInt16
		if math.Abs(float64(got[i])-expected) > 1e-6 {
			t.Errorf("sample %d = %v, expected %v", i, got[i], expected)
		}
	}
}

func TestWavDecoder8BitIsUnsigned(t *testing.T) {
	// 8-bit WAV stores unsigned bytes; 128 is silence.
	data := generateWAV(8, 1, 8000, []byte{128, 255, 0})

	dec, err := FromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	samples, err := dec.Samples()
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	got := collectSamples(t, samples)

	expected := []float64{0.0, 127.0 / 127.0, -128.0 / 127.0}
	if len(got) != len(expected) {
		t.Fatalf("read %d samples, expected %d", len(got), len(expected))
	}
	for i, want := range expected {
		if math.Abs(float64(got[i])-want) > 1e-6 {
			t.Errorf("sample %d = %v, expected %v", i, got[i], want)
		}
	}
}

func TestWavDecoderRejectsGarbage(t *testing.T) {
	_, err := newWavDecoder(bytes.NewReader([]byte("not a wav file at all")))
	if !isFormatError(err) {
		t.Errorf("expected format error for garbage input, got %v", err)
	}
}

func TestWavExtensionAndSniffAgree(t *testing.T) {
	data := generateWAV(16, 2, 22050, pcm16(100, -100, 2000, -2000, 300, -300))

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/sound.wav", data, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	byExt, err := OpenFs(fsys, "/sound.wav")
	if err != nil {
		t.Fatalf("OpenFs: %v", err)
	}
	bySniff, err := FromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("FromReader: %v", err)
	}

	if byExt.Info() != bySniff.Info() {
		t.Errorf("info mismatch: extension %+v, sniff %+v", byExt.Info(), bySniff.Info())
	}

	extIt, err := byExt.Samples()
	if err != nil {
		t.Fatalf("extension Samples: %v", err)
	}
	sniffIt, err := bySniff.Samples()
	if err != nil {
		t.Fatalf("sniff Samples: %v", err)
	}

	extSamples := collectSamples(t, extIt)
	sniffSamples := collectSamples(t, sniffIt)

	if len(extSamples) != len(sniffSamples) {
		t.Fatalf("sample count mismatch: extension %d, sniff %d", len(extSamples), len(sniffSamples))
	}
	for i := range extSamples {
		if extSamples[i] != sniffSamples[i] {
			t.Errorf("sample %d mismatch: extension %v, sniff %v", i, extSamples[i], sniffSamples[i])
		}
	}
}
