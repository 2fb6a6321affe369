package cli

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"decant.audio/internal/audio"
	"github.com/spf13/cobra"
)

// dumpOptions collects the dump command's flag values
type dumpOptions struct {
	output    string
	sniff     bool
	raw       bool
	rate      uint32
	channels  int
	format    string
	endian    string
	offset    int64
	maxFrames uint64
}

// newDumpCommand creates the dump subcommand
func newDumpCommand(cli *CLI) *cobra.Command {
	opts := &dumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Decode an audio file to raw float32 samples",
		Long: "Dump decodes an audio file and writes the normalized samples as " +
			"interleaved little-endian 32-bit floats, suitable for piping into " +
			"tools like ffplay or sox.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.configureFromCommand(cmd)
			if err != nil {
				return err
			}
			// Config may set the raw sample format; an explicit flag wins
			if !cmd.Flags().Changed("format") && cfg.DefaultDumpFormat != "" {
				opts.format = cfg.DefaultDumpFormat
			}
			return runDump(cmd, cli, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&opts.sniff, "sniff", false, "Identify the format by content instead of file extension")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Treat the input as headerless PCM")
	cmd.Flags().Uint32Var(&opts.rate, "rate", 44100, "Sample rate of raw input in Hz")
	cmd.Flags().IntVar(&opts.channels, "channels", 2, "Channel count of raw input")
	cmd.Flags().StringVar(&opts.format, "format", "s16", "Sample format of raw input (f32, f64, u8, s8, u16, s16, u24, s24, u32, s32, u64, s64)")
	cmd.Flags().StringVar(&opts.endian, "endian", "little", "Byte order of raw input (little, big)")
	cmd.Flags().Int64Var(&opts.offset, "offset", 0, "Bytes to skip before the first raw sample")
	cmd.Flags().Uint64Var(&opts.maxFrames, "max-frames", 0, "Maximum raw frames to decode (0 = unlimited)")

	return cmd
}

func runDump(cmd *cobra.Command, cli *CLI, path string, opts *dumpOptions) error {
	slog.Debug("dump command started",
		"path", path,
		"output", opts.output,
		"raw", opts.raw,
		"sniff", opts.sniff)

	var dec *audio.Decoder
	var err error
	if opts.raw {
		var spec audio.RawAudioSpec
		spec, err = buildRawSpec(opts)
		if err != nil {
			return err
		}
		dec, err = audio.OpenRawFs(cli.fsFactory.Production(), path, spec)
	} else {
		dec, err = cli.openForCommand(path, opts.sniff)
	}
	if err != nil {
		slog.Error("failed to open audio file", "path", path, "error", err)
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer dec.Close()

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, createErr := cli.fsFactory.Production().Create(opts.output)
		if createErr != nil {
			slog.Error("failed to create output file", "path", opts.output, "error", createErr)
			return fmt.Errorf("failed to create %s: %w", opts.output, createErr)
		}
		defer f.Close()
		out = f
	}

	written, err := writeSamples(out, dec)
	if err != nil {
		slog.Error("decode failed", "path", path, "samples_written", written, "error", err)
		return fmt.Errorf("decode failed after %d samples: %w", written, err)
	}

	slog.Info("dump command completed",
		"path", path,
		"samples_written", written,
		"format", dec.Info().Format().String())

	return nil
}

// writeSamples drains the decoder into w as little-endian float32 values
func writeSamples(w io.Writer, dec *audio.Decoder) (uint64, error) {
	samples, err := dec.Samples()
	if err != nil {
		return 0, err
	}
	defer samples.Close()

	buffered := bufio.NewWriter(w)
	var quad [4]byte
	var written uint64

	for {
		sample, err := samples.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, err
		}

		binary.LittleEndian.PutUint32(quad[:], math.Float32bits(sample))
		if _, err := buffered.Write(quad[:]); err != nil {
			return written, fmt.Errorf("failed to write sample: %w", err)
		}
		written++
	}

	if err := buffered.Flush(); err != nil {
		return written, fmt.Errorf("failed to flush output: %w", err)
	}
	return written, nil
}

// buildRawSpec converts the raw-mode flags into a RawAudioSpec
func buildRawSpec(opts *dumpOptions) (audio.RawAudioSpec, error) {
	format, err := parseRawFormat(opts.format)
	if err != nil {
		return audio.RawAudioSpec{}, err
	}

	endianness, err := parseEndianness(opts.endian)
	if err != nil {
		return audio.RawAudioSpec{}, err
	}

	if opts.offset < 0 {
		return audio.RawAudioSpec{}, fmt.Errorf("offset must be >= 0, got %d", opts.offset)
	}

	return audio.RawAudioSpec{
		SampleRate:   opts.rate,
		Channels:     opts.channels,
		SampleFormat: format,
		Endianness:   endianness,
		StartOffset:  opts.offset,
		MaxFrames:    opts.maxFrames,
	}, nil
}

// parseRawFormat maps a format flag value to a RawSampleFormat
func parseRawFormat(name string) (audio.RawSampleFormat, error) {
	formats := map[string]audio.RawSampleFormat{
		"f32": audio.RawFloat32,
		"f64": audio.RawFloat64,
		"u8":  audio.RawUnsigned8,
		"s8":  audio.RawSigned8,
		"u16": audio.RawUnsigned16,
		"s16": audio.RawSigned16,
		"u24": audio.RawUnsigned24,
		"s24": audio.RawSigned24,
		"u32": audio.RawUnsigned32,
		"s32": audio.RawSigned32,
		"u64": audio.RawUnsigned64,
		"s64": audio.RawSigned64,
	}

	format, ok := formats[name]
	if !ok {
		return 0, fmt.Errorf("unknown sample format %q", name)
	}
	return format, nil
}

// parseEndianness maps an endian flag value to an Endianness
func parseEndianness(name string) (audio.Endianness, error) {
	switch name {
	case "little", "le":
		return audio.LittleEndian, nil
	case "big", "be":
		return audio.BigEndian, nil
	default:
		return 0, fmt.Errorf("unknown byte order %q", name)
	}
}
