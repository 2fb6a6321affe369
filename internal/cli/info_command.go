package cli

import (
	"fmt"
	"log/slog"

	"decant.audio/internal/audio"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
)

// newInfoCommand creates the info subcommand
func newInfoCommand(cli *CLI) *cobra.Command {
	var sniff bool

	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Show stream parameters of an audio file",
		Long:  "Info opens an audio file and reports its container format, channel count, sample rate and detected MIME type.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cli.configureFromCommand(cmd); err != nil {
				return err
			}
			return runInfo(cmd, cli, args[0], sniff)
		},
	}

	cmd.Flags().BoolVar(&sniff, "sniff", false, "Identify the format by content instead of file extension")

	return cmd
}

func runInfo(cmd *cobra.Command, cli *CLI, path string, sniff bool) error {
	slog.Debug("info command started", "path", path, "sniff", sniff)

	dec, err := cli.openForCommand(path, sniff)
	if err != nil {
		slog.Error("failed to open audio file", "path", path, "error", err)
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer dec.Close()

	info := dec.Info()

	// MIME detection is advisory; the decoder has already identified
	// the stream, so a detection failure is not fatal.
	mimeLabel := "unknown"
	if mtype, mimeErr := mimetype.DetectFile(path); mimeErr == nil {
		mimeLabel = mtype.String()
	} else {
		slog.Warn("MIME detection failed", "path", path, "error", mimeErr)
	}

	cmd.Printf("File:        %s\n", path)
	cmd.Printf("MIME:        %s\n", mimeLabel)
	cmd.Printf("Format:      %s\n", info.Format())
	cmd.Printf("Channels:    %d\n", info.Channels())
	cmd.Printf("Sample rate: %d Hz\n", info.SampleRate())

	slog.Info("info command completed",
		"path", path,
		"format", info.Format().String(),
		"channels", info.Channels(),
		"sample_rate", info.SampleRate())

	return nil
}

// openForCommand opens a decoder by extension, or by content when sniffing
func (c *CLI) openForCommand(path string, sniff bool) (*audio.Decoder, error) {
	fsys := c.fsFactory.Production()

	if !sniff {
		return audio.OpenFs(fsys, path)
	}

	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := audio.FromReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return dec, nil
}
