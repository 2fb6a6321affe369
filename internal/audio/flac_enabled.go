//go:build !no_flac

package audio

func init() {
	registerBackend(featureFlac, newFlacDecoder)
}
