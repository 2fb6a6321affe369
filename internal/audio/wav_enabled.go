//go:build !no_wav

package audio

func init() {
	registerBackend(featureWav, newWavDecoder)
}
