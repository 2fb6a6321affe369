//go:build !no_vorbis

package audio

func init() {
	registerBackend(featureVorbis, newVorbisDecoder)
}
