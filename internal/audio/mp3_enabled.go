//go:build !no_mp3

package audio

func init() {
	registerBackend(featureMp3, newMp3Decoder)
}
