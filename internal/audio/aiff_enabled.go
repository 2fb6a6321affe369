//go:build !no_aiff

package audio

func init() {
	registerBackend(featureAiff, newAiffDecoder)
}
