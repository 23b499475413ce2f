// ABOUTME: Audio encoding package
// ABOUTME: Encodes PCM samples for byte-stream audio backends
// Package encode converts int16 PCM samples into the byte layouts that
// byte-stream output backends consume.
//
// Example:
//
//	enc, err := encode.NewPCM(audio.DefaultFormat)
//	data, err := enc.Encode(samples) // little-endian 16-bit
package encode
