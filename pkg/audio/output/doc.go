// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface and device, file and null backends
// Package output provides audio playback sinks.
//
// Every backend implements Output. Write blocks until the backend has
// accepted the samples, which is what paces a producer feeding it.
//
// Backends:
//   - Oto: default, via github.com/ebitengine/oto/v3
//   - Malgo: miniaudio via github.com/gen2brain/malgo
//   - PortAudio: build with -tags portaudio
//   - WAV: 16-bit PCM capture file
//   - Null: discards samples, paced at the sample rate
//
// Example:
//
//	out := output.NewOto()
//	err := out.Open(44100, 2, 16)
//	err = out.Play()
//	err = out.Write(samples)
package output
