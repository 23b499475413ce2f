// ABOUTME: Offline renderer for the calming soundscape
// ABOUTME: Writes a fixed duration of the synthesized stream to a WAV file
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/calmtv/calmtv-go/pkg/audio/output"
	"github.com/calmtv/calmtv-go/pkg/calmtv"
	"github.com/calmtv/calmtv-go/pkg/synth"
)

var (
	outFile      = flag.String("out", "calmtv.wav", "Output WAV file")
	duration     = flag.Duration("duration", time.Minute, "Length of audio to render")
	sampleRate   = flag.Int("sample-rate", synth.DefaultSampleRate, "Sample rate in Hz")
	seed         = flag.Uint64("seed", 1, "Noise seed (0 = random)")
	bufferFrames = flag.Int("buffer-frames", calmtv.DefaultBufferFrames, "Frames per write")
)

func main() {
	flag.Parse()

	var noise synth.Uniform
	if *seed != 0 {
		noise = synth.NewSource(*seed)
	}

	s, err := synth.New(synth.Config{SampleRate: *sampleRate}, noise)
	if err != nil {
		log.Fatalf("Invalid synth config: %v", err)
	}

	frames := int(duration.Seconds() * float64(s.Config().SampleRate))
	log.Printf("Rendering %v (%d frames at %dHz) to %s", *duration, frames, s.Config().SampleRate, *outFile)

	start := time.Now()
	out := output.NewWAV(*outFile, false)
	if err := render(out, s, frames, *bufferFrames); err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}

	log.Printf("Done in %v", time.Since(start).Round(time.Millisecond))
}

// render writes frames of stereo audio from s to out, then closes out
func render(out output.Output, s *synth.Synthesizer, frames, bufferFrames int) (err error) {
	if bufferFrames <= 0 {
		return fmt.Errorf("buffer frames must be positive, got %d", bufferFrames)
	}

	if err := out.Open(s.Config().SampleRate, calmtv.Channels, calmtv.BitDepth); err != nil {
		return fmt.Errorf("failed to open output: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := out.Play(); err != nil {
		return fmt.Errorf("failed to start output: %w", err)
	}

	buf := make([]int16, bufferFrames*calmtv.Channels)
	for remaining := frames; remaining > 0; {
		n := min(remaining, bufferFrames)
		chunk := buf[:n*calmtv.Channels]

		s.Fill(chunk, calmtv.Channels)
		if err := out.Write(chunk); err != nil {
			return fmt.Errorf("write failed at frame %d: %w", frames-remaining, err)
		}
		remaining -= n
	}

	return nil
}
