// ABOUTME: Calming audio engine package
// ABOUTME: Streams synthesized audio to an output with a pause-aware lifecycle
// Package calmtv streams the calming soundscape to an audio output.
//
// An Engine owns one synthesizer and one output. Start opens the output
// and launches the streaming goroutine, which fills a reused buffer
// frame by frame and writes it to the output. Writes block, so the
// output's consumption rate paces generation.
//
// Example:
//
//	engine, err := calmtv.NewEngine(calmtv.Config{}, output.NewOto())
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := engine.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Release()
//
// Pause and Resume follow the host's visibility. The synthesis clock,
// the melody position and the noise filter survive a pause, so audio
// resumes where it stopped.
package calmtv
