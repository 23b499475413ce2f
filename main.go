// ABOUTME: Entry point for the CalmTV player
// ABOUTME: Parses CLI flags, starts the audio engine and its lifecycle drivers
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/calmtv/calmtv-go/internal/control"
	"github.com/calmtv/calmtv-go/internal/discovery"
	"github.com/calmtv/calmtv-go/internal/protocol"
	"github.com/calmtv/calmtv-go/internal/ui"
	"github.com/calmtv/calmtv-go/internal/version"
	"github.com/calmtv/calmtv-go/pkg/audio/output"
	"github.com/calmtv/calmtv-go/pkg/calmtv"
	"github.com/calmtv/calmtv-go/pkg/synth"
)

var (
	sinkName     = flag.String("sink", "oto", fmt.Sprintf("Audio output backend %v", output.Backends()))
	wavFile      = flag.String("wav-file", "calmtv.wav", "Capture file for -sink wav")
	realtime     = flag.Bool("realtime", true, "Pace -sink wav at the sample rate")
	bufferFrames = flag.Int("buffer-frames", calmtv.DefaultBufferFrames, "Frames generated per output write")
	seed         = flag.Uint64("seed", 0, "Noise seed (0 = random)")
	port         = flag.Int("port", 8928, "Control channel port (0 disables the control channel)")
	name         = flag.String("name", "", "Player friendly name (default: hostname-calmtv)")
	noMDNS       = flag.Bool("no-mdns", false, "Do not advertise the control channel via mDNS")
	logFile      = flag.String("log-file", "calmtv.log", "Log file path")
	noTUI        = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs   = flag.Bool("stream-logs", false, "Alias for -no-tui")
	debug        = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	// The TUI needs a terminal; services and pipes get streaming logs
	useTUI := !(*noTUI || *streamLogs) && term.IsTerminal(int(os.Stdout.Fd()))

	// Set up logging
	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	// Determine player name
	playerName := *name
	if playerName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		playerName = fmt.Sprintf("%s-calmtv", hostname)
	}
	instanceID := uuid.New().String()

	log.Printf("Starting %s %s: %s (ID: %s)", version.Product, version.Version, playerName, instanceID)

	sink, err := output.New(*sinkName, output.Options{
		WAVPath:  *wavFile,
		Realtime: *realtime,
	})
	if err != nil {
		log.Fatalf("Invalid output: %v", err)
	}

	var noise synth.Uniform
	if *seed != 0 {
		noise = synth.NewSource(*seed)
	}

	var (
		ctrlServer *control.Server
		tui        *ui.TUI
		lastError  atomic.Value
	)

	engine, err := calmtv.NewEngine(calmtv.Config{
		BufferFrames: *bufferFrames,
		Noise:        noise,
		Debug:        *debug,
		OnStateChange: func(state calmtv.State) {
			log.Printf("Engine state: %s", state)
			if ctrlServer != nil {
				ctrlServer.BroadcastStatus()
			}
		},
		OnError: func(err error) {
			lastError.Store(err.Error())
		},
	}, sink)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	if err := engine.Start(); err != nil {
		log.Fatalf("Failed to start audio: %v", err)
	}

	// Control channel and its advertisement
	var mdnsManager *discovery.Manager
	if *port > 0 {
		ctrlServer = control.New(control.Config{
			Port:       *port,
			Name:       playerName,
			SampleRate: engine.Config().Synth.SampleRate,
			DeviceInfo: protocol.DeviceInfo{
				ProductName:     version.Product,
				Manufacturer:    version.Manufacturer,
				SoftwareVersion: version.Version,
			},
			Debug: *debug,
		}, engine)

		if err := ctrlServer.Start(); err != nil {
			log.Printf("Control channel disabled: %v", err)
			ctrlServer = nil
		} else if !*noMDNS {
			mdnsManager = discovery.NewManager(discovery.Config{
				ServiceName: playerName,
				Port:        ctrlServer.Port(),
				Path:        control.Path,
				ID:          instanceID,
				Version:     version.Version,
			})
			if err := mdnsManager.Advertise(); err != nil {
				log.Printf("Failed to start mDNS advertisement: %v", err)
				mdnsManager = nil
			}
		}
	}

	// TUI setup
	var lifecycle *ui.LifecycleControl
	tuiDone := make(chan struct{})

	if useTUI {
		controlPort := 0
		if ctrlServer != nil {
			controlPort = ctrlServer.Port()
		}

		lifecycle = ui.NewLifecycleControl()
		tui = ui.New(ui.Config{
			Name:        playerName,
			Sink:        *sinkName,
			ControlPort: controlPort,
		}, lifecycle)

		go func() {
			defer close(tuiDone)
			if err := tui.Run(); err != nil {
				log.Printf("TUI error: %v", err)
			}
		}()

		stopStats := make(chan struct{})
		defer close(stopStats)
		go statsUpdateLoop(engine, ctrlServer, &lastError, tui.Update, stopStats)
	}

	// Handle shutdown and visibility signals
	sigChan := make(chan os.Signal, 1)
	notifySignals(sigChan)

	var toggle, quit <-chan struct{}
	if lifecycle != nil {
		toggle = lifecycle.Toggle
		quit = lifecycle.Quit
	}

wait:
	for {
		select {
		case <-toggle:
			togglePause(engine)
		case <-quit:
			log.Printf("Received quit signal from TUI")
			break wait
		case <-tuiDone:
			break wait
		case sig := <-sigChan:
			switch {
			case sig == pauseSignal:
				// Display hidden
				if err := engine.Pause(); err != nil {
					log.Printf("Pause failed: %v", err)
				}
			case sig == resumeSignal:
				// Display visible again
				if err := engine.Resume(); err != nil {
					log.Printf("Resume failed: %v", err)
				}
			default:
				log.Printf("Shutdown signal received")
				break wait
			}
		}
	}

	if tui != nil {
		tui.Stop()
		<-tuiDone
	}
	if mdnsManager != nil {
		mdnsManager.Stop()
	}
	if ctrlServer != nil {
		ctrlServer.Stop()
	}

	if err := engine.Release(); err != nil {
		log.Printf("Error releasing engine: %v", err)
	}

	log.Printf("Player stopped")
}

// togglePause flips between paused and running
func togglePause(engine *calmtv.Engine) {
	var err error
	if engine.State() == calmtv.StatePaused {
		err = engine.Resume()
	} else {
		err = engine.Pause()
	}
	if err != nil {
		log.Printf("Toggle failed: %v", err)
	}
}

// statsUpdateLoop periodically updates TUI with engine statistics
func statsUpdateLoop(engine *calmtv.Engine, ctrlServer *control.Server, lastError *atomic.Value, update func(ui.StatusMsg), stop <-chan struct{}) {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	// Use a slower ticker for expensive runtime stats to avoid GC pauses
	runtimeStatsTicker := time.NewTicker(2 * time.Second)
	defer runtimeStatsTicker.Stop()

	config := engine.Config().Synth
	noteDuration := config.NoteDuration.Seconds()

	var lastGoroutines int
	var lastMemAlloc uint64

	for {
		select {
		case <-stop:
			return

		case <-runtimeStatsTicker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			lastGoroutines = runtime.NumGoroutine()
			lastMemAlloc = m.Alloc

		case <-ticker.C:
			stats := engine.Stats()

			clients := 0
			if ctrlServer != nil {
				clients = ctrlServer.ClientCount()
			}
			errText, _ := lastError.Load().(string)

			update(ui.StatusMsg{
				State:         stats.State.String(),
				SampleRate:    config.SampleRate,
				Seconds:       stats.Seconds,
				NoteIndex:     stats.NoteIndex,
				NoteFrequency: config.MelodyScale[stats.NoteIndex],
				NoteElapsed:   stats.NoteElapsed,
				NoteDuration:  noteDuration,
				Buffers:       stats.BuffersWritten,
				WriteFailures: stats.WriteFailures,
				Clients:       clients,
				LastError:     errText,
				Goroutines:    lastGoroutines,
				MemAlloc:      lastMemAlloc,
			})
		}
	}
}
