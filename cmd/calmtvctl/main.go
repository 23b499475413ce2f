// ABOUTME: Command line control for CalmTV players
// ABOUTME: Discovers a player and sends pause, resume and status requests
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calmtv/calmtv-go/internal/client"
	"github.com/calmtv/calmtv-go/internal/discovery"
	"github.com/calmtv/calmtv-go/internal/protocol"
)

var (
	addr    = flag.String("addr", "", "Player address host:port (default: discover via mDNS)")
	name    = flag.String("name", "", "Discovered player name to control (default: first found)")
	timeout = flag.Duration("timeout", 3*time.Second, "Discovery and request timeout")
	verbose = flag.Bool("v", false, "Log connection details to stderr")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: calmtvctl [flags] <pause|resume|toggle|status|watch|discover>\n\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "calmtvctl: %v\n", err)
		os.Exit(1)
	}
}

func run(command string) error {
	if command == "discover" {
		players, err := discovery.Lookup(*timeout)
		if err != nil {
			return err
		}
		for _, p := range players {
			fmt.Printf("%s\t%s%s\t%s\n", p.Name, p.Addr(), p.Path, p.Version)
		}
		return nil
	}

	target, path, err := resolve()
	if err != nil {
		return err
	}

	c := client.NewClient(client.Config{
		ServerAddr: target,
		Path:       path,
		ClientID:   uuid.New().String(),
		Timeout:    *timeout,
	})
	if err := c.Connect(); err != nil {
		return err
	}
	defer c.Close()

	var status protocol.EngineStatus
	switch command {
	case "pause":
		status, err = c.Pause()
	case "resume":
		status, err = c.Resume()
	case "toggle":
		status, err = toggle(c)
	case "status":
		status, err = c.Status()
	case "watch":
		return c.Watch(func(s protocol.EngineStatus) bool {
			printStatus(c.Server().Name, s)
			return true
		})
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}

	printStatus(c.Server().Name, status)
	return nil
}

func toggle(c *client.Client) (protocol.EngineStatus, error) {
	status, err := c.Status()
	if err != nil {
		return status, err
	}
	if status.State == "paused" {
		return c.Resume()
	}
	return c.Pause()
}

// resolve picks the player address from -addr or mDNS
func resolve() (string, string, error) {
	if *addr != "" {
		return *addr, "", nil
	}

	players, err := discovery.Lookup(*timeout)
	if err != nil {
		return "", "", err
	}

	p := choosePlayer(players, *name)
	if p == nil {
		if *name != "" {
			return "", "", fmt.Errorf("player %q not found", *name)
		}
		return "", "", errors.New("no players found (use -addr)")
	}
	return p.Addr(), p.Path, nil
}

func choosePlayer(players []*discovery.ServerInfo, name string) *discovery.ServerInfo {
	for _, p := range players {
		if name == "" || strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

func printStatus(player string, s protocol.EngineStatus) {
	fmt.Println(formatStatus(player, s))
}

func formatStatus(player string, s protocol.EngineStatus) string {
	line := fmt.Sprintf("%s: %s  clock %s  note %d (%.1fs)",
		player, s.State, time.Duration(s.Seconds*float64(time.Second)).Round(time.Second), s.NoteIndex+1, s.NoteElapsed)
	if s.WriteFailures > 0 {
		line += fmt.Sprintf("  %d write failures", s.WriteFailures)
	}
	return line
}
