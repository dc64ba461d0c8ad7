// Package player hands a format URL to an external media player.
// Players are launched with explicit argument slices; nothing goes through a shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Names lists the supported players.
var Names = []string{"mpv", "vlc", "iina", "celluloid"}

// Player launches a media player binary.
type Player struct {
	name string
	args func(url, title string) []string
}

// New creates a player by name.
func New(name string) (*Player, error) {
	switch strings.ToLower(name) {
	case "mpv", "iina", "celluloid":
		// iina and celluloid accept mpv-style flags
		return &Player{name: strings.ToLower(name), args: mpvArgs}, nil
	case "vlc":
		return &Player{name: "vlc", args: vlcArgs}, nil
	default:
		return nil, fmt.Errorf("unsupported player %q (valid: %s)", name, strings.Join(Names, ", "))
	}
}

// Name returns the player binary name.
func (p *Player) Name() string { return p.name }

// Available checks if the player binary exists in PATH.
func (p *Player) Available() bool {
	_, err := exec.LookPath(p.name)
	return err == nil
}

// Args returns the command line used to play url under title.
func (p *Player) Args(url, title string) []string {
	return p.args(url, title)
}

// Play runs the player and waits for it to exit. Quitting the player, which
// several of them report with a non-zero status, is not an error.
func (p *Player) Play(ctx context.Context, url, title string) error {
	path, err := exec.LookPath(p.name)
	if err != nil {
		return fmt.Errorf("%s not found in PATH: %w", p.name, err)
	}

	cmd := exec.CommandContext(ctx, path, p.Args(url, title)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", p.name, err)
	}
	return nil
}

func mpvArgs(url, title string) []string {
	return []string{url, "--force-media-title=" + title, "--really-quiet"}
}

func vlcArgs(url, title string) []string {
	return []string{url, "--meta-title", title, "--play-and-exit"}
}
