package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// ErrUnavailable reports that no clipboard tool can be used on this system.
var ErrUnavailable = errors.New("no clipboard tool available")

type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// System writes to the desktop clipboard through wl-copy (Wayland) or
// xclip (X11).
type System struct {
	lookPath func(string) (string, error)
	getenv   func(string) string
	command  commandFunc
}

func NewSystem() *System {
	return &System{
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
		command:  exec.CommandContext,
	}
}

// Write pipes data to the clipboard tool under mimeType.
func (s *System) Write(ctx context.Context, mimeType string, data []byte) error {
	name, args, err := s.tool(mimeType)
	if err != nil {
		return err
	}

	cmd := s.command(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(data)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (s *System) tool(mimeType string) (string, []string, error) {
	if s.getenv("WAYLAND_DISPLAY") != "" {
		if path, err := s.lookPath("wl-copy"); err == nil {
			return path, []string{"--type", mimeType}, nil
		}
	}
	if s.getenv("DISPLAY") != "" {
		if path, err := s.lookPath("xclip"); err == nil {
			return path, []string{"-selection", "clipboard", "-t", mimeType, "-i"}, nil
		}
	}
	return "", nil, ErrUnavailable
}
