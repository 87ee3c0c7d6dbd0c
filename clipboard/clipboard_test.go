package clipboard

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func fakeLookPath(available ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, candidate := range available {
			if candidate == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestSystemToolSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		env      map[string]string
		tools    []string
		wantTool string
		wantErr  bool
	}{
		{name: "wayland", env: map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, tools: []string{"wl-copy", "xclip"}, wantTool: "/usr/bin/wl-copy"},
		{name: "x11", env: map[string]string{"DISPLAY": ":0"}, tools: []string{"wl-copy", "xclip"}, wantTool: "/usr/bin/xclip"},
		{name: "wayland without wl-copy falls back", env: map[string]string{"WAYLAND_DISPLAY": "w", "DISPLAY": ":0"}, tools: []string{"xclip"}, wantTool: "/usr/bin/xclip"},
		{name: "headless", env: map[string]string{}, tools: []string{"wl-copy", "xclip"}, wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := &System{lookPath: fakeLookPath(tc.tools...), getenv: fakeEnv(tc.env), command: exec.CommandContext}
			tool, args, err := s.tool("text/html")
			if tc.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("expected ErrUnavailable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tool != tc.wantTool {
				t.Fatalf("expected %s, got %s", tc.wantTool, tool)
			}
			found := false
			for _, arg := range args {
				if arg == "text/html" {
					found = true
				}
			}
			if !found {
				t.Fatalf("mime type missing from args %v", args)
			}
		})
	}
}

func TestSystemWritePipesPayload(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	out := filepath.Join(t.TempDir(), "clip.html")
	s := &System{
		lookPath: fakeLookPath("xclip"),
		getenv:   fakeEnv(map[string]string{"DISPLAY": ":0"}),
		command: func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "sh", "-c", "cat > "+out)
		},
	}

	if err := s.Write(context.Background(), "text/html", []byte("<table></table>")); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read piped payload: %v", err)
	}
	if string(got) != "<table></table>" {
		t.Fatalf("unexpected payload %q", got)
	}
}

func TestSystemWriteReportsToolFailure(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	s := &System{
		lookPath: fakeLookPath("xclip"),
		getenv:   fakeEnv(map[string]string{"DISPLAY": ":0"}),
		command: func(ctx context.Context, _ string, _ ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "sh", "-c", "echo 'cannot open display' >&2; exit 1")
		},
	}
	if err := s.Write(context.Background(), "text/html", []byte("x")); err == nil {
		t.Fatalf("expected tool failure to surface")
	}
}
