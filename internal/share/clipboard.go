package share

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
)

type clipboardCmd struct {
	name string
	args []string
}

// Clipboard copies the payload data to the system clipboard using whichever helper the
// platform provides.
type Clipboard struct {
	// GOOS overrides runtime.GOOS (tests).
	GOOS string
	// LookPath overrides exec.LookPath (tests).
	LookPath func(string) (string, error)
	// Run executes the helper with stdin attached (tests).
	Run func(ctx context.Context, name string, args []string, stdin string) error
}

func (c Clipboard) candidates() []clipboardCmd {
	goos := c.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	switch goos {
	case "darwin":
		return []clipboardCmd{{name: "pbcopy"}}
	case "windows":
		// Try clip.exe first; fall back to PowerShell.
		return []clipboardCmd{
			{name: "cmd", args: []string{"/c", "clip"}},
			{name: "powershell", args: []string{"-NoProfile", "-Command", "Set-Clipboard"}},
		}
	default:
		// Prefer Wayland if available, then X11 fallbacks.
		return []clipboardCmd{
			{name: "wl-copy"},
			{name: "xclip", args: []string{"-selection", "clipboard"}},
			{name: "xsel", args: []string{"--clipboard", "--input"}},
		}
	}
}

func (c Clipboard) Share(ctx context.Context, p Payload) (Result, error) {
	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	run := c.Run
	if run == nil {
		run = runClipboardCmd
	}

	text := strings.ReplaceAll(string(p.Data), "\r\n", "\n")
	var lastErr error
	found := false
	for _, cand := range c.candidates() {
		if _, err := lookPath(cand.name); err != nil {
			continue
		}
		found = true
		if err := run(ctx, cand.name, cand.args, text); err != nil {
			lastErr = err
			continue
		}
		return Result{Target: "clipboard"}, nil
	}
	if !found {
		return Result{}, ErrUnsupported
	}
	return Result{}, lastErr
}

func runClipboardCmd(ctx context.Context, name string, args []string, stdin string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	if err := cmd.Run(); err != nil {
		return errors.New(name + ": " + err.Error())
	}
	return nil
}
