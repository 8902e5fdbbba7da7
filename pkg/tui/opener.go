package tui

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// BrowserOpener opens links with the desktop's default handler
type BrowserOpener struct{}

// Open starts the handler without waiting for it. The process is reaped in
// the background.
func (BrowserOpener) Open(ctx context.Context, link string) error {
	name, args := openCommand(runtime.GOOS, link)
	return start(exec.CommandContext(ctx, name, args...))
}

func start(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("error opening link: %w", err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func openCommand(goos, link string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{link}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}
	default:
		return "xdg-open", []string{link}
	}
}
