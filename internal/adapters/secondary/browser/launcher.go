package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fredcamaral/ariel/internal/domain/ports"
)

// Launcher implements the BrowserLauncher interface
type Launcher struct {
	preferred string
	browsers  []browser
}

// browser represents a launchable browser on this platform
type browser struct {
	name    string
	command string
	args    func(url string) []string
}

// NewLauncher creates a new browser launcher. preferred names a browser
// from the configuration ("default" or empty means first available).
func NewLauncher(preferred string) *Launcher {
	return &Launcher{
		preferred: preferred,
		browsers:  platformBrowsers(),
	}
}

// Launch opens a URL in the selected browser
func (l *Launcher) Launch(url string, noOpen bool) error {
	if noOpen {
		return nil
	}

	b, err := l.selectBrowser()
	if err != nil {
		return fmt.Errorf("browser selection: %w", err)
	}

	cmd := exec.Command(b.command, b.args(url)...) // #nosec G204 - command comes from the platform table
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	// Don't wait for the browser to close
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// Detect reports the browser that would be launched
func (l *Launcher) Detect() (string, error) {
	b, err := l.selectBrowser()
	if err != nil {
		return "", err
	}
	return b.name, nil
}

// selectBrowser picks the configured browser when available, otherwise the
// first one whose executable is found in PATH
func (l *Launcher) selectBrowser() (*browser, error) {
	if len(l.browsers) == 0 {
		return nil, errors.New("no browsers available on this platform")
	}

	if l.preferred != "" && !strings.EqualFold(l.preferred, "default") {
		for _, candidate := range l.browsers {
			if strings.EqualFold(candidate.name, l.preferred) {
				if _, err := exec.LookPath(candidate.command); err == nil {
					return &candidate, nil
				}
			}
		}
	}

	for _, candidate := range l.browsers {
		if _, err := exec.LookPath(candidate.command); err == nil {
			return &candidate, nil
		}
	}

	return nil, errors.New("no supported browsers found on this system")
}

// platformBrowsers returns the launch table for the current platform
func platformBrowsers() []browser {
	switch runtime.GOOS {
	case "darwin":
		open := func(app string) func(string) []string {
			return func(url string) []string { return []string{"-a", app, url} }
		}
		return []browser{
			{name: "default", command: "open", args: func(url string) []string { return []string{url} }},
			{name: "chrome", command: "open", args: open("Google Chrome")},
			{name: "safari", command: "open", args: open("Safari")},
			{name: "firefox", command: "open", args: open("Firefox")},
		}
	case "linux":
		return []browser{
			{name: "xdg-open", command: "xdg-open", args: func(url string) []string { return []string{url} }},
			{name: "chrome", command: "google-chrome", args: func(url string) []string { return []string{url} }},
			{name: "firefox", command: "firefox", args: func(url string) []string { return []string{url} }},
		}
	case "windows":
		start := func(extra ...string) func(string) []string {
			return func(url string) []string {
				return append(append([]string{"/c", "start"}, extra...), url)
			}
		}
		return []browser{
			{name: "default", command: "cmd", args: start()},
			{name: "chrome", command: "cmd", args: start("chrome")},
			{name: "edge", command: "cmd", args: start("msedge")},
		}
	default:
		return []browser{}
	}
}

// Ensure Launcher implements ports.BrowserLauncher
var _ ports.BrowserLauncher = (*Launcher)(nil)
