// Package autostart manages the per-user LaunchAgent that starts the agent
// at login.
package autostart

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"
)

const (
	// Label identifies the LaunchAgent to launchd.
	Label = "com.huangdou.inputmethod"

	// DefaultLang is exported to the agent so the clipboard helpers it
	// runs see a UTF-8 locale; launchd starts jobs without one.
	DefaultLang = "en_US.UTF-8"
)

// ErrUnsupportedPlatform is returned on systems without launchd.
var ErrUnsupportedPlatform = errors.New("login item is only supported on macOS")

const launchAgentPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{xml .Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{xml .Executable}}</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
{{- if .Lang}}
    <key>EnvironmentVariables</key>
    <dict>
        <key>LANG</key>
        <string>{{xml .Lang}}</string>
    </dict>
{{- end}}
</dict>
</plist>
`

var plistTemplate = template.Must(template.New("plist").Funcs(template.FuncMap{
	"xml": xmlEscape,
}).Parse(launchAgentPlist))

func xmlEscape(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// LaunchAgent describes one plist in a LaunchAgents directory.
type LaunchAgent struct {
	Dir        string
	Label      string
	Executable string
	// Lang is set as LANG in the job environment when not empty.
	Lang string
}

// Default returns the agent for the current user and executable.
func Default() (*LaunchAgent, error) {
	if runtime.GOOS != "darwin" {
		return nil, ErrUnsupportedPlatform
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("get home dir: %w", err)
	}
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = resolved
	}

	return &LaunchAgent{
		Dir:        filepath.Join(home, "Library", "LaunchAgents"),
		Label:      Label,
		Executable: execPath,
		Lang:       DefaultLang,
	}, nil
}

// Path returns the plist file path.
func (a *LaunchAgent) Path() string {
	return filepath.Join(a.Dir, a.Label+".plist")
}

// Render returns the plist document.
func (a *LaunchAgent) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := plistTemplate.Execute(&buf, a); err != nil {
		return nil, fmt.Errorf("render plist: %w", err)
	}
	return buf.Bytes(), nil
}

// Enable writes the plist so the agent starts at next login.
func (a *LaunchAgent) Enable() error {
	data, err := a.Render()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return fmt.Errorf("create launch agents dir: %w", err)
	}
	if err := os.WriteFile(a.Path(), data, 0o644); err != nil {
		return fmt.Errorf("write plist: %w", err)
	}
	return nil
}

// Disable removes the plist. A missing file is not an error.
func (a *LaunchAgent) Disable() error {
	if err := os.Remove(a.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove plist: %w", err)
	}
	return nil
}

// IsEnabled reports whether the plist exists.
func (a *LaunchAgent) IsEnabled() bool {
	_, err := os.Stat(a.Path())
	return err == nil
}

// Toggle flips the login item and returns the new state.
func (a *LaunchAgent) Toggle() (bool, error) {
	if a.IsEnabled() {
		return false, a.Disable()
	}
	return true, a.Enable()
}
