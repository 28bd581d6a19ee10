// Package main provides a keyboard plugin that forwards slide changes to the
// foreground presentation app as arrow keys. It uses AppleScript on macOS and
// xdotool on Linux.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Event  string          `json:"event"`
	Deck   string          `json:"deck,omitempty"`
	Slide  int             `json:"slide"`
	Total  int             `json:"total"`
	Config json.RawMessage `json:"config"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeystrokeParams defines parameters for the keystroke action.
type KeystrokeParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// arrowKeys maps navigation actions to macOS key codes and X11 key names.
var arrowKeys = map[string]struct {
	code int
	name string
}{
	"next":     {124, "Right"},
	"previous": {123, "Left"},
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// xdotoolModifiers maps modifier names to xdotool key prefixes.
var xdotoolModifiers = map[string]string{
	"command": "super",
	"cmd":     "super",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var err error
	switch req.Action {
	case "next", "previous":
		err = pressArrow(req.Action)
	case "keystroke":
		err = handleKeystroke(req.Params)
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}
	if err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

func pressArrow(action string) error {
	key := arrowKeys[action]
	if runtime.GOOS == "darwin" {
		return runAppleScript(fmt.Sprintf(`tell application "System Events" to key code %d`, key.code))
	}
	return runXdotool(key.name)
}

// handleKeystroke processes the keystroke action.
func handleKeystroke(params json.RawMessage) error {
	var p KeystrokeParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}

	if p.Key == "" {
		return fmt.Errorf("key is required")
	}

	if runtime.GOOS == "darwin" {
		return runAppleScript(buildKeystrokeScript(p.Key, p.Modifiers))
	}
	return runXdotool(buildXdotoolKey(p.Key, p.Modifiers))
}

// buildKeystrokeScript generates an AppleScript for the given key and modifiers.
func buildKeystrokeScript(key string, modifiers []string) string {
	var appleModifiers []string
	for _, mod := range modifiers {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, key)
	}

	modifierList := strings.Join(appleModifiers, ", ")
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s" using {%s}`, key, modifierList)
}

// buildXdotoolKey builds an xdotool key chord such as "ctrl+shift+p".
func buildXdotoolKey(key string, modifiers []string) string {
	var parts []string
	for _, mod := range modifiers {
		if m, ok := xdotoolModifiers[strings.ToLower(mod)]; ok {
			parts = append(parts, m)
		}
	}
	return strings.Join(append(parts, key), "+")
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func runXdotool(chord string) error {
	output, err := exec.Command("xdotool", "key", "--clearmodifiers", chord).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
