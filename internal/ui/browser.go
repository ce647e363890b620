package ui

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// browserCommand returns the platform command that opens target in the default browser
func browserCommand(goos, target string) *exec.Cmd {
	switch goos {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		return exec.Command("open", target)
	default:
		return exec.Command("xdg-open", target)
	}
}

// openURL opens an http(s) link without waiting for the browser
func openURL(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open %q", target)
	}
	return browserCommand(runtime.GOOS, u.String()).Start()
}
