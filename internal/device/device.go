// Package device decides whether the client runs on a touch device,
// where the on-screen keyboard must not pop up on its own.
package device

import (
	"os"
	"strings"
)

// EnvOverride forces the detected device class ("mobile" or "desktop").
const EnvOverride = "ATHYR_CHAT_DEVICE"

// Detector reports whether the current environment is a mobile/touch device.
type Detector interface {
	IsMobile() bool
}

// Static is a Detector with a fixed answer.
type Static bool

// IsMobile implements Detector.
func (s Static) IsMobile() bool { return bool(s) }

// EnvDetector inspects environment variables.
type EnvDetector struct {
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// IsMobile implements Detector.
func (d EnvDetector) IsMobile() bool {
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	switch strings.ToLower(getenv(EnvOverride)) {
	case "mobile":
		return true
	case "desktop":
		return false
	}

	// Termux on Android
	if getenv("TERMUX_VERSION") != "" {
		return true
	}
	if strings.Contains(getenv("PREFIX"), "com.termux") {
		return true
	}
	return false
}

// NewDetector returns the detector for a config mode: auto, desktop or mobile.
// Unknown modes fall back to auto.
func NewDetector(mode string) Detector {
	switch mode {
	case "desktop":
		return Static(false)
	case "mobile":
		return Static(true)
	default:
		return EnvDetector{}
	}
}
