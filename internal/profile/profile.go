// Package profile holds saved display layouts and translates them to and from
// xrandr.
package profile

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sigreer/autoxrandr/internal/xrandr"
)

// Common errors
var (
	ErrProfileNotFound           = errors.New("profile not found")
	ErrMissingCurrentRefreshRate = errors.New("no current refresh rate")
)

// MissingRefreshRateError names an active connector whose modes have no
// refresh rate flagged as current
type MissingRefreshRateError struct {
	Connector string
}

func (e *MissingRefreshRateError) Error() string {
	return fmt.Sprintf("%s: %s", e.Connector, ErrMissingCurrentRefreshRate)
}

func (e *MissingRefreshRateError) Unwrap() error { return ErrMissingCurrentRefreshRate }

// DeviceProfile is the saved state of one enabled connector. Zero values mean
// "unspecified" and are left out when the layout is applied.
type DeviceProfile struct {
	Resolution  xrandr.Resolution `json:"resolution"`
	Offset      xrandr.Offset     `json:"offset"`
	Primary     bool              `json:"primary"`
	RefreshRate float64           `json:"refresh_rate"`
}

// Profile is a saved layout. Every connector appears either in Connected or
// in Disabled, never both.
type Profile struct {
	Connected map[string]DeviceProfile `json:"connected_devices"`
	Disabled  []string                 `json:"off_devices"`
}

// Connectors returns every connector the profile mentions, sorted
func (p *Profile) Connectors() []string {
	names := make([]string, 0, len(p.Connected)+len(p.Disabled))
	for name := range p.Connected {
		names = append(names, name)
	}
	names = append(names, p.Disabled...)
	sort.Strings(names)
	return names
}

// Set is the whole persisted state: profile name to profile
type Set map[string]*Profile

// Names returns the profile names in lexical order
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get looks up a profile by name
func (s Set) Get(name string) (*Profile, error) {
	p, ok := s[name]
	if !ok || p == nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return p, nil
}

// Remove deletes a profile by name
func (s Set) Remove(name string) error {
	if _, ok := s[name]; !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	delete(s, name)
	return nil
}
