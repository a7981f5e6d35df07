package profile

import (
	"sort"
	"strconv"
)

// Arguments returns the xrandr arguments that apply the profile. Each
// connector gets a self-contained --output group; enabled connectors come
// first, then disabled ones, each in lexical order.
func (p *Profile) Arguments() []string {
	var args []string

	names := make([]string, 0, len(p.Connected))
	for name := range p.Connected {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dev := p.Connected[name]
		args = append(args, "--output", name)
		if dev.Primary {
			args = append(args, "--primary")
		}
		if !dev.Resolution.IsZero() {
			args = append(args, "--mode", dev.Resolution.String())
		}
		if !dev.Offset.IsZero() {
			args = append(args, "--pos", dev.Offset.String())
		}
		if dev.RefreshRate != 0 {
			args = append(args, "--rate", FormatRate(dev.RefreshRate))
		}
	}

	disabled := append([]string(nil), p.Disabled...)
	sort.Strings(disabled)
	for _, name := range disabled {
		args = append(args, "--output", name, "--off")
	}

	return args
}

// FormatRate renders a refresh rate with the fewest digits that round-trip,
// e.g. 60 or 59.95
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
