package xrandr

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Common errors
var (
	ErrMalformedReport = errors.New("malformed xrandr report")
	ErrToolInvocation  = errors.New("xrandr invocation failed")
)

// ConnectionState is the link state xrandr reports for a connector
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connected
)

func (s ConnectionState) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

func (s ConnectionState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Resolution is a mode size in pixels
type Resolution struct {
	Width  uint32
	Height uint32
}

func (r Resolution) IsZero() bool { return r.Width == 0 && r.Height == 0 }

// String formats the resolution the way xrandr's --mode expects it
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// MarshalJSON encodes the resolution as a [width, height] pair.
func (r Resolution) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{r.Width, r.Height})
}

func (r *Resolution) UnmarshalJSON(data []byte) error {
	var pair [2]uint32
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("resolution: %w", err)
	}
	r.Width, r.Height = pair[0], pair[1]
	return nil
}

// Offset is the position of an output's top-left corner on the screen
type Offset struct {
	X uint32
	Y uint32
}

func (o Offset) IsZero() bool { return o.X == 0 && o.Y == 0 }

// String formats the offset the way xrandr's --pos expects it
func (o Offset) String() string {
	return fmt.Sprintf("%dx%d", o.X, o.Y)
}

// MarshalJSON encodes the offset as an [x, y] pair.
func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]uint32{o.X, o.Y})
}

func (o *Offset) UnmarshalJSON(data []byte) error {
	var pair [2]uint32
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("offset: %w", err)
	}
	o.X, o.Y = pair[0], pair[1]
	return nil
}

// RefreshRate is one refresh rate advertised for a mode
type RefreshRate struct {
	Clock     float64 `json:"clock"`
	Current   bool    `json:"current"`
	Preferred bool    `json:"preferred"`
}

// Capability is one mode line listed under a connector
type Capability struct {
	Name         string        `json:"name"`
	Resolution   Resolution    `json:"resolution"`
	RefreshRates []RefreshRate `json:"refresh_rates"`
}

// DisplayRecord is one connector block of the status report.
// Resolution and Offset are either both set or both nil.
type DisplayRecord struct {
	Connector    string          `json:"connector"`
	State        ConnectionState `json:"state"`
	Primary      bool            `json:"primary"`
	Resolution   *Resolution     `json:"resolution,omitempty"`
	Offset       *Offset         `json:"offset,omitempty"`
	Capabilities []Capability    `json:"capabilities"`
}

// CurrentRate returns the clock of the first refresh rate flagged current,
// scanning capabilities in report order.
func (d *DisplayRecord) CurrentRate() (float64, bool) {
	for _, c := range d.Capabilities {
		for _, r := range c.RefreshRates {
			if r.Current {
				return r.Clock, true
			}
		}
	}
	return 0, false
}

// ConnectorSet is the set of connector names driving an active monitor
type ConnectorSet map[string]struct{}

func (s ConnectorSet) Has(connector string) bool {
	_, ok := s[connector]
	return ok
}

func (s ConnectorSet) Add(connector string) {
	s[connector] = struct{}{}
}

// Sorted returns the connector names in lexical order
func (s ConnectorSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseError reports where a report stopped matching the grammar
type ParseError struct {
	Report string // "status" or "active"
	Line   int    // 1-based
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s report: %s", e.Report, e.Reason)
	}
	return fmt.Sprintf("%s report line %d: %s: %q", e.Report, e.Line, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrMalformedReport }
