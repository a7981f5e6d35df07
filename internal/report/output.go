// Package report renders layouts, profiles and history for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sigreer/autoxrandr/internal/db"
	"github.com/sigreer/autoxrandr/internal/profile"
	"github.com/sigreer/autoxrandr/internal/xrandr"
)

// PrintJSON outputs v as indented JSON
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintDisplays outputs the parsed status report as a table
func PrintDisplays(w io.Writer, records []xrandr.DisplayRecord, active xrandr.ConnectorSet) {
	fmt.Fprintf(w, "%-12s %-13s %-7s %-7s %-11s %-11s %s\n",
		"CONNECTOR", "STATE", "ACTIVE", "PRIMARY", "MODE", "POSITION", "RATE")
	fmt.Fprintln(w, strings.Repeat("-", 72))

	for i := range records {
		r := &records[i]
		mode, pos, rate := "-", "-", "-"
		if r.Resolution != nil {
			mode = r.Resolution.String()
			pos = r.Offset.String()
		}
		if clock, ok := r.CurrentRate(); ok {
			rate = profile.FormatRate(clock)
		}
		fmt.Fprintf(w, "%-12s %-13s %-7s %-7s %-11s %-11s %s\n",
			r.Connector, r.State, yesNo(active.Has(r.Connector)), yesNo(r.Primary), mode, pos, rate)
	}
}

// PrintProfile outputs one profile device by device, followed by the xrandr
// command that applies it
func PrintProfile(w io.Writer, name string, p *profile.Profile) {
	fmt.Fprintf(w, "Profile: %s\n", Good(name))
	fmt.Fprintln(w)

	for _, connector := range p.Connectors() {
		dev, ok := p.Connected[connector]
		if !ok {
			fmt.Fprintf(w, "  %-12s %s\n", connector, dim("off"))
			continue
		}
		fmt.Fprintf(w, "  %-12s %s\n", connector, DescribeDevice(dev))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "xrandr %s\n", strings.Join(p.Arguments(), " "))
}

// DescribeDevice summarises a saved device in one line
func DescribeDevice(dev profile.DeviceProfile) string {
	parts := []string{}
	if !dev.Resolution.IsZero() {
		parts = append(parts, "mode "+dev.Resolution.String())
	}
	if !dev.Offset.IsZero() {
		parts = append(parts, "pos "+dev.Offset.String())
	}
	if dev.RefreshRate != 0 {
		parts = append(parts, "rate "+profile.FormatRate(dev.RefreshRate))
	}
	if dev.Primary {
		parts = append(parts, "primary")
	}
	if len(parts) == 0 {
		return "on"
	}
	return strings.Join(parts, ", ")
}

// ProfileSummary is the JSON form of a list entry
type ProfileSummary struct {
	Name      string   `json:"name"`
	Connected []string `json:"connected"`
	Disabled  []string `json:"disabled"`
}

// Summaries lists every profile of set by name
func Summaries(set profile.Set) []ProfileSummary {
	out := make([]ProfileSummary, 0, len(set))
	for _, name := range set.Names() {
		p := set[name]
		s := ProfileSummary{Name: name, Disabled: p.Disabled, Connected: []string{}}
		for _, c := range p.Connectors() {
			if _, ok := p.Connected[c]; ok {
				s.Connected = append(s.Connected, c)
			}
		}
		out = append(out, s)
	}
	return out
}

// PrintList outputs profile names, one per line, with their enabled outputs.
// lastApplied marks the profile applied most recently, if known.
func PrintList(w io.Writer, set profile.Set, lastApplied *db.Event) {
	for _, s := range Summaries(set) {
		line := s.Name
		if len(s.Connected) > 0 {
			line += "  " + dim(strings.Join(s.Connected, " "))
		}
		if lastApplied != nil && lastApplied.Profile == s.Name {
			line += "  " + Good("(applied "+humanize.Time(lastApplied.Timestamp)+")")
		}
		fmt.Fprintln(w, line)
	}
}

// PrintHistory outputs recorded operations, newest first
func PrintHistory(w io.Writer, events []*db.Event, now time.Time) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No history recorded")
		return
	}

	fmt.Fprintf(w, "%-16s %-7s %-7s %-20s %s\n", "WHEN", "ACTION", "STATUS", "PROFILE", "DETAILS")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, e := range events {
		status := e.Status
		if status == db.StatusFailed {
			status = Bad(status)
		}
		details := e.Details
		if details == "" && len(e.Args) > 0 {
			details = strings.Join(e.Args, " ")
		}
		fmt.Fprintf(w, "%-16s %-7s %-7s %-20s %s\n",
			humanize.RelTime(e.Timestamp, now, "ago", "from now"), e.Action, status, e.Profile, details)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
