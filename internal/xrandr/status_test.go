package xrandr

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const laptopDocked = `Screen 0: minimum 320 x 200, current 3840 x 1080, maximum 16384 x 16384
eDP-1 connected primary 1920x1080+0+0 (normal left inverted right x axis y axis) 344mm x 193mm
   1920x1080     60.00*+  59.97    59.96    59.93
   1680x1050     59.95    59.88
   1280x1024     60.02
HDMI-1 connected 1920x1080+1920+0 (normal left inverted right x axis y axis) 527mm x 296mm
   1920x1080     60.00 +  50.00    59.94*   30.00
   1920x1080i    60.00    50.00    59.94
   1280x720      60.00    50.00    59.94
DP-1 disconnected (normal left inverted right x axis y axis)
DP-2 connected (normal left inverted right x axis y axis)
   2560x1440     59.95 +
`

func TestParseStatus_DockedLaptop(t *testing.T) {
	records, err := ParseStatus(laptopDocked)
	require.NoError(t, err)
	require.Len(t, records, 4)

	edp := records[0]
	assert.Equal(t, "eDP-1", edp.Connector)
	assert.Equal(t, Connected, edp.State)
	assert.True(t, edp.Primary)
	require.NotNil(t, edp.Resolution)
	require.NotNil(t, edp.Offset)
	assert.Equal(t, Resolution{Width: 1920, Height: 1080}, *edp.Resolution)
	assert.Equal(t, Offset{X: 0, Y: 0}, *edp.Offset)
	require.Len(t, edp.Capabilities, 3)
	assert.Equal(t, "1920x1080", edp.Capabilities[0].Name)
	assert.Equal(t, []RefreshRate{
		{Clock: 60.00, Current: true, Preferred: true},
		{Clock: 59.97},
		{Clock: 59.96},
		{Clock: 59.93},
	}, edp.Capabilities[0].RefreshRates)

	hdmi := records[1]
	assert.Equal(t, "HDMI-1", hdmi.Connector)
	assert.False(t, hdmi.Primary)
	assert.Equal(t, Offset{X: 1920, Y: 0}, *hdmi.Offset)
	require.Len(t, hdmi.Capabilities, 3)
	assert.Equal(t, RefreshRate{Clock: 60.00, Preferred: true}, hdmi.Capabilities[0].RefreshRates[0])
	assert.Equal(t, RefreshRate{Clock: 59.94, Current: true}, hdmi.Capabilities[0].RefreshRates[2])
	assert.Equal(t, "1920x1080i", hdmi.Capabilities[1].Name)
	assert.Equal(t, Resolution{Width: 1920, Height: 1080}, hdmi.Capabilities[1].Resolution)

	rate, ok := hdmi.CurrentRate()
	require.True(t, ok)
	assert.Equal(t, 59.94, rate)

	dp1 := records[2]
	assert.Equal(t, "DP-1", dp1.Connector)
	assert.Equal(t, Disconnected, dp1.State)
	assert.Nil(t, dp1.Resolution)
	assert.Nil(t, dp1.Offset)
	assert.Empty(t, dp1.Capabilities)

	// Connected but not driving anything: no geometry token
	dp2 := records[3]
	assert.Equal(t, Connected, dp2.State)
	assert.Nil(t, dp2.Resolution)
	assert.Nil(t, dp2.Offset)
	require.Len(t, dp2.Capabilities, 1)
	_, ok = dp2.CurrentRate()
	assert.False(t, ok)
}

func TestParseStatus_LineEndings(t *testing.T) {
	crlf := strings.ReplaceAll(laptopDocked, "\n", "\r\n")
	noTrailing := strings.TrimSuffix(laptopDocked, "\n")
	blankLines := strings.ReplaceAll(laptopDocked, "\nDP-1", "\n\n   \nDP-1")

	for name, input := range map[string]string{
		"crlf":        crlf,
		"no trailing": noTrailing,
		"blank lines": blankLines,
	} {
		t.Run(name, func(t *testing.T) {
			records, err := ParseStatus(input)
			require.NoError(t, err)
			require.Len(t, records, 4)
			for _, r := range records {
				assert.NotContains(t, r.Connector, "\n")
				assert.NotContains(t, r.Connector, "\r")
			}
			assert.Equal(t, []string{"eDP-1", "HDMI-1", "DP-1", "DP-2"}, connectors(records))
		})
	}
}

func connectors(records []DisplayRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Connector
	}
	return names
}

// Re-serialising the parsed connector fields must reproduce every connector
// line of the input, in order.
func TestParseStatus_ConnectorLinesRoundTrip(t *testing.T) {
	var lines []string
	for _, l := range strings.Split(laptopDocked, "\n")[1:] {
		if l != "" && !isBlank(l[0]) {
			lines = append(lines, l)
		}
	}

	records, err := ParseStatus(laptopDocked)
	require.NoError(t, err)
	require.Len(t, records, len(lines))

	for i, r := range records {
		got := r.Connector + " " + r.State.String()
		if r.Primary {
			got += " primary"
		}
		if r.Resolution != nil {
			got += fmt.Sprintf(" %s+%d+%d", r.Resolution, r.Offset.X, r.Offset.Y)
		}
		assert.True(t, strings.HasPrefix(lines[i], got), "line %q does not start with %q", lines[i], got)
	}
}

func TestParseStatus_HeaderOnly(t *testing.T) {
	records, err := ParseStatus("Screen 0: minimum 320 x 200, current 0 x 0, maximum 16384 x 16384\n")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseStatus_GeometryVariants(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		res     *Resolution
		off     *Offset
		primary bool
	}{
		{
			name: "rotated",
			line: "DP-3 connected 1080x1920+3840+0 left (normal left inverted right x axis y axis) 527mm x 296mm",
			res:  &Resolution{1080, 1920},
			off:  &Offset{3840, 0},
		},
		{
			name:    "primary without geometry",
			line:    "DP-3 connected primary (normal left inverted right x axis y axis)",
			primary: true,
		},
		{
			name: "partial geometry is not geometry",
			line: "DP-3 connected 1920x1080+0 (normal)",
		},
		{
			name: "tab separated",
			line: "DP-3\tdisconnected\t(normal)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseStatus("Screen 0: x\n" + tt.line + "\n")
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, "DP-3", records[0].Connector)
			assert.Equal(t, tt.res, records[0].Resolution)
			assert.Equal(t, tt.off, records[0].Offset)
			assert.Equal(t, tt.primary, records[0].Primary)
		})
	}
}

func TestParseStatus_RefreshRateFlags(t *testing.T) {
	input := "Screen 0: x\nDP-3 connected 1920x1080+0+0\n   1920x1080 60.00 +  75.00*  144.00*+\n   1280x720 60.00 59.94\n"
	records, err := ParseStatus(input)
	require.NoError(t, err)
	require.Len(t, records[0].Capabilities, 2)

	assert.Equal(t, []RefreshRate{
		{Clock: 60.00, Preferred: true},
		{Clock: 75.00, Current: true},
		{Clock: 144.00, Current: true, Preferred: true},
	}, records[0].Capabilities[0].RefreshRates)
	assert.Equal(t, []RefreshRate{{Clock: 60.00}, {Clock: 59.94}}, records[0].Capabilities[1].RefreshRates)
}

func TestParseStatus_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "empty", input: "", line: 0},
		{name: "newline only", input: "\n", line: 0},
		{name: "blank lines only", input: "  \r\n\t\n", line: 0},
		{name: "mode before connector", input: "Screen 0\n   1920x1080 60.00*+\n", line: 2},
		{name: "unknown state", input: "Screen 0\nHDMI-1 unknown connection\n", line: 2},
		{name: "state glued to word", input: "Screen 0\nHDMI-1 connectedly\n", line: 2},
		{name: "connector only", input: "Screen 0\nHDMI-1\n", line: 2},
		{name: "bad mode", input: "Screen 0\nHDMI-1 connected\n   wide 60.00\n", line: 3},
		{name: "bad rate", input: "Screen 0\nHDMI-1 connected\n   1920x1080 60\n", line: 3},
		{name: "bad flag", input: "Screen 0\nHDMI-1 connected\n   1920x1080 60.00+\n", line: 3},
		{name: "glued rates", input: "Screen 0\nHDMI-1 connected\n   1920x1080 60.00*+59.94\n", line: 3},
		{name: "duplicate connector", input: "Screen 0\nHDMI-1 connected\nHDMI-1 disconnected\n", line: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseStatus(tt.input)
			require.Error(t, err)
			assert.Nil(t, records, "no partial results")
			assert.ErrorIs(t, err, ErrMalformedReport)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "status", perr.Report)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}
