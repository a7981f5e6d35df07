package profile

import (
	"testing"

	"github.com/sigreer/autoxrandr/internal/xrandr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const laptopOnly = "Screen 0: minimum 320 x 200, current 1920 x 1080, maximum 16384 x 16384\n" +
	"eDP-1 connected primary 1920x1080+0+0 (normal left inverted right x axis y axis) 344mm x 193mm\n" +
	"   1920x1080  60.00*+\n" +
	"HDMI-1 disconnected (normal left inverted right x axis y axis)\n"

const laptopOnlyActive = "Monitors: 1\n 0: +*eDP-1 1920/344x1080/193+0+0  eDP-1\n"

const docked = `Screen 0: minimum 320 x 200, current 4480 x 1440, maximum 16384 x 16384
eDP-1 connected 1920x1080+0+360 (normal left inverted right x axis y axis) 344mm x 193mm
   1920x1080     60.00 +  59.97*   59.96
   1280x720      60.00
HDMI-1 connected primary 2560x1440+1920+0 (normal left inverted right x axis y axis) 597mm x 336mm
   2560x1440     59.95*+  74.97
   1920x1080     60.00    50.00
DP-1 disconnected (normal left inverted right x axis y axis)
DP-2 connected (normal left inverted right x axis y axis)
   1920x1200     59.95 +
`

const dockedActive = "Monitors: 2\n" +
	" 0: +eDP-1 1920/344x1080/193+0+360  eDP-1\n" +
	" 1: +*HDMI-1 2560/597x1440/336+1920+0  HDMI-1\n"

func parse(t *testing.T, status, active string) ([]xrandr.DisplayRecord, xrandr.ConnectorSet) {
	t.Helper()
	records, err := xrandr.ParseStatus(status)
	require.NoError(t, err)
	set, err := xrandr.ParseActive(active)
	require.NoError(t, err)
	return records, set
}

func TestBuild_LaptopOnly(t *testing.T) {
	p, err := Build(parse(t, laptopOnly, laptopOnlyActive))
	require.NoError(t, err)

	assert.Equal(t, map[string]DeviceProfile{
		"eDP-1": {
			Resolution:  xrandr.Resolution{Width: 1920, Height: 1080},
			Offset:      xrandr.Offset{},
			Primary:     true,
			RefreshRate: 60.00,
		},
	}, p.Connected)
	assert.Equal(t, []string{"HDMI-1"}, p.Disabled)

	assert.Equal(t, []string{
		"--output", "eDP-1", "--primary", "--mode", "1920x1080", "--rate", "60",
		"--output", "HDMI-1", "--off",
	}, p.Arguments())
}

func TestBuild_Docked(t *testing.T) {
	p, err := Build(parse(t, docked, dockedActive))
	require.NoError(t, err)

	require.Contains(t, p.Connected, "eDP-1")
	require.Contains(t, p.Connected, "HDMI-1")
	assert.Equal(t, 59.97, p.Connected["eDP-1"].RefreshRate)
	assert.Equal(t, xrandr.Offset{X: 0, Y: 360}, p.Connected["eDP-1"].Offset)
	assert.False(t, p.Connected["eDP-1"].Primary)
	assert.True(t, p.Connected["HDMI-1"].Primary)
	assert.Equal(t, []string{"DP-1", "DP-2"}, p.Disabled)

	assert.Equal(t, []string{
		"--output", "HDMI-1", "--primary", "--mode", "2560x1440", "--pos", "1920x0", "--rate", "59.95",
		"--output", "eDP-1", "--mode", "1920x1080", "--pos", "0x360", "--rate", "59.97",
		"--output", "DP-1", "--off",
		"--output", "DP-2", "--off",
	}, p.Arguments())
}

// Every connector of the report lands in exactly one of the two collections.
func TestBuild_PartitionsConnectors(t *testing.T) {
	records, _ := parse(t, docked, dockedActive)

	actives := []xrandr.ConnectorSet{
		{},
		{"eDP-1": {}},
		{"eDP-1": {}, "HDMI-1": {}},
		{"eDP-1": {}, "HDMI-1": {}, "not-in-report": {}},
	}
	for _, active := range actives {
		p, err := Build(records, active)
		require.NoError(t, err)

		seen := make(map[string]int)
		for name := range p.Connected {
			seen[name]++
		}
		for _, name := range p.Disabled {
			seen[name]++
		}
		assert.Len(t, seen, len(records))
		for _, r := range records {
			assert.Equal(t, 1, seen[r.Connector], "connector %s", r.Connector)
		}
	}
}

func TestBuild_MissingCurrentRefreshRate(t *testing.T) {
	status := "Screen 0: x\n" +
		"eDP-1 connected primary 1920x1080+0+0 (normal) 344mm x 193mm\n" +
		"   1920x1080  60.00*+\n" +
		"DP-2 connected 1920x1200+1920+0 (normal) 518mm x 324mm\n" +
		"   1920x1200     59.95 +\n"
	active := "Monitors: 2\n 0: +*eDP-1 1920/344x1080/193+0+0  eDP-1\n 1: +DP-2 1920/518x1200/324+1920+0  DP-2\n"

	p, err := Build(parse(t, status, active))
	require.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, ErrMissingCurrentRefreshRate)

	var missing *MissingRefreshRateError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "DP-2", missing.Connector)
	assert.Contains(t, err.Error(), "DP-2")
}

// An active connector without a geometry token keeps zero sentinels, so no
// --mode or --pos is generated for it.
func TestBuild_ActiveWithoutGeometry(t *testing.T) {
	status := "Screen 0: x\nDP-2 connected (normal left inverted right x axis y axis)\n   1920x1200     59.95*+\n"
	p, err := Build(parse(t, status, "Monitors: 1\n 0: +DP-2 1920/518x1200/324+0+0  DP-2\n"))
	require.NoError(t, err)

	dev := p.Connected["DP-2"]
	assert.True(t, dev.Resolution.IsZero())
	assert.True(t, dev.Offset.IsZero())
	assert.Equal(t, []string{"--output", "DP-2", "--rate", "59.95"}, p.Arguments())
}

func TestArguments_ConnectedNeverOff(t *testing.T) {
	p, err := Build(parse(t, docked, dockedActive))
	require.NoError(t, err)
	args := p.Arguments()

	for name, dev := range p.Connected {
		group := outputGroup(args, name)
		require.NotNil(t, group, "missing --output for %s", name)
		assert.NotContains(t, group, "--off")
		if !dev.Resolution.IsZero() {
			assert.Contains(t, group, "--mode")
		}
	}
}

// outputGroup returns the arguments following "--output name" up to the next
// --output.
func outputGroup(args []string, name string) []string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] != "--output" || args[i+1] != name {
			continue
		}
		group := []string{}
		for _, a := range args[i+2:] {
			if a == "--output" {
				break
			}
			group = append(group, a)
		}
		return group
	}
	return nil
}

func TestArguments_Idempotent(t *testing.T) {
	first, err := Build(parse(t, docked, dockedActive))
	require.NoError(t, err)
	second, err := Build(parse(t, docked, dockedActive))
	require.NoError(t, err)

	assert.Equal(t, first.Arguments(), second.Arguments())
	assert.Equal(t, first.Arguments(), first.Arguments())
}

func TestArguments_Sentinels(t *testing.T) {
	p := &Profile{
		Connected: map[string]DeviceProfile{"VGA-1": {}},
		Disabled:  []string{"DP-3", "DP-1"},
	}
	assert.Equal(t, []string{
		"--output", "VGA-1",
		"--output", "DP-1", "--off",
		"--output", "DP-3", "--off",
	}, p.Arguments())
	assert.Equal(t, []string{"DP-3", "DP-1"}, p.Disabled, "Arguments must not reorder the profile")
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "60", FormatRate(60.00))
	assert.Equal(t, "59.95", FormatRate(59.95))
	assert.Equal(t, "143.86", FormatRate(143.86))
}

func TestSet_GetRemove(t *testing.T) {
	set := Set{"home": {Connected: map[string]DeviceProfile{}}, "work": {Connected: map[string]DeviceProfile{}}}
	assert.Equal(t, []string{"home", "work"}, set.Names())

	_, err := set.Get("office")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.Contains(t, err.Error(), "office")

	require.NoError(t, set.Remove("home"))
	assert.ErrorIs(t, set.Remove("home"), ErrProfileNotFound)
	assert.Equal(t, []string{"work"}, set.Names())
}

func TestProfile_Connectors(t *testing.T) {
	p := &Profile{
		Connected: map[string]DeviceProfile{"eDP-1": {}, "HDMI-1": {}},
		Disabled:  []string{"DP-1"},
	}
	assert.Equal(t, []string{"DP-1", "HDMI-1", "eDP-1"}, p.Connectors())
}
