package profile

import (
	"sort"

	"github.com/sigreer/autoxrandr/internal/xrandr"
)

// Build derives a profile from a parsed status report and the set of active
// connectors. Active connectors keep their geometry, primary flag and current
// refresh rate; all others are recorded as disabled. Names in active that the
// status report does not mention are ignored.
func Build(records []xrandr.DisplayRecord, active xrandr.ConnectorSet) (*Profile, error) {
	p := &Profile{
		Connected: make(map[string]DeviceProfile),
		Disabled:  []string{},
	}

	for i := range records {
		rec := &records[i]
		if !active.Has(rec.Connector) {
			p.Disabled = append(p.Disabled, rec.Connector)
			continue
		}

		rate, ok := rec.CurrentRate()
		if !ok {
			return nil, &MissingRefreshRateError{Connector: rec.Connector}
		}

		dev := DeviceProfile{
			Primary:     rec.Primary,
			RefreshRate: rate,
		}
		if rec.Resolution != nil {
			dev.Resolution = *rec.Resolution
		}
		if rec.Offset != nil {
			dev.Offset = *rec.Offset
		}
		p.Connected[rec.Connector] = dev
	}

	sort.Strings(p.Disabled)
	return p, nil
}
