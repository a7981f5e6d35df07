package xrandr

// ParseStatus parses the output of a plain `xrandr` query into one record per
// connector, in report order. The first line (the "Screen 0: ..." banner) is
// discarded. Any line that does not fit the grammar fails the whole parse.
//
// Example input:
//
//	Screen 0: minimum 320 x 200, current 3840 x 1080, maximum 16384 x 16384
//	eDP-1 connected primary 1920x1080+0+0 (normal left inverted right) 344mm x 193mm
//	   1920x1080     60.00*+  59.97    59.96
//	   1680x1050     59.95    59.88
//	HDMI-1 disconnected (normal left inverted right x axis y axis)
func ParseStatus(text string) ([]DisplayRecord, error) {
	lines := splitLines(text)
	if emptyReport(lines) {
		return nil, &ParseError{Report: "status", Reason: "empty report"}
	}

	var records []DisplayRecord
	seen := make(map[string]bool)

	for _, ln := range lines[1:] {
		if blankLine(ln.text) {
			continue
		}

		// Mode lines are indented; connector lines are not
		if isBlank(ln.text[0]) {
			if len(records) == 0 {
				return nil, statusError(ln, "mode line before any connector")
			}
			capability, err := parseCapability(ln)
			if err != nil {
				return nil, err
			}
			cur := &records[len(records)-1]
			cur.Capabilities = append(cur.Capabilities, capability)
			continue
		}

		rec, err := parseDevice(ln)
		if err != nil {
			return nil, err
		}
		if seen[rec.Connector] {
			return nil, statusError(ln, "duplicate connector")
		}
		seen[rec.Connector] = true
		records = append(records, rec)
	}

	return records, nil
}

func statusError(ln line, reason string) *ParseError {
	return &ParseError{Report: "status", Line: ln.num, Text: ln.text, Reason: reason}
}

// parseDevice parses a connector line:
// connector WS+ state WS* ["primary"] WS* [geometry] rest-of-line
func parseDevice(ln line) (DisplayRecord, error) {
	l := &lexer{s: ln.text}

	connector, ok := l.connector()
	if !ok {
		return DisplayRecord{}, statusError(ln, "expected connector name")
	}
	rec := DisplayRecord{Connector: connector}

	if l.skipBlanks() == 0 {
		return DisplayRecord{}, statusError(ln, "expected blank after connector name")
	}

	switch {
	case l.keyword("connected"):
		rec.State = Connected
	case l.keyword("disconnected"):
		rec.State = Disconnected
	default:
		return DisplayRecord{}, statusError(ln, "expected connected or disconnected")
	}

	l.skipBlanks()
	rec.Primary = l.keyword("primary")

	l.skipBlanks()
	if res, off, ok := l.geometry(); ok {
		rec.Resolution = &res
		rec.Offset = &off
	}

	// Rotation, reflection and physical size follow; none of it is kept
	return rec, nil
}

// parseCapability parses an indented mode line:
// WS+ width "x" height [suffix] (WS* refresh-rate)*
func parseCapability(ln line) (Capability, error) {
	l := &lexer{s: ln.text}
	l.skipBlanks()

	start := l.pos
	res, ok := l.dimension()
	if !ok {
		return Capability{}, statusError(ln, "expected mode size")
	}
	// Keep decorations such as the "i" of interlaced modes in the name
	for !l.atBoundary() {
		l.pos++
	}
	capability := Capability{
		Name:       ln.text[start:l.pos],
		Resolution: res,
	}

	for {
		l.skipBlanks()
		if l.eof() {
			break
		}
		rate, ok := l.refreshRate()
		if !ok {
			return Capability{}, statusError(ln, "invalid refresh rate")
		}
		capability.RefreshRates = append(capability.RefreshRates, rate)
	}

	return capability, nil
}
