package xrandr

// ParseActive parses the output of `xrandr --listactivemonitors` and returns
// the connector names of the active monitors.
//
// Example input:
//
//	Monitors: 2
//	 0: +*eDP-1 1920/344x1080/193+0+0  eDP-1
//	 1: +HDMI-1 1920/527x1080/296+1920+0  HDMI-1
func ParseActive(text string) (ConnectorSet, error) {
	lines := splitLines(text)
	if emptyReport(lines) {
		return nil, &ParseError{Report: "active", Reason: "empty report"}
	}

	set := make(ConnectorSet)
	for _, ln := range lines[1:] {
		if blankLine(ln.text) {
			continue
		}

		l := &lexer{s: ln.text}
		l.skipBlanks()
		if _, ok := l.uint(); !ok {
			return nil, activeError(ln, "expected monitor index")
		}
		if !l.byte(':') {
			return nil, activeError(ln, "expected ':' after monitor index")
		}
		l.skipBlanks()

		// "+" marks an automatic monitor, "*" the primary one
		l.byte('+')
		l.byte('*')

		connector, ok := l.connector()
		if !ok {
			return nil, activeError(ln, "expected connector name")
		}
		set.Add(connector)
	}

	return set, nil
}

func activeError(ln line, reason string) *ParseError {
	return &ParseError{Report: "active", Line: ln.num, Text: ln.text, Reason: reason}
}
