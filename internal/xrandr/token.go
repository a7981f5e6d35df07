package xrandr

import (
	"strconv"
	"strings"
)

// line is one report line with its terminator removed
type line struct {
	num  int // 1-based
	text string
}

// splitLines breaks a report into lines. Both "\n" and "\r\n" terminators are
// stripped here, so no terminator ever reaches a token.
func splitLines(text string) []line {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	raw := strings.Split(text, "\n")
	lines := make([]line, len(raw))
	for i, s := range raw {
		lines[i] = line{num: i + 1, text: strings.TrimSuffix(s, "\r")}
	}
	return lines
}

// emptyReport reports whether lines hold nothing but whitespace
func emptyReport(lines []line) bool {
	for _, ln := range lines {
		if !blankLine(ln.text) {
			return false
		}
	}
	return true
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isSpace(c byte) bool {
	return isBlank(c) || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func blankLine(s string) bool {
	return strings.TrimLeft(s, " \t") == ""
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// lexer walks a single line. Every match method either consumes its token
// and returns true, or leaves the position untouched and returns false.
type lexer struct {
	s   string
	pos int
}

func (l *lexer) eof() bool { return l.pos >= len(l.s) }

func (l *lexer) peek() (byte, bool) {
	if l.eof() {
		return 0, false
	}
	return l.s[l.pos], true
}

// atBoundary reports whether the previous token ended cleanly
func (l *lexer) atBoundary() bool {
	c, ok := l.peek()
	return !ok || isBlank(c)
}

func (l *lexer) skipBlanks() int {
	start := l.pos
	for !l.eof() && isBlank(l.s[l.pos]) {
		l.pos++
	}
	return l.pos - start
}

func (l *lexer) byte(c byte) bool {
	if b, ok := l.peek(); ok && b == c {
		l.pos++
		return true
	}
	return false
}

// connector matches one or more non-whitespace characters
func (l *lexer) connector() (string, bool) {
	start := l.pos
	for !l.eof() && !isSpace(l.s[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		return "", false
	}
	return l.s[start:l.pos], true
}

// keyword matches kw as a whole word
func (l *lexer) keyword(kw string) bool {
	if !strings.HasPrefix(l.s[l.pos:], kw) {
		return false
	}
	start := l.pos
	l.pos += len(kw)
	if !l.atBoundary() {
		l.pos = start
		return false
	}
	return true
}

func (l *lexer) digits() string {
	start := l.pos
	for !l.eof() && isDigit(l.s[l.pos]) {
		l.pos++
	}
	return l.s[start:l.pos]
}

func (l *lexer) uint() (uint32, bool) {
	start := l.pos
	d := l.digits()
	if d == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(d, 10, 32)
	if err != nil {
		l.pos = start
		return 0, false
	}
	return uint32(n), true
}

// dimension matches "<w>x<h>"
func (l *lexer) dimension() (Resolution, bool) {
	start := l.pos
	w, ok := l.uint()
	if !ok || !l.byte('x') {
		l.pos = start
		return Resolution{}, false
	}
	h, ok := l.uint()
	if !ok {
		l.pos = start
		return Resolution{}, false
	}
	return Resolution{Width: w, Height: h}, true
}

// geometry matches a whole "<w>x<h>+<x>+<y>" token
func (l *lexer) geometry() (Resolution, Offset, bool) {
	start := l.pos
	fail := func() (Resolution, Offset, bool) {
		l.pos = start
		return Resolution{}, Offset{}, false
	}

	res, ok := l.dimension()
	if !ok || !l.byte('+') {
		return fail()
	}
	x, ok := l.uint()
	if !ok || !l.byte('+') {
		return fail()
	}
	y, ok := l.uint()
	if !ok || !l.atBoundary() {
		return fail()
	}
	return res, Offset{X: x, Y: y}, true
}

// clock matches "<digits>.<digits>"
func (l *lexer) clock() (float64, bool) {
	start := l.pos
	if l.digits() == "" || !l.byte('.') || l.digits() == "" {
		l.pos = start
		return 0, false
	}
	v, err := strconv.ParseFloat(l.s[start:l.pos], 64)
	if err != nil {
		l.pos = start
		return 0, false
	}
	return v, true
}

// refreshRate matches a clock followed by its two fixed-width flag columns,
// "*" for current and "+" for preferred. A column cut off by the end of the
// line reads as an absent flag.
func (l *lexer) refreshRate() (RefreshRate, bool) {
	start := l.pos
	clock, ok := l.clock()
	if !ok {
		return RefreshRate{}, false
	}
	rate := RefreshRate{Clock: clock}

	c, ok := l.peek()
	if !ok {
		return rate, true
	}
	switch {
	case c == '*':
		rate.Current = true
		l.pos++
	case isBlank(c):
		l.pos++
	default:
		l.pos = start
		return RefreshRate{}, false
	}

	if c, ok := l.peek(); ok {
		switch {
		case c == '+':
			rate.Preferred = true
			l.pos++
		case isBlank(c):
			l.pos++
		}
	}

	if !isBlank(l.s[l.pos-1]) && !l.atBoundary() {
		l.pos = start
		return RefreshRate{}, false
	}
	return rate, true
}
