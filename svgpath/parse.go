package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	errParamMismatch = errors.New("param mismatch")
	errNoCommand     = errors.New("missing path command")
	errNoMoveTo      = errors.New("path must start with a moveto command")
)

// pathCursor is used while compiling path data
type pathCursor struct {
	path             Path
	placeX, placeY   float64 // current point
	startX, startY   float64 // start of the current sub-path
	cntlPtX, cntlPtY float64 // last control point, reflected by S and T
	lastKey          byte
	started, closed  bool
	points           []float64
	scale            float64 // applied to every coordinate as it is read
}

// Compile converts SVG path data (the `d` attribute) into
// a Path made of absolute operations.
// On malformed data, the operations compiled before the faulty command
// are returned along with the error, so that callers may choose to
// draw the valid prefix, as browsers do.
func Compile(d string) (Path, error) { return CompileScaled(d, 1) }

// CompileScaled is like Compile, but multiplies every coordinate
// by `scale` before the conversion to fixed point.
func CompileScaled(d string, scale float64) (Path, error) {
	c := pathCursor{scale: scale}
	err := c.compile(d)
	return c.path, err
}

// isLength returns false for the parameters of `cmd` which are
// not coordinates: the rotation and the flags of an arc.
func isLength(cmd byte, i int) bool {
	return !((cmd == 'A' || cmd == 'a') && 2 <= i && i <= 4)
}

// argCount returns the number of parameters expected by the command.
func argCount(cmd byte) int {
	switch cmd {
	case 'M', 'm', 'L', 'l', 'T', 't':
		return 2
	case 'H', 'h', 'V', 'v':
		return 1
	case 'C', 'c':
		return 6
	case 'S', 's', 'Q', 'q':
		return 4
	case 'A', 'a':
		return 7
	case 'Z', 'z':
		return 0
	default:
		return -1
	}
}

func (c *pathCursor) compile(d string) error {
	sc := scanner{s: d}
	var cmd byte
	for !sc.done() {
		offset := sc.pos
		if ch := sc.s[sc.pos]; argCount(ch) >= 0 {
			cmd = ch
			sc.pos++
		} else if cmd == 0 || cmd == 'Z' || cmd == 'z' {
			// numbers without a preceding command
			return fmt.Errorf("svgpath: offset %d: %w", offset, errNoCommand)
		}

		n := argCount(cmd)
		c.points = c.points[:0]
		for i := 0; i < n; i++ {
			var (
				v   float64
				err error
			)
			if (cmd == 'A' || cmd == 'a') && (i == 3 || i == 4) {
				v, err = sc.flag()
			} else {
				v, err = sc.number()
			}
			if err != nil {
				return fmt.Errorf("svgpath: command %c at offset %d: %w", cmd, offset, err)
			}
			if isLength(cmd, i) {
				v *= c.scale
			}
			c.points = append(c.points, v)
		}
		if err := c.exec(cmd); err != nil {
			return fmt.Errorf("svgpath: command %c at offset %d: %w", cmd, offset, err)
		}

		// subsequent pairs after a moveto are implicit lineto
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
	return nil
}

func (c *pathCursor) line(x, y float64) {
	c.path.Line(toFixedP(x, y))
	c.placeX, c.placeY = x, y
}

// exec adds the command `cmd`, whose parameters are
// stored in c.points, to the path.
func (c *pathCursor) exec(cmd byte) error {
	rel := cmd >= 'a'
	key := cmd
	if rel {
		key -= 'a' - 'A'
	}
	if !c.started && key != 'M' {
		return errNoMoveTo
	}
	if c.closed && key != 'M' {
		// a command following a close path starts at the sub-path start
		c.path.Start(toFixedP(c.startX, c.startY))
		c.closed = false
	}

	var ox, oy float64 // origin for relative coordinates
	if rel {
		ox, oy = c.placeX, c.placeY
	}
	p := c.points
	switch key {
	case 'M':
		c.placeX, c.placeY = p[0]+ox, p[1]+oy
		c.startX, c.startY = c.placeX, c.placeY
		c.path.Start(toFixedP(c.placeX, c.placeY))
		c.started, c.closed = true, false
	case 'L':
		c.line(p[0]+ox, p[1]+oy)
	case 'H':
		c.line(p[0]+ox, c.placeY)
	case 'V':
		c.line(c.placeX, p[0]+oy)
	case 'C':
		x1, y1 := p[0]+ox, p[1]+oy
		x2, y2 := p[2]+ox, p[3]+oy
		x, y := p[4]+ox, p[5]+oy
		c.path.CubeBezier(toFixedP(x1, y1), toFixedP(x2, y2), toFixedP(x, y))
		c.placeX, c.placeY = x, y
		c.cntlPtX, c.cntlPtY = x2, y2
	case 'S':
		x1, y1 := c.reflectControl('C', 'S')
		x2, y2 := p[0]+ox, p[1]+oy
		x, y := p[2]+ox, p[3]+oy
		c.path.CubeBezier(toFixedP(x1, y1), toFixedP(x2, y2), toFixedP(x, y))
		c.placeX, c.placeY = x, y
		c.cntlPtX, c.cntlPtY = x2, y2
	case 'Q':
		x1, y1 := p[0]+ox, p[1]+oy
		x, y := p[2]+ox, p[3]+oy
		c.path.QuadBezier(toFixedP(x1, y1), toFixedP(x, y))
		c.placeX, c.placeY = x, y
		c.cntlPtX, c.cntlPtY = x1, y1
	case 'T':
		x1, y1 := c.reflectControl('Q', 'T')
		x, y := p[0]+ox, p[1]+oy
		c.path.QuadBezier(toFixedP(x1, y1), toFixedP(x, y))
		c.placeX, c.placeY = x, y
		c.cntlPtX, c.cntlPtY = x1, y1
	case 'A':
		c.arc(p[0], p[1], p[2], p[3], p[4], p[5]+ox, p[6]+oy)
	case 'Z':
		c.path.Stop(true)
		c.placeX, c.placeY = c.startX, c.startY
		c.closed = true
	}

	switch key {
	case 'C', 'S', 'Q', 'T':
	default:
		c.cntlPtX, c.cntlPtY = c.placeX, c.placeY
	}
	c.lastKey = key
	return nil
}

// reflectControl returns the reflection of the last control point
// around the current point, if the previous command is one of `keys`,
// or the current point otherwise.
func (c *pathCursor) reflectControl(keys ...byte) (x, y float64) {
	for _, k := range keys {
		if c.lastKey == k {
			return 2*c.placeX - c.cntlPtX, 2*c.placeY - c.cntlPtY
		}
	}
	return c.placeX, c.placeY
}

// arc adds an elliptical arc from the current point to (x, y)
func (c *pathCursor) arc(rx, ry, rot, largeArc, sweep, x, y float64) {
	if x == c.placeX && y == c.placeY {
		return // omitted, per SVG implementation notes
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		c.line(x, y)
		return
	}
	points := []float64{rx, ry, rot, largeArc, sweep, x, y}
	cx, cy := findEllipseCenter(&points[0], &points[1], rot*math.Pi/180, c.placeX,
		c.placeY, x, y, sweep == 0, largeArc == 0)
	c.placeX, c.placeY = c.path.addArc(points, cx, cy, c.placeX, c.placeY)
}

// scanner reads numbers and flags from path data.
type scanner struct {
	s   string
	pos int
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', ',':
		return true
	}
	return false
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }

func (sc *scanner) skipSeparators() {
	for sc.pos < len(sc.s) && isSeparator(sc.s[sc.pos]) {
		sc.pos++
	}
}

// done skips separators and reports whether the input is consumed
func (sc *scanner) done() bool {
	sc.skipSeparators()
	return sc.pos >= len(sc.s)
}

// number reads the next number. Numbers may follow each other
// without separator, as in "1.5.5" or "10-4".
func (sc *scanner) number() (float64, error) {
	sc.skipSeparators()
	s, start, i := sc.s, sc.pos, sc.pos
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, errParamMismatch
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	f, err := strconv.ParseFloat(s[start:i], 64)
	if err != nil {
		return 0, err
	}
	sc.pos = i
	return f, nil
}

// flag reads an arc flag, which is always a single character,
// so that "a10 10 0 0110 10" is valid.
func (sc *scanner) flag() (float64, error) {
	sc.skipSeparators()
	if sc.pos < len(sc.s) {
		switch sc.s[sc.pos] {
		case '0':
			sc.pos++
			return 0, nil
		case '1':
			sc.pos++
			return 1, nil
		}
	}
	return 0, errParamMismatch
}
