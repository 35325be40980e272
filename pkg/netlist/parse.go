package netlist

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// suffixMultiplier maps a SPICE SI suffix letter to its scale factor.
// Suffixes not in this table are ignored (multiplier 1), per spec.
var suffixMultiplier = map[byte]float64{
	'n': 1e-9,
	'u': 1e-6,
	'm': 1e-3,
	'k': 1e3,
	'M': 1e6,
	'g': 1e9,
}

var layerCommentRe = regexp.MustCompile(`^\*\s*layer:\s*(\w+),(\w+)\s+net:\s*(\d+)`)

// Parse reads a SPICE-like card stream and builds a Netlist. One card
// per line; continuation lines are not supported. Lines beginning with
// `*` are comments (the `* layer: ...` subform carries layer data);
// lines beginning with `.` are SPICE control cards and are tolerated
// but otherwise ignored, same as any other unrecognized leading
// character (forward compatibility with benchmark headers/options).
func Parse(r io.Reader) (*Netlist, error) {
	nl := New()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line[0] == '*' {
			if m := layerCommentRe.FindStringSubmatch(line); m != nil {
				netID, err := strconv.Atoi(m[3])
				if err != nil {
					continue
				}
				netType := VDD
				if m[2] == "GND" {
					netType = GND
				}
				nl.LayerComments = append(nl.LayerComments, LayerComment{
					NetID: netID,
					Net:   netType,
					Layer: m[1],
				})
			}
			continue
		}

		if line[0] == '.' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		kind := kindFromLetter(fields[0][0])
		if kind == Unknown {
			continue
		}

		if len(fields) < 4 {
			return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("card %q: expected <name> <node_a> <node_b> <value>", fields[0])}
		}

		value, err := ParseValue(fields[3])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Reason: fmt.Sprintf("card %q: %v", fields[0], err)}
		}

		a := nl.EnsureNode(fields[1])
		b := nl.EnsureNode(fields[2])
		nl.Connect(a, b, kind, value, fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return nl, nil
}

// ParseValue parses a strtod-compatible decimal (with optional
// exponent) followed by an optional single-letter SI suffix. Trailing
// garbage after the suffix, and unrecognized suffixes, are ignored
// (multiplier defaults to 1).
func ParseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	i := 0
	n := len(s)
	if i < n && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digitsStart := i
	for i < n && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i < n && s[i] == '.' {
		i++
		for i < n && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}
	if i == digitsStart || (i == digitsStart+1 && s[digitsStart] == '.') {
		return 0, fmt.Errorf("invalid numeric value %q", s)
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < n && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expStart := j
		for j < n && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > expStart {
			i = j
		}
	}

	num, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q: %v", s, err)
	}

	if i < n {
		if mult, ok := suffixMultiplier[s[i]]; ok {
			num *= mult
		}
		// Unrecognized suffix, or trailing garbage: multiplier stays 1.
	}

	return num, nil
}
