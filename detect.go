package keypad

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// metadataPlaceholder stands in for absent hardware id or description text
// so that absent values still participate in matching and listing.
const metadataPlaceholder = "unknown"

// Candidate is a serial port discovered during enumeration, with optional
// identifying metadata.
type Candidate struct {
	Device      string
	HardwareID  string
	Description string
}

// Candidates enumerates the serial ports present at call time. No caching,
// every call queries the OS again.
func Candidates() ([]Candidate, error) {
	details, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("listing ports: %w", err)
	}
	out := make([]Candidate, 0, len(details))
	for _, d := range details {
		c := Candidate{Device: d.Name, Description: d.Product}
		if d.IsUSB {
			c.HardwareID = fmt.Sprintf("USB VID:PID=%s:%s", strings.ToUpper(d.VID), strings.ToUpper(d.PID))
			if d.SerialNumber != "" {
				c.HardwareID += " SER=" + d.SerialNumber
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// MatchText returns the lower-cased "hardware id + description" string that
// autodetect patterns are tested against.
func (c Candidate) MatchText() string {
	return strings.ToLower(orPlaceholder(c.HardwareID) + " " + orPlaceholder(c.Description))
}

func orPlaceholder(s string) string {
	if s == "" {
		return metadataPlaceholder
	}
	return s
}

// Pattern matches port metadata containing a set of keywords as ordered
// substrings, with arbitrary text before, between and after the keywords.
type Pattern struct {
	keywords []string
}

// BuildPattern splits a phrase on whitespace into lower-cased keywords.
// An empty phrase yields a pattern that matches everything.
func BuildPattern(phrase string) Pattern {
	return Pattern{keywords: strings.Fields(strings.ToLower(phrase))}
}

// MatchString reports whether s contains every keyword as a substring at
// non-decreasing positions. Implemented as an explicit ordered scan so no
// pattern-engine escaping rules apply to the keywords.
func (p Pattern) MatchString(s string) bool {
	pos := 0
	for _, kw := range p.keywords {
		idx := strings.Index(s[pos:], kw)
		if idx < 0 {
			return false
		}
		pos += idx + len(kw)
	}
	return true
}

func (p Pattern) String() string {
	return "*" + strings.Join(p.keywords, "*") + "*"
}

// Match scans candidates in enumeration order and returns the device id of
// the last one whose metadata matches the pattern. A superseded earlier
// match is a diagnostic warning, not an error; so is finding nothing.
func Match(candidates []Candidate, pattern Pattern, log zerolog.Logger) (string, bool) {
	log.Debug().Stringer("pattern", pattern).Msg("autodetect search pattern")

	device := ""
	for _, c := range candidates {
		text := c.MatchText()
		log.Debug().Str("device", c.Device).Str("text", text).Msg("autodetect candidate")
		if !pattern.MatchString(text) {
			continue
		}
		if device != "" {
			log.Warn().
				Str("previous", device).
				Str("current", c.Device).
				Msg("multiple matches on autodetect, last match will be used; use -v and -l to investigate, and change -a or -d to fix this")
		}
		device = c.Device
		log.Debug().Str("device", device).Msg("autodetect match")
	}
	return device, device != ""
}

// SelectDevice returns the explicit override when given, otherwise the
// matcher's choice. No match yields an empty device id rather than an
// error; the open attempt is where that becomes fatal, which keeps list
// mode usable with zero matches.
func SelectDevice(candidates []Candidate, pattern Pattern, override string, log zerolog.Logger) string {
	matched, _ := Match(candidates, pattern, log)
	if override != "" {
		log.Debug().Str("autodetected", matched).Str("override", override).Msg("overriding autodetected device")
		return override
	}
	return matched
}
