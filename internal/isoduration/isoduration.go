// Package isoduration parses the ISO-8601 duration strings the YouTube Data
// API reports in contentDetails.duration (for example "PT5M30S").
package isoduration

import (
	"fmt"
	"strings"
	"time"
)

// Parse converts an ISO-8601 duration into a time.Duration. The date part
// supports weeks and days (YouTube reports videos longer than a day as
// "P1DT2H..."); the time part supports hours, minutes and seconds. Year and
// month designators are rejected because they have no fixed length.
func Parse(s string) (time.Duration, error) {
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q: missing P designator", s)
	}

	rest := s[1:]
	if rest == "" {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q: empty", s)
	}

	var total time.Duration
	inTime := false
	sawComponent := false

	for len(rest) > 0 {
		if rest[0] == 'T' {
			if inTime {
				return 0, fmt.Errorf("invalid ISO-8601 duration %q: repeated T designator", s)
			}
			inTime = true
			rest = rest[1:]
			continue
		}

		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: expected digits at %q", s, rest)
		}
		if i == len(rest) {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: trailing number without designator", s)
		}

		value := int64(0)
		for j := 0; j < i; j++ {
			value = value*10 + int64(rest[j]-'0')
		}

		unit, err := designatorUnit(rest[i], inTime)
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, err)
		}

		total += time.Duration(value) * unit
		sawComponent = true
		rest = rest[i+1:]
	}

	if !sawComponent {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q: no components", s)
	}

	return total, nil
}

func designatorUnit(designator byte, inTime bool) (time.Duration, error) {
	if inTime {
		switch designator {
		case 'H':
			return time.Hour, nil
		case 'M':
			return time.Minute, nil
		case 'S':
			return time.Second, nil
		}
		return 0, fmt.Errorf("unknown time designator %q", string(designator))
	}

	switch designator {
	case 'W':
		return 7 * 24 * time.Hour, nil
	case 'D':
		return 24 * time.Hour, nil
	case 'Y', 'M':
		return 0, fmt.Errorf("unsupported designator %q: years and months have no fixed length", string(designator))
	}
	return 0, fmt.Errorf("unknown date designator %q", string(designator))
}
