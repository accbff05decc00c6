// Package selection resolves textual cell selections and detects table
// shaped regions in a snapshot.
package selection

import (
	"fmt"
	"strings"

	"github.com/ukaji3/gridcalc/pkg/gridcalc/ref"
)

// ParseRanges parses a comma separated list of ranges such as
// "A1:B2, $C$5" or "'Sheet 1'!A1:A3". Absolute markers and sheet
// prefixes are ignored.
func ParseRanges(text string) ([]ref.Range, error) {
	var ranges []ref.Range
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if idx := strings.LastIndex(part, "!"); idx >= 0 {
			part = part[idx+1:]
		}
		part = strings.ReplaceAll(part, "$", "")

		r, err := ref.ParseRange(strings.ToUpper(part))
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("%w: empty selection", ref.ErrInvalidReference)
	}
	return ranges, nil
}

// Parse expands a selection into addresses. Ranges are expanded row-major
// in the order written and repeated addresses keep their first position.
func Parse(text string) ([]ref.Address, error) {
	ranges, err := ParseRanges(text)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, r := range ranges {
		total += r.Size()
		if total > ref.MaxRangeSize {
			return nil, fmt.Errorf("%w: %s", ref.ErrRangeTooLarge, text)
		}
	}

	seen := make(map[ref.Address]struct{}, total)
	out := make([]ref.Address, 0, total)
	for _, r := range ranges {
		for _, a := range r.Addresses() {
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out, nil
}
