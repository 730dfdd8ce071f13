package grammex

import (
	"fmt"
	"regexp"
	"strconv"
)

// compiledPattern wraps a regexp.Regexp anchored to match only at the
// position it is asked to try, per spec.md §4.B's pattern(p)
// contract: match-at-offset, numbered/named capture spans, and a
// nullability query answered once at compile time.
type compiledPattern struct {
	source     string
	re         *regexp.Regexp
	nullable   bool
	groupNames []string // index i-1 is group i's declared name, "" if unnamed
}

// capture is one synthesized capture span from a pattern match.
type capture struct {
	name  string
	start int
	end   int
}

func compilePattern(expr string) (*compiledPattern, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)`)
	if err != nil {
		return nil, fmt.Errorf("grammex: invalid pattern %q: %v", expr, err)
	}

	names := re.SubexpNames() // names[0] is the whole match, always ""
	groupNames := names[1:]
	total := len(groupNames)
	named := 0
	for _, name := range groupNames {
		if name != "" {
			named++
		}
	}
	if total > 0 && named > 0 && named != total {
		return nil, fmt.Errorf("grammex: %w: pattern %q mixes named and unnamed capture groups", ErrMixedCaptureGroups, expr)
	}

	return &compiledPattern{
		source:     expr,
		re:         re,
		nullable:   re.MatchString(""),
		groupNames: groupNames,
	}, nil
}

// find attempts a match anchored at offset and reports the overall
// match end (absolute offset) and its capture spans. ok is false when
// the pattern does not match at offset.
func (p *compiledPattern) find(input string, offset int) (end int, captures []capture, ok bool) {
	loc := p.re.FindStringSubmatchIndex(input[offset:])
	if loc == nil {
		return 0, nil, false
	}

	for i := 1; 2*i+1 < len(loc); i++ {
		start, stop := loc[2*i], loc[2*i+1]
		if start < 0 {
			continue // unmatched group, per spec.md §4.F skip it
		}
		name := p.groupNames[i-1]
		if name == "" {
			name = strconv.Itoa(i)
		}
		captures = append(captures, capture{name: name, start: offset + start, end: offset + stop})
	}
	return offset + loc[1], captures, true
}
