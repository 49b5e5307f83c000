package guard

import (
	"fmt"
	"path"
	"strings"
)

// pattern is a route template split into segments.  "[name]" matches any one
// non-empty segment; a trailing "[...name]" matches one or more.
type pattern struct {
	raw  string
	segs []string
	rest bool
}

func compilePattern(raw string) (pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return pattern{}, fmt.Errorf("guard: pattern %q must start with /", raw)
	}
	segs := splitPath(raw)
	p := pattern{raw: raw, segs: segs}
	for i, s := range segs {
		if !strings.HasPrefix(s, "[...") {
			continue
		}
		if i != len(segs)-1 || !strings.HasSuffix(s, "]") {
			return pattern{}, fmt.Errorf("guard: catch-all must be the last segment in %q", raw)
		}
		p.rest = true
	}
	return p, nil
}

func (p pattern) match(segs []string) bool {
	n := len(p.segs)
	if p.rest {
		if len(segs) < n {
			return false
		}
		n--
	} else if len(segs) != n {
		return false
	}
	for i := 0; i < n; i++ {
		if isParam(p.segs[i]) {
			if segs[i] == "" {
				return false
			}
			continue
		}
		if p.segs[i] != segs[i] {
			return false
		}
	}
	return true
}

func isParam(seg string) bool {
	return len(seg) > 2 && seg[0] == '[' && seg[len(seg)-1] == ']'
}

// splitPath cleans p and returns its segments; "/" yields none.
func splitPath(p string) []string {
	p = path.Clean("/" + p)
	if p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
