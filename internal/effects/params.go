package effects

import (
	"strings"

	"github.com/bnema/wayseat/internal/logger"
)

// Params are the options passed to a plugin after its name, for example
// "debug disable: minimize, map;".
type Params struct {
	Raw      string
	Debug    bool
	Disabled Feature
}

// ParseParams understands the "debug" token and a "disable:" list terminated
// by a semicolon. Unknown effect names in the list are logged and skipped.
func ParseParams(raw string) Params {
	p := Params{Raw: raw}
	rest := raw

	if i := strings.Index(rest, "disable:"); i >= 0 {
		list := rest[i+len("disable:"):]
		tail := ""
		if j := strings.Index(list, ";"); j >= 0 {
			list, tail = list[:j], list[j+1:]
		}
		for _, name := range strings.Split(list, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}
			f, err := ParseFeature(name)
			if err != nil {
				logger.Warnf("Ignoring disable entry: %v", err)
				continue
			}
			p.Disabled |= f
		}
		rest = rest[:i] + " " + tail
	}

	for _, tok := range strings.Fields(rest) {
		if tok == "debug" {
			p.Debug = true
		}
	}
	return p
}
