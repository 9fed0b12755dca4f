// Package builder sequences and runs library builds from the configuration.
package builder

import (
	"fmt"
	"strings"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/depend"
	"github.com/axekit/axe/internal/logging"
	"github.com/axekit/axe/internal/state"
)

type Builder struct {
	cfg   config.Config
	deps  depend.Map
	state *state.Manager
}

// New returns a Builder over cfg. st may be nil, in which case every
// library is always rebuilt and nothing is recorded.
func New(cfg config.Config, st *state.Manager) *Builder {
	return &Builder{cfg: cfg, deps: cfg.DependencyMap(), state: st}
}

// Plan is the build order for a request.
type Plan struct {
	// Libraries are configured libraries, dependencies first.
	Libraries []string
	// External are dependencies that are linked but not built here.
	External []string
}

// Plan completes names with their transitive dependencies and orders them
// so every library comes after what it depends on.
func (b *Builder) Plan(names []string) (Plan, error) {
	order, err := depend.Order(depend.Complete(names, b.deps), b.deps, depend.Ascending)
	if err != nil {
		return Plan{}, err
	}
	var p Plan
	for _, n := range order {
		if _, ok := b.cfg.Library(n); ok {
			p.Libraries = append(p.Libraries, n)
		} else {
			p.External = append(p.External, n)
		}
	}
	logging.Debug(fmt.Sprintf("build plan for %s: %s", strings.Join(names, ", "), strings.Join(p.Libraries, " -> ")))
	return p, nil
}

// LinkOrder completes names and orders them for a linker command line:
// dependents first, the most foundational libraries last.
func (b *Builder) LinkOrder(names []string) ([]string, error) {
	return depend.CompleteAndOrder(names, b.deps)
}

// LinkFlags renders -l flags for libraries in link order.
func LinkFlags(order []string) []string {
	out := make([]string, 0, len(order))
	for _, n := range order {
		out = append(out, "-l"+n)
	}
	return out
}
