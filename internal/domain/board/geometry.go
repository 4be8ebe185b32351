package board

import (
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed boards/*.yaml
var boardFS embed.FS

// Geometry describes one board model: the set of hold positions a problem
// may reference. Positions are addressed column-letter + row-number ("A1"
// bottom-left through e.g. "L12"), so membership is a parse, not a lookup.
type Geometry struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"display_name"`
	Columns     int    `yaml:"columns"`
	Rows        int    `yaml:"rows"`
}

// HasHold reports whether id names a valid position on this board.
func (g *Geometry) HasHold(id string) bool {
	col, row, ok := parseHoldID(id)
	if !ok {
		return false
	}
	return col >= 1 && col <= g.Columns && row >= 1 && row <= g.Rows
}

func (g *Geometry) HoldCount() int {
	return g.Columns * g.Rows
}

// parseHoldID splits "C7" into column 3, row 7. Lowercase letters, leading
// zeros and out-of-alphabet columns are rejected.
func parseHoldID(id string) (col, row int, ok bool) {
	if len(id) < 2 {
		return 0, 0, false
	}
	c := id[0]
	if c < 'A' || c > 'Z' {
		return 0, 0, false
	}
	digits := id[1:]
	if digits[0] == '0' {
		return 0, 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, 0, false
	}
	return int(c-'A') + 1, n, true
}

// Registry holds every board model shipped with the binary.
type Registry struct {
	boards map[string]*Geometry
}

// LoadRegistry parses the embedded board files. Called once at startup.
func LoadRegistry() (*Registry, error) {
	entries, err := boardFS.ReadDir("boards")
	if err != nil {
		return nil, fmt.Errorf("read embedded boards: %w", err)
	}

	boards := make(map[string]*Geometry, len(entries))
	for _, entry := range entries {
		raw, err := boardFS.ReadFile("boards/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read board file %s: %w", entry.Name(), err)
		}
		var g Geometry
		if err := yaml.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("parse board file %s: %w", entry.Name(), err)
		}
		if err := g.check(); err != nil {
			return nil, fmt.Errorf("board file %s: %w", entry.Name(), err)
		}
		if _, dup := boards[g.Name]; dup {
			return nil, fmt.Errorf("board file %s: duplicate board name %q", entry.Name(), g.Name)
		}
		boards[g.Name] = &g
	}
	if len(boards) == 0 {
		return nil, fmt.Errorf("no board definitions embedded")
	}
	return &Registry{boards: boards}, nil
}

func (g *Geometry) check() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("missing name")
	}
	if g.Columns < 1 || g.Columns > 26 {
		return fmt.Errorf("columns must be 1..26, got %d", g.Columns)
	}
	if g.Rows < 1 {
		return fmt.Errorf("rows must be positive, got %d", g.Rows)
	}
	return nil
}

// Lookup resolves a board model by name.
func (r *Registry) Lookup(name string) (*Geometry, bool) {
	g, ok := r.boards[name]
	return g, ok
}

// Names lists every registered board model, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.boards))
	for name := range r.boards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
