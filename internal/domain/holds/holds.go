package holds

import "sort"

// Role is the constraint a lit hold carries on the board. A hold with no
// entry in a Configuration is simply not part of the problem; "not used" is
// represented by absence, never by a stored value.
type Role string

const (
	// RoleStart must be touched first to establish on the problem.
	RoleStart Role = "Start"
	// RoleFoot may only be touched with feet.
	RoleFoot Role = "Foot"
	// RoleHand may be touched with hands or feet.
	RoleHand Role = "Hand"
	// RoleFinish must be touched to complete the problem.
	RoleFinish Role = "Finish"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStart, RoleFoot, RoleHand, RoleFinish:
		return true
	default:
		return false
	}
}

// Color is the LED color wall controllers must show for the role. This
// mapping is a fixed external contract shared with every board firmware.
func (r Role) Color() string {
	switch r {
	case RoleStart:
		return "green"
	case RoleFoot:
		return "yellow"
	case RoleHand:
		return "blue"
	case RoleFinish:
		return "pink"
	default:
		return ""
	}
}

// Configuration maps hold identifiers to the role of each used hold.
// Storage stays proportional to problem complexity, not board size.
type Configuration map[string]Role

func NewConfiguration() Configuration {
	return Configuration{}
}

func (c Configuration) Set(holdID string, role Role) {
	c[holdID] = role
}

func (c Configuration) Clear(holdID string) {
	delete(c, holdID)
}

// Role reports the role of a hold; ok is false for holds not in the problem.
func (c Configuration) Role(holdID string) (Role, bool) {
	r, ok := c[holdID]
	return r, ok
}

func (c Configuration) Len() int {
	return len(c)
}

// HoldIDs returns every used hold identifier in lexical order.
func (c Configuration) HoldIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ByRole returns the identifiers carrying role, in lexical order.
func (c Configuration) ByRole(role Role) []string {
	var ids []string
	for id, r := range c {
		if r == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (c Configuration) CountByRole(role Role) int {
	n := 0
	for _, r := range c {
		if r == role {
			n++
		}
	}
	return n
}

func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	for id, r := range c {
		out[id] = r
	}
	return out
}

func (c Configuration) Equal(other Configuration) bool {
	if len(c) != len(other) {
		return false
	}
	for id, r := range c {
		if or, ok := other[id]; !ok || or != r {
			return false
		}
	}
	return true
}
