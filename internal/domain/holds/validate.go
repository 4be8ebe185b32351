package holds

import "fmt"

// Board is the geometry collaborator consulted during validation. Only the
// membership check is needed here; the full geometry lives elsewhere.
type Board interface {
	HasHold(holdID string) bool
}

const (
	CodeUnknownHoldIdentifier = "unknown_hold_identifier"
	CodeInvalidRole           = "invalid_role"
	CodeInvalidStartCount     = "invalid_start_count"
	CodeInvalidFinishCount    = "invalid_finish_count"
	CodeInsufficientHolds     = "insufficient_holds"
)

// ValidationError reports the first structural rule a configuration breaks.
type ValidationError struct {
	Code   string
	HoldID string // offending key, set for per-hold violations
	Count  int    // observed count, set for count violations
}

func (e *ValidationError) Error() string {
	switch e.Code {
	case CodeUnknownHoldIdentifier:
		return fmt.Sprintf("hold %q is not a position on this board", e.HoldID)
	case CodeInvalidRole:
		return fmt.Sprintf("hold %q carries an unknown role", e.HoldID)
	case CodeInvalidStartCount:
		return fmt.Sprintf("problem must have 1 or 2 start holds, got %d", e.Count)
	case CodeInvalidFinishCount:
		return fmt.Sprintf("problem must have 1 or 2 finish holds, got %d", e.Count)
	case CodeInsufficientHolds:
		return fmt.Sprintf("problem must use at least 2 holds, got %d", e.Count)
	default:
		return "invalid hold configuration"
	}
}

// Validate runs the structural checks in contract order, short-circuiting on
// the first failure. It is pure: no side effects, no persistence.
//
// Order: every identifier is a valid board position, start count is 1 or 2,
// finish count is 1 or 2, at least 2 holds are used in total.
func Validate(c Configuration, board Board) error {
	// Sorted iteration keeps the reported hold deterministic.
	for _, id := range c.HoldIDs() {
		if !board.HasHold(id) {
			return &ValidationError{Code: CodeUnknownHoldIdentifier, HoldID: id}
		}
		if !c[id].Valid() {
			return &ValidationError{Code: CodeInvalidRole, HoldID: id}
		}
	}

	if n := c.CountByRole(RoleStart); n < 1 || n > 2 {
		return &ValidationError{Code: CodeInvalidStartCount, Count: n}
	}
	if n := c.CountByRole(RoleFinish); n < 1 || n > 2 {
		return &ValidationError{Code: CodeInvalidFinishCount, Count: n}
	}
	if c.Len() < 2 {
		return &ValidationError{Code: CodeInsufficientHolds, Count: c.Len()}
	}
	return nil
}
