package climbs

import "fmt"

// State is the lifecycle position of a boulder problem.
type State string

const (
	StateDraft     State = "draft"
	StatePublished State = "published"
	StateArchived  State = "archived"
)

// StateError reports an illegal lifecycle transition.
type StateError struct {
	From State
	To   State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s", e.From, e.To)
}

const (
	VoteCodeInvalidStarRating   = "invalid_star_rating"
	VoteCodeInvalidGradeFormat  = "invalid_grade_format"
	VoteCodeProblemNotPublished = "problem_not_published"
)

// VoteError reports a rejected vote submission: bad rating or grade shape,
// or a target problem that is not voteable in its current state.
type VoteError struct {
	Code   string
	Detail string
}

func (e *VoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("vote rejected (%s): %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("vote rejected (%s)", e.Code)
}

const (
	TagCodeInvalidFormat = "invalid_tag_format"
)

// TagError reports a tag that fails the publish format check.
type TagError struct {
	Tag string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("invalid tag format: %q", e.Tag)
}
