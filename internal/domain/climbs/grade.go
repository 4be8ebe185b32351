package climbs

import (
	"fmt"
	"strconv"
	"strings"
)

// Grade is a V-scale (Hueco) bouldering difficulty. This system accepts
// V0 through V17.
type Grade int

const (
	MinGrade Grade = 0
	MaxGrade Grade = 17
)

func (g Grade) Valid() bool {
	return g >= MinGrade && g <= MaxGrade
}

func (g Grade) String() string {
	return "V" + strconv.Itoa(int(g))
}

// ParseGrade parses strings of the form "V<n>". Anything else fails: no
// whitespace, no lowercase v, no "+"/"-" suffixes, no leading zeros.
func ParseGrade(s string) (Grade, error) {
	if !strings.HasPrefix(s, "V") {
		return 0, fmt.Errorf("grade %q: must start with V", s)
	}
	digits := s[1:]
	if digits == "" {
		return 0, fmt.Errorf("grade %q: missing number", s)
	}
	if len(digits) > 1 && digits[0] == '0' {
		return 0, fmt.Errorf("grade %q: leading zero", s)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, fmt.Errorf("grade %q: not a V-scale grade", s)
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("grade %q: not a V-scale grade", s)
	}
	g := Grade(n)
	if !g.Valid() {
		return 0, fmt.Errorf("grade %q: outside accepted range %s..%s", s, MinGrade, MaxGrade)
	}
	return g, nil
}
