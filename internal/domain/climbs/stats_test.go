package climbs

import "testing"

func TestRecordAttempt(t *testing.T) {
	s := &UserStatistics{}

	attempts := []struct {
		grade   string
		success bool
	}{
		{"V3", false},
		{"V3", true},
		{"V5", true},
		{"V4", true}, // easier send, best must stay V5
		{"V7", false},
	}
	for _, a := range attempts {
		if err := s.RecordAttempt(a.grade, a.success); err != nil {
			t.Fatalf("RecordAttempt(%s, %v): %v", a.grade, a.success, err)
		}
	}

	if s.TotalAttempts != 5 {
		t.Fatalf("TotalAttempts = %d, want 5", s.TotalAttempts)
	}
	if s.TotalAscents != 3 {
		t.Fatalf("TotalAscents = %d, want 3", s.TotalAscents)
	}
	if s.PersonalBestGrade != "V5" {
		t.Fatalf("PersonalBestGrade = %q, want V5", s.PersonalBestGrade)
	}

	dist := s.Distribution()
	if dist["V3"] != 2 || dist["V4"] != 1 || dist["V5"] != 1 || dist["V7"] != 1 {
		t.Fatalf("Distribution = %v", dist)
	}
}

func TestRecordAttemptRejectsBadGrade(t *testing.T) {
	s := &UserStatistics{}
	if err := s.RecordAttempt("5.12a", true); err == nil {
		t.Fatalf("RecordAttempt accepted a non-V grade")
	}
	if s.TotalAttempts != 0 || s.TotalAscents != 0 {
		t.Fatalf("rejected attempt mutated statistics: %+v", s)
	}
}

func TestValidTag(t *testing.T) {
	valid := []string{"overhang", "crimpy", "comp-style", "power_endurance", "V5", "2024"}
	for _, tag := range valid {
		if !ValidTag(tag) {
			t.Fatalf("ValidTag(%q) = false", tag)
		}
	}
	invalid := []string{"", "two words", "näck", "semi;colon", "tag!", "a b"}
	for _, tag := range invalid {
		if ValidTag(tag) {
			t.Fatalf("ValidTag(%q) = true", tag)
		}
	}
}
