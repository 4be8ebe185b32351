package climbs

import "testing"

func TestParseGrade(t *testing.T) {
	cases := []struct {
		input   string
		want    Grade
		wantErr bool
	}{
		{input: "V0", want: 0},
		{input: "V5", want: 5},
		{input: "V10", want: 10},
		{input: "V17", want: 17},
		{input: "V18", wantErr: true},
		{input: "V-1", wantErr: true},
		{input: "V+7", wantErr: true},
		{input: "V07", wantErr: true},
		{input: "v5", wantErr: true},
		{input: "VB", wantErr: true},
		{input: "V", wantErr: true},
		{input: "V5a", wantErr: true},
		{input: " V5", wantErr: true},
		{input: "5.10a", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseGrade(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseGrade(%q) accepted, got %v", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGrade(%q): %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("ParseGrade(%q) = %v, want %v", tc.input, got, tc.want)
			}
			if got.String() != tc.input {
				t.Fatalf("String() = %q, want %q", got.String(), tc.input)
			}
		})
	}
}
