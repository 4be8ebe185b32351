package board

import "testing"

func TestLoadRegistry(t *testing.T) {
	reg, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}

	names := reg.Names()
	if len(names) < 2 {
		t.Fatalf("expected at least 2 embedded boards, got %v", names)
	}

	g, ok := reg.Lookup("kilter_original")
	if !ok {
		t.Fatalf("kilter_original not registered")
	}
	if g.Columns != 12 || g.Rows != 12 {
		t.Fatalf("kilter_original geometry = %dx%d", g.Columns, g.Rows)
	}
	if _, ok := reg.Lookup("kilter_homewall"); !ok {
		t.Fatalf("kilter_homewall not registered")
	}
	if g.HoldCount() != 144 {
		t.Fatalf("HoldCount = %d, want 144", g.HoldCount())
	}

	if _, ok := reg.Lookup("moonboard"); ok {
		t.Fatalf("unknown board resolved")
	}
}

func TestGeometryHasHold(t *testing.T) {
	g := &Geometry{Name: "test", Columns: 12, Rows: 12}

	cases := []struct {
		id   string
		want bool
	}{
		{"A1", true},
		{"L12", true},
		{"F7", true},
		{"M1", false},  // column past L
		{"A13", false}, // row past 12
		{"A0", false},
		{"a1", false},  // lowercase
		{"A01", false}, // leading zero
		{"A", false},
		{"", false},
		{"1A", false},
		{"AA1", false},
	}
	for _, tc := range cases {
		if got := g.HasHold(tc.id); got != tc.want {
			t.Fatalf("HasHold(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}
