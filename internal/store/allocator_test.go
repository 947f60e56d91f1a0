package store

import "testing"

func TestBuildItemID(t *testing.T) {
	testCases := []struct {
		name   string
		suffix int64
		want   string
	}{
		{"M3 Hex Bolt", 17, "m3hexbolt17"},
		{"Jumper Wires (40pc)", 3, "jumperwires40pc3"},
		{"Überlänge Schraube", 8, "berlngeschraube8"},
		{"---", 1, "1"},
		{"abc", 120, "abc120"},
	}

	for _, tc := range testCases {
		if got := BuildItemID(tc.name, tc.suffix); got != tc.want {
			t.Errorf("BuildItemID(%q, %d) = %q, want %q", tc.name, tc.suffix, got, tc.want)
		}
	}
}

func TestBuildItemIDStripsToLowerAlnum(t *testing.T) {
	id := BuildItemID("WD-40 Spray!", 9)
	for _, r := range id {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			t.Fatalf("BuildItemID produced non [a-z0-9] rune %q in %q", r, id)
		}
	}
	if id != "wd40spray9" {
		t.Errorf("BuildItemID = %q, want wd40spray9", id)
	}
}
