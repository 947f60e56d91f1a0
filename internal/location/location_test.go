package location

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for cab := MinCabinet; cab <= MaxCabinet; cab++ {
		for row := MinRow; row <= MaxRow; row++ {
			for col := MinColumn; col <= MaxColumn; col++ {
				tuple, err := Encode(cab, row, col)
				if err != nil {
					t.Fatalf("Encode(%d,%d,%d) failed: %v", cab, row, col, err)
				}

				got, err := Decode(tuple)
				if err != nil {
					t.Fatalf("Decode(%v) failed: %v", tuple, err)
				}

				want := Coord{Cabinet: cab, Row: row, Column: col}
				if got != want {
					t.Errorf("Round-trip mismatch: got %+v, want %+v", got, want)
				}
			}
		}
	}
}

func TestEncodeOutOfRange(t *testing.T) {
	testCases := []struct {
		name          string
		cab, row, col int
	}{
		{"cabinet too low", 0, 1, 1},
		{"cabinet too high", 6, 1, 1},
		{"row too low", 1, 0, 1},
		{"row too high", 1, 7, 1},
		{"column too low", 1, 1, 0},
		{"column too high", 1, 1, 5},
		{"negative", -1, -1, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Encode(tc.cab, tc.row, tc.col); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Encode(%d,%d,%d) = %v, want ErrOutOfRange", tc.cab, tc.row, tc.col, err)
			}
		})
	}
}

func TestDecodeStringLegacyForms(t *testing.T) {
	want := Coord{Cabinet: 2, Row: 3, Column: 4}

	testCases := []struct {
		name  string
		input string
	}{
		{"tagged", "cab2-row3-col4"},
		{"tagged upper case", "CAB2-ROW3-COL4"},
		{"tagged mixed case", "Cab2-Row3-Col4"},
		{"bare numbers", "2,3,4"},
		{"bare numbers with spaces", " 2, 3, 4 "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeString(tc.input)
			if err != nil {
				t.Fatalf("DecodeString(%q) failed: %v", tc.input, err)
			}
			if got != want {
				t.Errorf("DecodeString(%q) = %+v, want %+v", tc.input, got, want)
			}
		})
	}
}

func TestDecodeTupleMatchesLegacyString(t *testing.T) {
	fromTuple, err := Decode(Tuple{"cab2", "row3", "col4"})
	if err != nil {
		t.Fatalf("Decode tuple failed: %v", err)
	}
	fromString, err := DecodeString("cab2-row3-col4")
	if err != nil {
		t.Fatalf("DecodeString failed: %v", err)
	}
	if fromTuple != fromString {
		t.Errorf("Tuple and legacy string disagree: %+v vs %+v", fromTuple, fromString)
	}
}

func TestDecodePartialSegments(t *testing.T) {
	// Older data sometimes carries incomplete addresses; missing
	// segments decode to the placeholder 0 instead of failing.
	got, err := Decode(Tuple{"cab2", "", "col4"})
	if err != nil {
		t.Fatalf("Decode partial tuple failed: %v", err)
	}
	want := Coord{Cabinet: 2, Row: 0, Column: 4}
	if got != want {
		t.Errorf("Decode partial = %+v, want %+v", got, want)
	}

	gotStr, err := DecodeString("cab2-row3")
	if err != nil {
		t.Fatalf("DecodeString partial failed: %v", err)
	}
	wantStr := Coord{Cabinet: 2, Row: 3, Column: 0}
	if gotStr != wantStr {
		t.Errorf("DecodeString partial = %+v, want %+v", gotStr, wantStr)
	}
}

func TestDecodeUnparseable(t *testing.T) {
	testCases := []string{
		"",
		"garbage",
		"x-y-z",
		"1,2",
		"1,2,3,4",
		"a,b,c",
	}

	for _, input := range testCases {
		if _, err := DecodeString(input); !errors.Is(err, ErrUnparseable) {
			t.Errorf("DecodeString(%q) = %v, want ErrUnparseable", input, err)
		}
	}

	if _, err := Decode(Tuple{"", "", ""}); !errors.Is(err, ErrUnparseable) {
		t.Errorf("Decode(empty tuple) = %v, want ErrUnparseable", err)
	}
}

func TestPartialRoundTripThroughTuple(t *testing.T) {
	// A partial address must survive storage: Coord -> Tuple -> Coord.
	orig := Coord{Cabinet: 2, Row: 0, Column: 4}
	got, err := Decode(orig.Tuple())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got != orig {
		t.Errorf("Partial round-trip = %+v, want %+v", got, orig)
	}
}

func TestLabel(t *testing.T) {
	testCases := []struct {
		tuple Tuple
		want  string
	}{
		{Tuple{"cab2", "row3", "col4"}, "Cabinet 2, Row 3, Column 4"},
		{Tuple{"cab2", "", "col4"}, "Cabinet 2, Row ?, Column 4"},
		{Tuple{"", "", ""}, "Unknown location"},
	}

	for _, tc := range testCases {
		if got := Label(tc.tuple); got != tc.want {
			t.Errorf("Label(%v) = %q, want %q", tc.tuple, got, tc.want)
		}
	}
}

func TestCoordCode(t *testing.T) {
	c := Coord{Cabinet: 1, Row: 5, Column: 2}
	if got := c.Code(); got != "cab1-row5-col2" {
		t.Errorf("Code() = %q, want cab1-row5-col2", got)
	}

	// Code output must feed back through the legacy decoder.
	back, err := DecodeString(c.Code())
	if err != nil {
		t.Fatalf("DecodeString(Code()) failed: %v", err)
	}
	if back != c {
		t.Errorf("Code round-trip = %+v, want %+v", back, c)
	}
}

func TestPlanogram(t *testing.T) {
	at := func(cab, row, col int) Tuple {
		tuple, err := Encode(cab, row, col)
		if err != nil {
			t.Fatalf("Encode(%d,%d,%d) failed: %v", cab, row, col, err)
		}
		return tuple
	}

	placements := []Placement{
		{ItemID: "bolt1", At: at(2, 1, 1)},
		{ItemID: "nut2", At: at(2, 1, 1)},
		{ItemID: "wire3", At: at(2, 6, 4)},
		{ItemID: "elsewhere4", At: at(3, 1, 1)},
		{ItemID: "partial5", At: Tuple{"cab2", "", "col1"}},
	}

	grid, err := Planogram(2, placements)
	if err != nil {
		t.Fatalf("Planogram failed: %v", err)
	}

	if got := grid[0][0]; len(got) != 2 || got[0] != "bolt1" || got[1] != "nut2" {
		t.Errorf("grid[0][0] = %v, want [bolt1 nut2]", got)
	}
	if got := grid[5][3]; len(got) != 1 || got[0] != "wire3" {
		t.Errorf("grid[5][3] = %v, want [wire3]", got)
	}
	if got := grid[0][1]; len(got) != 0 {
		t.Errorf("grid[0][1] = %v, want empty", got)
	}

	if _, err := Planogram(9, placements); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Planogram(9) = %v, want ErrOutOfRange", err)
	}
}
