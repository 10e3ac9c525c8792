package world

import "testing"

func TestDirectionBetween(t *testing.T) {
	origin := HexCoord{}
	for i, d := range HexNeighborDirections {
		got, ok := DirectionBetween(origin, d)
		if !ok || got != Direction(i) {
			t.Errorf("DirectionBetween(origin, %v) = (%v, %v), want (%v, true)", d, got, ok, Direction(i))
		}
	}
	if _, ok := DirectionBetween(origin, HexCoord{Q: 2, R: -1}); ok {
		t.Error("non-adjacent pair reported a direction")
	}
	if _, ok := DirectionBetween(origin, origin); ok {
		t.Error("identical coordinates reported a direction")
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		a, b HexCoord
		want int
	}{
		{HexCoord{0, 0}, HexCoord{0, 0}, 0},
		{HexCoord{0, 0}, HexCoord{1, 0}, 1},
		{HexCoord{0, 0}, HexCoord{2, -1}, 2},
		{HexCoord{-2, 3}, HexCoord{1, -1}, 4},
		{HexCoord{2, 2}, HexCoord{0, 2}, 2},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestOffsetCubeRoundTrip(t *testing.T) {
	for row := 0; row < 12; row++ {
		for col := 0; col < 12; col++ {
			h := OffsetToCube(row, col)
			if h.Q+h.R+h.S() != 0 {
				t.Fatalf("cube coordinate %v does not sum to zero", h)
			}
			r, c := CubeToOffset(h)
			if r != row || c != col {
				t.Fatalf("CubeToOffset(OffsetToCube(%d, %d)) = (%d, %d)", row, col, r, c)
			}
		}
	}
}

func TestOddRowsShiftRight(t *testing.T) {
	// On odd rows the south-east neighbor of (row, col) sits at col+1.
	h := OffsetToCube(1, 3)
	row, col := CubeToOffset(h.Add(HexNeighborDirections[SE]))
	if row != 2 || col != 4 {
		t.Errorf("SE of (1,3) = (%d,%d), want (2,4)", row, col)
	}
	h = OffsetToCube(2, 3)
	row, col = CubeToOffset(h.Add(HexNeighborDirections[SE]))
	if row != 3 || col != 3 {
		t.Errorf("SE of (2,3) = (%d,%d), want (3,3)", row, col)
	}
}
