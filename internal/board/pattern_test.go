package board

import "testing"

func TestPatternSizes(t *testing.T) {
	tests := []struct {
		kind  Kind
		moved bool
		want  int
	}{
		{King, false, 8},
		{Queen, false, 8},
		{Rook, false, 4},
		{Bishop, false, 4},
		{Knight, false, 8},
		{Pawn, false, 4},
		{Pawn, true, 3},
	}

	for _, tt := range tests {
		if got := len(PatternFor(tt.kind, tt.moved)); got != tt.want {
			t.Errorf("PatternFor(%s, %v) has %d offsets, want %d", tt.kind, tt.moved, got, tt.want)
		}
	}
}

func TestPatternForReturnsCopy(t *testing.T) {
	p := PatternFor(Rook, false)
	p[0] = Coord(5, 5)

	if patternFor(Rook, false)[0] == Coord(5, 5) {
		t.Fatal("PatternFor exposed the shared table")
	}
}

func TestKindLetters(t *testing.T) {
	for k := King; k <= Pawn; k++ {
		kind, side, ok := kindFromLetter(k.Letter())
		if !ok || kind != k || side != 'w' {
			t.Errorf("upper %c mapped to %v/%c/%v", k.Letter(), kind, side, ok)
		}
		kind, side, ok = kindFromLetter(k.Letter() + 'a' - 'A')
		if !ok || kind != k || side != 'b' {
			t.Errorf("lower %c mapped to %v/%c/%v", k.Letter(), kind, side, ok)
		}
	}
	if _, _, ok := kindFromLetter('x'); ok {
		t.Error("x accepted as a piece letter")
	}
}
