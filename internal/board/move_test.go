package board

import "testing"

func TestMoveEncodeDecode(t *testing.T) {
	tests := []struct {
		name  string
		move  Move
		from  Square
		to    Square
		flag  MoveFlag
	}{
		{"quiet", NewQuietMove(E2, E3), E2, E3, FlagQuiet},
		{"double push", NewDoublePawnPush(E2, E4), E2, E4, FlagDoublePawnPush},
		{"capture", NewCaptureMove(E4, D5), E4, D5, FlagCapture},
		{"en passant", NewEnPassant(E5, D6), E5, D6, FlagEnPassant},
		{"king castle", NewKingCastle(E1, G1), E1, G1, FlagKingCastle},
		{"queen castle", NewQueenCastle(E8, C8), E8, C8, FlagQueenCastle},
		{"promo queen", NewPromotion(A7, A8, Queen, false), A7, A8, FlagPromoQueen},
		{"promo knight capture", NewPromotion(B7, A8, Knight, true), B7, A8, FlagPromoKnightCap},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.move.From(); got != tc.from {
				t.Errorf("From() = %v, want %v", got, tc.from)
			}
			if got := tc.move.To(); got != tc.to {
				t.Errorf("To() = %v, want %v", got, tc.to)
			}
			if got := tc.move.Flag(); got != tc.flag {
				t.Errorf("Flag() = %v, want %v", got, tc.flag)
			}
		})
	}
}

func TestMoveClassification(t *testing.T) {
	promoCap := NewPromotion(B7, A8, Queen, true)
	if !promoCap.IsPromotion() {
		t.Error("expected IsPromotion")
	}
	if !promoCap.IsCapture() {
		t.Error("expected IsCapture for promotion-capture")
	}

	ep := NewEnPassant(E5, D6)
	if !ep.IsCapture() {
		t.Error("en passant should report IsCapture")
	}
	if !ep.IsEnPassant() {
		t.Error("expected IsEnPassant")
	}

	quiet := NewQuietMove(E2, E3)
	if !quiet.IsQuiet() {
		t.Error("expected IsQuiet")
	}
	if quiet.IsCapture() || quiet.IsPromotion() {
		t.Error("quiet move should not be a capture or promotion")
	}

	castle := NewKingCastle(E1, G1)
	if !castle.IsCastling() {
		t.Error("expected IsCastling")
	}
}

func TestMoveUCIString(t *testing.T) {
	if got := NewQuietMove(E2, E4).String(); got != "e2e4" {
		t.Errorf("String() = %q, want e2e4", got)
	}
	if got := NewPromotion(A7, A8, Queen, false).String(); got != "a7a8q" {
		t.Errorf("String() = %q, want a7a8q", got)
	}
	if got := NoMove.String(); got != "0000" {
		t.Errorf("NoMove.String() = %q, want 0000", got)
	}
}

func TestParseMoveRoundTrip(t *testing.T) {
	pos := NewPosition()
	m, err := ParseMove("e2e4", pos)
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if !m.IsDoublePawnPush() {
		t.Error("e2e4 from the start position should parse as a double pawn push")
	}
	if got := m.String(); got != "e2e4" {
		t.Errorf("round-tripped string = %q, want e2e4", got)
	}
}

func TestMoveListBasics(t *testing.T) {
	ml := NewMoveList()
	m1 := NewQuietMove(E2, E3)
	m2 := NewQuietMove(D2, D3)

	ml.Add(m1)
	ml.Add(m2)

	if ml.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ml.Len())
	}
	if !ml.Contains(m1) || !ml.Contains(m2) {
		t.Error("expected both moves to be present")
	}
	if ml.Contains(NewQuietMove(A2, A3)) {
		t.Error("did not expect an unrelated move to be present")
	}

	ml.Swap(0, 1)
	if ml.Get(0) != m2 || ml.Get(1) != m1 {
		t.Error("Swap did not exchange elements")
	}

	ml.Clear()
	if ml.Len() != 0 {
		t.Error("expected empty list after Clear")
	}
}
