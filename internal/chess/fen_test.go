// ABOUTME: Tests for the legacy filename codec and snapshot slug
// ABOUTME: Verifies exact round-trips and filename determinism/distinctness
package chess

import (
	"strings"
	"testing"
)

func TestEncodeDecodeVideoFilename_RoundTrip(t *testing.T) {
	fens := []string{
		StartingFEN,
		"rnbqkbnr/pppppppp/8/8/8/6P1/PPPPPP1P/RNBQKBNR b KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/R1BQKB1R w KQkq - 2 3",
	}

	for _, fen := range fens {
		name := EncodeVideoFilename(fen)
		if strings.ContainsAny(name, "/ ") {
			t.Errorf("EncodeVideoFilename(%q) = %q contains path-unsafe characters", fen, name)
		}
		got, err := DecodeVideoFilename(name)
		if err != nil {
			t.Fatalf("DecodeVideoFilename(%q) error = %v", name, err)
		}
		if got != fen {
			t.Errorf("round trip = %q, want %q", got, fen)
		}
	}
}

func TestDecodeVideoFilename_RejectsBadShapes(t *testing.T) {
	bad := []string{
		"notafen.json",
		"a_b_c.json",
		"rnbqkbnr_pppppppp_8_8_8_8_PPPPPPPP_RNBQKBNR_w_KQkq_dash_0.json", // 12 tokens
		"__________________.json",
	}

	for _, name := range bad {
		if _, err := DecodeVideoFilename(name); err == nil {
			t.Errorf("DecodeVideoFilename(%q) expected error, got nil", name)
		}
	}
}

func TestSnapshotFilename_Deterministic(t *testing.T) {
	a := SnapshotFilename(StartingFEN)
	b := SnapshotFilename(StartingFEN)
	if a != b {
		t.Errorf("SnapshotFilename not deterministic: %q vs %q", a, b)
	}
	if !strings.HasSuffix(a, ".json") {
		t.Errorf("SnapshotFilename(%q) = %q, want .json suffix", StartingFEN, a)
	}
}

func TestSnapshotFilename_DistinctForDistinctFENs(t *testing.T) {
	fens := []string{
		StartingFEN,
		"rnbqkbnr/pppppppp/8/8/8/6P1/PPPPPP1P/RNBQKBNR b KQkq - 0 1",
		"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2",
		// Same board letters, different case: the slug alone would collide.
		"RNBQKBNR/PPPPPPPP/8/8/8/8/pppppppp/rnbqkbnr w KQkq - 0 1",
	}

	seen := make(map[string]string)
	for _, fen := range fens {
		name := SnapshotFilename(fen)
		if prev, ok := seen[name]; ok {
			t.Errorf("SnapshotFilename collision: %q and %q both map to %q", prev, fen, name)
		}
		seen[name] = fen
	}
}

func TestSnapshotFilename_SafeCharacters(t *testing.T) {
	name := SnapshotFilename(StartingFEN)
	for _, r := range strings.TrimSuffix(name, ".json") {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
		if !ok {
			t.Errorf("SnapshotFilename produced unsafe character %q in %q", r, name)
		}
	}
}
