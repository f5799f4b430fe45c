// ABOUTME: FEN string constants and the legacy video-file name codec
// ABOUTME: Legacy files substitute path-unsafe FEN characters with fixed tokens
package chess

import (
	"fmt"
	"strings"
)

// StartingFEN is the canonical initial position. Catalog entries that lack
// a position string are treated as the standard start, not rejected.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// dashToken stands in for the "-" placeholder used by the castling and
// en-passant fields, which the legacy exporter also substituted.
const dashToken = "dash"

// fenTokens is the token count of an encoded FEN: 8 rank segments plus
// active color, castling, en passant, halfmove and fullmove fields.
const fenTokens = 13

// EncodeVideoFilename converts a FEN into the legacy per-position file name:
// rank separators and spaces become underscores, dashes become a fixed token.
func EncodeVideoFilename(fen string) string {
	s := strings.ReplaceAll(fen, "/", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", dashToken)
	return s + ".json"
}

// DecodeVideoFilename inverts EncodeVideoFilename, reconstructing the
// canonical FEN key from a legacy file name.
func DecodeVideoFilename(name string) (string, error) {
	base := strings.TrimSuffix(name, ".json")
	parts := strings.Split(base, "_")
	if len(parts) != fenTokens {
		return "", fmt.Errorf("legacy filename %q: expected %d tokens, got %d", name, fenTokens, len(parts))
	}

	for i, p := range parts {
		if p == "" {
			return "", fmt.Errorf("legacy filename %q: empty token at position %d", name, i)
		}
		if p == dashToken {
			parts[i] = "-"
		}
	}

	board := strings.Join(parts[:8], "/")
	fields := strings.Join(parts[8:], " ")
	return board + " " + fields, nil
}
