// ABOUTME: Deterministic snapshot file names derived from FEN keys
// ABOUTME: Sanitized slug plus a short content hash to rule out collisions
package chess

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// SnapshotFilename maps a FEN to its static snapshot file name. The slug
// substitutes rank separators with dashes and whitespace with underscores,
// strips everything outside [a-z0-9_-], and lower-cases the result.
// Lower-casing collapses piece color, so an 8-hex SHA-256 suffix of the raw
// FEN is appended to keep distinct positions distinct.
func SnapshotFilename(fen string) string {
	var b strings.Builder
	for _, r := range fen {
		switch {
		case r == '/':
			b.WriteByte('-')
		case unicode.IsSpace(r):
			b.WriteByte('_')
		default:
			r = unicode.ToLower(r)
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
				b.WriteRune(r)
			}
		}
	}

	sum := sha256.Sum256([]byte(fen))
	return b.String() + "-" + hex.EncodeToString(sum[:4]) + ".json"
}
