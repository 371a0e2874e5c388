package engine

import (
	"strings"

	"github.com/redactyl/keyelf/internal/scanner"
	"github.com/redactyl/keyelf/internal/types"
	"github.com/redactyl/keyelf/internal/wif"
)

// lineSeparator joins the fields of a worker result line. Base58 output never
// contains it.
const lineSeparator = ":"

// NewFoundKey renders raw into its wallet encodings.
func NewFoundKey(raw scanner.RawKey) types.FoundKey {
	u, c := wif.EncodeBoth(raw)
	return types.FoundKey{
		RawHex:          raw.Hex(),
		WIFUncompressed: u,
		WIFCompressed:   c,
	}
}

// FormatLine renders fk as "hex:wif_uncompressed:wif_compressed".
func FormatLine(fk types.FoundKey) string {
	return fk.RawHex + lineSeparator + fk.WIFUncompressed + lineSeparator + fk.WIFCompressed
}

// ParseLine accepts a worker result line. Lines that do not split into
// exactly three fields, or whose first field is not a 64-character hex key,
// are rejected.
func ParseLine(line string) (types.FoundKey, bool) {
	line = strings.TrimRight(line, "\r")
	parts := strings.Split(line, lineSeparator)
	if len(parts) != 3 {
		return types.FoundKey{}, false
	}
	if _, ok := scanner.ParseRawKey(parts[0]); !ok || parts[1] == "" || parts[2] == "" {
		return types.FoundKey{}, false
	}
	return types.FoundKey{
		RawHex:          strings.ToLower(parts[0]),
		WIFUncompressed: parts[1],
		WIFCompressed:   parts[2],
	}, true
}

// ParseOutput keeps the well-formed lines of a worker's output in order.
func ParseOutput(lines []string) []types.FoundKey {
	var out []types.FoundKey
	for _, l := range lines {
		if l == "" {
			continue
		}
		if fk, ok := ParseLine(l); ok {
			out = append(out, fk)
		}
	}
	return out
}
