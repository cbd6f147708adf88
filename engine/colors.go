package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Canonical base colors. Order matters for the suffix fallback rule so
// this is a slice, membership checks go through baseColorSet.
var baseColors = []string{
	"black", "white", "grey", "beige", "cream", "brown", "tan", "khaki",
	"red", "burgundy", "orange", "yellow", "green", "olive", "blue",
	"navy", "teal", "purple", "pink", "gold", "silver",
}

var baseColorSet = func() map[string]bool {
	s := make(map[string]bool, len(baseColors))
	for _, c := range baseColors {
		s[c] = true
	}
	return s
}()

// synonym -> base
var colorAliases = map[string]string{
	"gray":      "grey",
	"charcoal":  "grey",
	"ash":       "grey",
	"slate":     "grey",
	"stone":     "grey",
	"graphite":  "grey",
	"smoke":     "grey",
	"snow":      "white",
	"chalk":     "white",
	"offwhite":  "white",
	"ivory":     "cream",
	"ecru":      "beige",
	"sand":      "beige",
	"taupe":     "beige",
	"nude":      "beige",
	"camel":     "brown",
	"chocolate": "brown",
	"coffee":    "brown",
	"mocha":     "brown",
	"caramel":   "brown",
	"crimson":   "red",
	"scarlet":   "red",
	"cherry":    "red",
	"wine":      "burgundy",
	"maroon":    "burgundy",
	"oxblood":   "burgundy",
	"rust":      "orange",
	"coral":     "orange",
	"peach":     "orange",
	"apricot":   "orange",
	"mustard":   "yellow",
	"lemon":     "yellow",
	"lime":      "green",
	"mint":      "green",
	"sage":      "green",
	"forest":    "green",
	"emerald":   "green",
	"jade":      "green",
	"turquoise": "teal",
	"aqua":      "teal",
	"cyan":      "teal",
	"cobalt":    "blue",
	"sky":       "blue",
	"azure":     "blue",
	"denim":     "blue",
	"indigo":    "navy",
	"lavender":  "purple",
	"lilac":     "purple",
	"violet":    "purple",
	"plum":      "purple",
	"mauve":     "purple",
	"magenta":   "pink",
	"fuchsia":   "pink",
	"rose":      "pink",
	"blush":     "pink",
	"salmon":    "pink",
	"champagne": "gold",
	"bronze":    "gold",
}

// base -> family members (self-inclusive). Bases without an entry
// expand to themselves only.
var colorFamilies = map[string][]string{
	"white":    {"white", "cream"},
	"cream":    {"cream", "white", "beige"},
	"grey":     {"grey", "silver"},
	"silver":   {"silver", "grey"},
	"beige":    {"beige", "cream", "tan"},
	"tan":      {"tan", "beige", "brown"},
	"brown":    {"brown", "tan", "khaki"},
	"khaki":    {"khaki", "beige", "olive"},
	"red":      {"red", "burgundy"},
	"burgundy": {"burgundy", "red"},
	"green":    {"green", "olive"},
	"olive":    {"olive", "green", "khaki"},
	"blue":     {"blue", "navy", "teal"},
	"navy":     {"navy", "blue"},
	"teal":     {"teal", "blue", "green"},
	"gold":     {"gold", "yellow"},
	"yellow":   {"yellow", "gold"},
}

// leading modifiers stripped before lookup, one at most
var colorModifiers = []string{
	"light", "dark", "bright", "deep", "neon", "soft", "muted", "pale",
	"baby", "pastel", "warm", "cool", "rich",
}

var neutralColors = map[string]bool{
	"black": true, "white": true, "grey": true, "beige": true,
	"cream": true, "brown": true, "tan": true, "navy": true,
	"khaki": true, "silver": true,
}

var earthColors = map[string]bool{
	"brown": true, "beige": true, "green": true,
}

// foldDiacritics builds a fresh transformer per call: transform.Chain
// values carry internal buffers and must not be shared across goroutines.
func foldDiacritics() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// NormalizeColor canonicalizes a free-form color label ("Dark Navy-Blue",
// "gréyish") to a base color. The bool reports whether the label was
// recognized at all; unknown labels are simply not constraints.
func NormalizeColor(raw string) (string, bool) {
	folded, _, err := transform.String(foldDiacritics(), raw)
	if err != nil {
		folded = raw
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return "", false
	}
	for _, mod := range colorModifiers {
		if strings.HasPrefix(s, mod) && len(s) > len(mod) {
			s = s[len(mod):]
			break
		}
	}
	s = strings.TrimSuffix(s, "ish")
	if base, ok := colorAliases[s]; ok {
		return base, true
	}
	if baseColorSet[s] {
		return s, true
	}
	// compounds like "woodbrown" or "seafoamgreen"
	for _, base := range baseColors {
		if strings.HasSuffix(s, base) {
			return base, true
		}
	}
	return "", false
}

// ExpandFamily returns the family members of a base color, always
// including the base itself.
func ExpandFamily(base string) []string {
	if fam, ok := colorFamilies[base]; ok {
		out := make([]string, len(fam))
		copy(out, fam)
		return out
	}
	return []string{base}
}

// IsNeutralColor reports whether a base color counts as a neutral for
// palette scoring.
func IsNeutralColor(base string) bool {
	return neutralColors[base]
}

// IsEarthColor reports whether a base color counts as an earth tone.
func IsEarthColor(base string) bool {
	return earthColors[base]
}
