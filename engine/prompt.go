package engine

import "strings"

type PaletteMode string

const (
	PaletteNone       PaletteMode = ""
	PaletteMonochrome PaletteMode = "monochrome"
	PaletteNeutral    PaletteMode = "neutral"
	PalettePastel     PaletteMode = "pastel"
	PaletteEarth      PaletteMode = "earth"
	PaletteColorful   PaletteMode = "colorful"
)

// PromptQuery is the parsed intent of a free-text prompt. It is built
// once per prompt and only read afterwards.
type PromptQuery struct {
	Raw       string
	DressCode string
	Occasion  string

	Palette       PaletteMode
	PaletteColor  string // monochrome only, may be empty
	PaletteStrict bool

	// per-layer family-expanded required colors (strict)
	RequiredColors map[LayerKind][]string
	// per-layer acceptable subtype words
	Subtypes map[LayerKind][]string
	// soft any-of colors collected from the whole prompt
	GlobalColors []string
	StyleTags    []string

	Metallic        string // "", "gold" or "silver"
	WantsDress      *bool  // nil when the prompt gives no signal
	PreferOuterwear bool
	AvoidOuterwear  bool
}

// checked in order, last match wins
var occasionWords = []string{
	"wedding", "interview", "office", "date", "party", "beach", "gym",
}

// "smart casual" must come before its substrings
var dressCodeWords = []string{"smart casual", "business", "formal", "smart", "casual"}

var styleVocabulary = []string{
	"minimal", "sporty", "edgy", "boho", "preppy", "streetwear",
	"vintage", "romantic", "chic", "classy", "elegant", "bold", "trendy",
}

var pastelHints = []string{"pastel", "powder", "dreamy"}
var earthHints = []string{"earthy", "earth", "terracotta", "autumn", "rustic"}
var colorfulHints = []string{"colorful", "colourful", "bright", "vibrant"}

var coldWords = []string{"cold", "winter", "chilly"}
var hotWords = []string{"hot", "summer", "warm"}

var dressBaseTokens = map[string]bool{"dress": true, "gown": true, "slip": true}

// token -> layer for the windowed color binding
var layerKeywords = map[string]LayerKind{
	"dress": LayerDress, "gown": LayerDress,
	"top": LayerTop, "shirt": LayerTop, "blouse": LayerTop,
	"tee": LayerTop, "hoodie": LayerTop, "sweater": LayerTop,
	"jean": LayerBottom, "jeans": LayerBottom, "pants": LayerBottom,
	"trousers": LayerBottom, "skirt": LayerBottom, "shorts": LayerBottom,
	"bottoms": LayerBottom,
	"shoe":    LayerShoes, "shoes": LayerShoes, "heel": LayerShoes,
	"heels": LayerShoes, "sneaker": LayerShoes, "sneakers": LayerShoes,
	"boot": LayerShoes, "boots": LayerShoes, "sandal": LayerShoes,
	"sandals": LayerShoes, "loafer": LayerShoes, "loafers": LayerShoes,
	"flats": LayerShoes, "trainers": LayerShoes,
	"jacket": LayerOuterwear, "coat": LayerOuterwear,
	"blazer": LayerOuterwear, "trench": LayerOuterwear,
	"parka": LayerOuterwear, "outerwear": LayerOuterwear,
	"bag": LayerBag, "tote": LayerBag, "backpack": LayerBag,
	"clutch": LayerBag, "purse": LayerBag,
	"accessory": LayerAccessory, "accessories": LayerAccessory,
	"belt": LayerAccessory, "scarf": LayerAccessory,
	"hat": LayerAccessory, "necklace": LayerAccessory,
	"earrings": LayerAccessory, "watch": LayerAccessory,
}

// matching any word of a vocabulary binds the whole vocabulary: asking
// for "jeans" should accept "denim" too
var subtypeVocabularies = map[LayerKind][]string{
	LayerBottom:    {"jeans", "denim", "trouser", "pants", "slacks", "skirt", "shorts"},
	LayerTop:       {"hoodie", "sweater", "cardigan", "blouse", "shirt", "tee", "tank", "top"},
	LayerShoes:     {"heel", "pump", "stiletto", "sneaker", "trainer", "boot", "sandal", "loafer", "flat", "mule"},
	LayerOuterwear: {"jacket", "blazer", "coat", "trench", "parka"},
}

// iteration order for the subtype pass (map iteration is not stable)
var subtypeLayers = []LayerKind{LayerBottom, LayerTop, LayerShoes, LayerOuterwear}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
}

// ParsePrompt turns free text into a PromptQuery. It never fails:
// anything it does not recognize is just not a constraint. For the same
// input the output is always identical.
func ParsePrompt(text string) PromptQuery {
	lower := strings.ToLower(text)
	tokens := tokenize(lower)

	q := PromptQuery{
		Raw:            text,
		RequiredColors: map[LayerKind][]string{},
		Subtypes:       map[LayerKind][]string{},
	}

	for _, code := range dressCodeWords {
		if strings.Contains(lower, code) {
			q.DressCode = code
			break
		}
	}

	for _, occ := range occasionWords {
		if strings.Contains(lower, occ) {
			q.Occasion = occ
		}
	}

	for _, w := range coldWords {
		if strings.Contains(lower, w) {
			q.PreferOuterwear = true
		}
	}
	for _, w := range hotWords {
		if strings.Contains(lower, w) {
			q.AvoidOuterwear = true
		}
	}

	q.Palette, q.PaletteColor, q.PaletteStrict = detectPalette(lower, tokens)

	for _, tag := range styleVocabulary {
		if strings.Contains(lower, tag) {
			q.StyleTags = append(q.StyleTags, tag)
		}
	}

	// single slot: gold checked last so it wins when both appear
	if strings.Contains(lower, "silver") {
		q.Metallic = "silver"
	}
	if strings.Contains(lower, "gold") {
		q.Metallic = "gold"
	}

	for _, tok := range tokens {
		if dressBaseTokens[tok] {
			t := true
			q.WantsDress = &t
			break
		}
	}

	bindColors(&q, tokens)
	bindSubtypes(&q, tokens)

	return q
}

func detectPalette(lower string, tokens []string) (PaletteMode, string, bool) {
	for i, tok := range tokens {
		if tok == "all" && i+1 < len(tokens) {
			if base, ok := NormalizeColor(tokens[i+1]); ok {
				return PaletteMonochrome, base, true
			}
		}
	}
	if strings.Contains(lower, "monochrome") {
		return PaletteMonochrome, "", true
	}
	if strings.Contains(lower, "neutral") {
		return PaletteNeutral, "", false
	}
	for _, hint := range pastelHints {
		if strings.Contains(lower, hint) {
			return PalettePastel, "", false
		}
	}
	for _, hint := range earthHints {
		if strings.Contains(lower, hint) {
			return PaletteEarth, "", false
		}
	}
	for _, hint := range colorfulHints {
		if strings.Contains(lower, hint) {
			return PaletteColorful, "", false
		}
	}
	return PaletteNone, "", false
}

// bindColors scans for color tokens; each color always lands in the
// global set and additionally binds its expanded family to a layer when
// a layer keyword follows within three tokens ("red dress", "black
// strappy heels").
func bindColors(q *PromptQuery, tokens []string) {
	for i, tok := range tokens {
		base, ok := NormalizeColor(tok)
		if !ok {
			continue
		}
		appendUnique(&q.GlobalColors, base)
		for j := i + 1; j <= i+3 && j < len(tokens); j++ {
			kind, isLayer := layerKeywords[tokens[j]]
			if !isLayer {
				continue
			}
			for _, member := range ExpandFamily(base) {
				existing := q.RequiredColors[kind]
				q.RequiredColors[kind] = appendUniqueSlice(existing, member)
			}
			break
		}
	}
}

func bindSubtypes(q *PromptQuery, tokens []string) {
	for _, kind := range subtypeLayers {
		vocab := subtypeVocabularies[kind]
		if _, bound := q.Subtypes[kind]; bound {
			continue
		}
		for _, tok := range tokens {
			if matchesVocabWord(tok, vocab) {
				words := make([]string, len(vocab))
				copy(words, vocab)
				q.Subtypes[kind] = words
				break
			}
		}
	}
}

func matchesVocabWord(tok string, vocab []string) bool {
	singular := strings.TrimSuffix(tok, "s")
	for _, w := range vocab {
		if tok == w || singular == w {
			return true
		}
	}
	return false
}

func appendUnique(dst *[]string, v string) {
	for _, existing := range *dst {
		if existing == v {
			return
		}
	}
	*dst = append(*dst, v)
}

func appendUniqueSlice(dst []string, v string) []string {
	for _, existing := range dst {
		if existing == v {
			return dst
		}
	}
	return append(dst, v)
}
