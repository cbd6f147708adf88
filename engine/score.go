package engine

import (
	"strings"

	"ootdapi/models"
)

// score weights, additive, no normalization
const (
	dressCodePoints     = 25
	occasionPoints      = 15
	requiredColorPoints = 45
	globalColorPoints   = 25
	monochromePoints    = 30
	neutralVibePoints   = 20
	pastelVibePoints    = 15
	earthVibePoints     = 15
	subtypePoints       = 40
	styleTagPoints      = 18
	metallicPoints      = 25
	outerwearPrefPoints = 30
	outerwearAvoidCost  = 40

	// everything within this margin of the best score is pickable,
	// otherwise every regeneration would return the same outfit
	pickBandMargin = 10
)

// ItemColors returns the canonical base colors of an item, preferring
// the worker-denormalized families and falling back to normalizing the
// raw labels.
func ItemColors(item models.WardrobeItem) []string {
	if len(item.ColorFamilies) > 0 {
		return item.ColorFamilies
	}
	var out []string
	for _, raw := range item.Colors {
		if base, ok := NormalizeColor(raw); ok {
			out = appendUniqueSlice(out, base)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func containsColor(colors []string, c string) bool {
	for _, x := range colors {
		if x == c {
			return true
		}
	}
	return false
}

// ScoreItem rates how well an item suits a layer under a query.
// coherenceColor is the monochrome anchor: the explicit query color or
// the color inferred from the first-picked base garment.
func ScoreItem(item models.WardrobeItem, kind LayerKind, q PromptQuery, coherenceColor string) int {
	score := 0
	text := item.SearchText()
	colors := ItemColors(item)

	if q.DressCode != "" && strings.Contains(strings.ToLower(item.DressCode), q.DressCode) {
		score += dressCodePoints
	}
	if q.Occasion != "" && strings.Contains(text, q.Occasion) {
		score += occasionPoints
	}

	// required-by-kind suppresses the global color check for this layer
	if required := q.RequiredColors[kind]; len(required) > 0 {
		if intersects(required, colors) {
			score += requiredColorPoints
		}
	} else if len(q.GlobalColors) > 0 && intersects(q.GlobalColors, colors) {
		score += globalColorPoints
	}

	switch q.Palette {
	case PaletteMonochrome:
		if coherenceColor != "" && containsColor(colors, coherenceColor) {
			score += monochromePoints
		}
	case PaletteNeutral:
		for _, c := range colors {
			if IsNeutralColor(c) {
				score += neutralVibePoints
				break
			}
		}
	case PalettePastel:
		if strings.Contains(text, "pastel") {
			score += pastelVibePoints
		}
	case PaletteEarth:
		for _, c := range colors {
			if IsEarthColor(c) {
				score += earthVibePoints
				break
			}
		}
	}

	for _, subtype := range q.Subtypes[kind] {
		if strings.Contains(text, subtype) {
			score += subtypePoints
			break
		}
	}

	for _, tag := range q.StyleTags {
		if strings.Contains(text, tag) {
			score += styleTagPoints
			break
		}
	}

	if kind == LayerAccessory && q.Metallic != "" {
		if containsColor(colors, q.Metallic) || strings.Contains(text, q.Metallic) {
			score += metallicPoints
		}
	}

	if kind == LayerOuterwear {
		if q.PreferOuterwear {
			score += outerwearPrefPoints
		}
		if q.AvoidOuterwear {
			score -= outerwearAvoidCost
		}
	}

	return score
}

// pickFromBand scores a bucket and picks uniformly at random among the
// items within pickBandMargin of the best score.
func pickFromBand(items []models.WardrobeItem, kind LayerKind, q PromptQuery, coherenceColor string, rng RandSource) *models.WardrobeItem {
	if len(items) == 0 {
		return nil
	}
	scores := make([]int, len(items))
	best := ScoreItem(items[0], kind, q, coherenceColor)
	scores[0] = best
	for i := 1; i < len(items); i++ {
		scores[i] = ScoreItem(items[i], kind, q, coherenceColor)
		if scores[i] > best {
			best = scores[i]
		}
	}
	var band []int
	for i, s := range scores {
		if s >= best-pickBandMargin {
			band = append(band, i)
		}
	}
	if len(band) == 0 {
		band = make([]int, len(items))
		for i := range items {
			band[i] = i
		}
	}
	chosen := items[band[rng.Intn(len(band))]]
	return &chosen
}
