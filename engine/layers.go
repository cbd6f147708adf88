package engine

import (
	"strings"

	"ootdapi/models"
)

// LayerKind is a clothing layer bucket. An item matches at most one of
// the primary four (dress/top/bottom/shoes); outerwear, bag and
// accessory are permissive.
type LayerKind string

const (
	LayerDress     LayerKind = "dress"
	LayerTop       LayerKind = "top"
	LayerBottom    LayerKind = "bottom"
	LayerShoes     LayerKind = "shoes"
	LayerOuterwear LayerKind = "outerwear"
	LayerBag       LayerKind = "bag"
	LayerAccessory LayerKind = "accessory"
)

var AllLayers = []LayerKind{
	LayerDress, LayerTop, LayerBottom, LayerShoes,
	LayerOuterwear, LayerBag, LayerAccessory,
}

var dressTokens = []string{"dress", "gown", "jumpsuit", "romper", "slip"}

var topTokens = []string{
	"top", "shirt", "blouse", "tee", "t-shirt", "hoodie", "sweater",
	"jumper", "cardigan", "knit", "polo", "tank", "camisole", "bodysuit",
	"sweatshirt", "turtleneck",
}

var bottomTokens = []string{
	"pant", "trouser", "jean", "denim", "skirt", "short", "legging",
	"chino", "slack", "culotte", "jogger",
}

var shoeTokens = []string{
	"shoe", "sneaker", "trainer", "boot", "sandal", "loafer", "heel",
	"pump", "stiletto", "footwear", "flat", "mule", "oxford", "espadrille",
}

var outerwearTokens = []string{
	"jacket", "coat", "blazer", "trench", "parka", "puffer",
	"windbreaker", "overcoat", "anorak", "gilet",
}

var bagTokens = []string{
	"bag", "tote", "backpack", "clutch", "satchel", "purse", "crossbody",
	"handbag",
}

var accessoryTokens = []string{
	"accessory", "accessories", "belt", "scarf", "hat", "cap", "beanie",
	"jewel", "necklace", "bracelet", "earring", "ring", "watch",
	"sunglass", "glove", "tie", "brooch",
}

func hasAnyToken(text string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			return true
		}
	}
	return false
}

// MatchesLayer classifies an item against one layer using its category
// and subcategory text. The primary four layers carry negative guards:
// text matching two of them (a "sweater dress", a "dress shoe") belongs
// to neither, which keeps the buckets strictly disjoint.
func MatchesLayer(item models.WardrobeItem, kind LayerKind) bool {
	text := strings.ToLower(item.Category + " " + item.Subcategory)
	dress := hasAnyToken(text, dressTokens)
	top := hasAnyToken(text, topTokens)
	bottom := hasAnyToken(text, bottomTokens)
	shoes := hasAnyToken(text, shoeTokens)

	switch kind {
	case LayerDress:
		return dress && !top && !bottom && !shoes
	case LayerTop:
		return top && !dress && !bottom && !shoes
	case LayerBottom:
		return bottom && !dress && !top && !shoes
	case LayerShoes:
		return shoes && !dress && !top && !bottom
	case LayerOuterwear:
		return hasAnyToken(text, outerwearTokens) && !dress && !shoes
	case LayerBag:
		return hasAnyToken(text, bagTokens)
	case LayerAccessory:
		return hasAnyToken(text, accessoryTokens)
	}
	return false
}
