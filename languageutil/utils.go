package languageutil

import (
	"fmt"
	"math/rand"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var TitleCaser = cases.Title(language.English)
var LowerCaser = cases.Lower(language.English)

var Adjs []string = []string{
	"sharp",
	"breezy",
	"bold",
	"polished",
	"cozy",
	"effortless",
	"crisp",
	"laid-back",
	"sleek",
	"playful",
	"timeless",
	"fresh",
	"daring",
	"understated",
	"vivid",
	"mellow",
	"striking",
	"easy",
	"refined",
	"sunny",
	"moody",
	"clean",
	"vintage",
	"modern",
	"soft",
	"radiant",
}

var Nouns []string = []string{
	"look",
	"ensemble",
	"fit",
	"combo",
	"outfit",
	"pairing",
	"number",
	"getup",
	"mix",
	"statement",
}

func RandomAdjective() string {

	pick := rand.Intn(len(Adjs))
	return Adjs[pick]
}

func RandomNounlike() string {

	pick := rand.Intn(len(Nouns))
	return Nouns[pick]
}

// RandomLookName titles a throwaway display name for a suggested
// candidate, like "Breezy Ensemble".
func RandomLookName() string {
	return TitleCaser.String(fmt.Sprintf("%s %s", RandomAdjective(), RandomNounlike()))
}
