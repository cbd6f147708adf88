package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePromptAllBlackSmartCasual(t *testing.T) {
	q := ParsePrompt("all black smart casual")

	assert.Equal(t, PaletteMonochrome, q.Palette)
	assert.Equal(t, "black", q.PaletteColor)
	assert.True(t, q.PaletteStrict)
	assert.Equal(t, "smart casual", q.DressCode)
	assert.Contains(t, q.GlobalColors, "black")
}

func TestParsePromptRedDressBlackHeels(t *testing.T) {
	q := ParsePrompt("red dress and black heels")

	require.NotNil(t, q.WantsDress)
	assert.True(t, *q.WantsDress)
	assert.Contains(t, q.RequiredColors[LayerDress], "red")
	assert.Contains(t, q.RequiredColors[LayerDress], "burgundy")
	assert.Contains(t, q.RequiredColors[LayerShoes], "black")
	assert.Contains(t, q.Subtypes[LayerShoes], "heel")
	assert.ElementsMatch(t, []string{"red", "black"}, q.GlobalColors)
}

func TestParsePromptIdempotent(t *testing.T) {
	text := "chic neutral office look, beige trousers and gold accessories"
	first := ParsePrompt(text)
	second := ParsePrompt(text)
	assert.Equal(t, first, second)
}

func TestParsePromptDressCodeCompoundWinsOverParts(t *testing.T) {
	assert.Equal(t, "smart casual", ParsePrompt("something smart casual please").DressCode)
	assert.Equal(t, "smart", ParsePrompt("a smart look").DressCode)
	assert.Equal(t, "casual", ParsePrompt("keep it casual").DressCode)
}

func TestParsePromptOccasionLastMatchWins(t *testing.T) {
	// fixed check order: gym is checked after office
	q := ParsePrompt("office then gym")
	assert.Equal(t, "gym", q.Occasion)
}

func TestParsePromptTemperatureHints(t *testing.T) {
	cold := ParsePrompt("cold evening walk")
	assert.True(t, cold.PreferOuterwear)
	assert.False(t, cold.AvoidOuterwear)

	hot := ParsePrompt("hot summer day")
	assert.True(t, hot.AvoidOuterwear)
	assert.False(t, hot.PreferOuterwear)

	// contradictory prompt sets both flags, the scorer nets them out
	both := ParsePrompt("cold morning but hot afternoon")
	assert.True(t, both.PreferOuterwear)
	assert.True(t, both.AvoidOuterwear)
}

func TestParsePromptPalettePriority(t *testing.T) {
	q := ParsePrompt("monochrome but colorful")
	assert.Equal(t, PaletteMonochrome, q.Palette)
	assert.Empty(t, q.PaletteColor)

	assert.Equal(t, PaletteNeutral, ParsePrompt("neutral and pastel").Palette)
	assert.Equal(t, PalettePastel, ParsePrompt("pastel earthy").Palette)
	assert.Equal(t, PaletteEarth, ParsePrompt("earthy and bright").Palette)
	assert.Equal(t, PaletteColorful, ParsePrompt("something bright").Palette)
	assert.Equal(t, PaletteNone, ParsePrompt("plain outfit").Palette)
}

func TestParsePromptStyleTagsNonExclusive(t *testing.T) {
	q := ParsePrompt("minimal chic vintage outfit")
	assert.ElementsMatch(t, []string{"minimal", "vintage", "chic"}, q.StyleTags)
}

func TestParsePromptMetallicGoldWins(t *testing.T) {
	assert.Equal(t, "gold", ParsePrompt("silver or gold jewelry").Metallic)
	assert.Equal(t, "silver", ParsePrompt("silver jewelry").Metallic)
	assert.Empty(t, ParsePrompt("no metals").Metallic)
}

func TestParsePromptColorWindowLimit(t *testing.T) {
	// layer keyword four tokens after the color: binding must not fire,
	// but the color still lands in the global set
	q := ParsePrompt("red is my very favorite color dress")
	assert.Empty(t, q.RequiredColors[LayerDress])
	assert.Contains(t, q.GlobalColors, "red")
}

func TestParsePromptSubtypeBindsWholeVocabulary(t *testing.T) {
	q := ParsePrompt("blue jeans outfit")
	assert.Contains(t, q.Subtypes[LayerBottom], "jeans")
	assert.Contains(t, q.Subtypes[LayerBottom], "denim")
	assert.Empty(t, q.Subtypes[LayerShoes])
}

func TestParsePromptNoDressSignalLeavesTriStateNil(t *testing.T) {
	q := ParsePrompt("jeans and a hoodie")
	assert.Nil(t, q.WantsDress)
}

func TestParsePromptGarbageInput(t *testing.T) {
	q := ParsePrompt("!!! ??? 123 qwerty")
	assert.Equal(t, PaletteNone, q.Palette)
	assert.Empty(t, q.GlobalColors)
	assert.Empty(t, q.DressCode)
}
