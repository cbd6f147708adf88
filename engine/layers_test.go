package engine

import (
	"testing"

	"ootdapi/models"

	"github.com/stretchr/testify/assert"
)

func classifierItem(category, subcategory string) models.WardrobeItem {
	return models.WardrobeItem{Category: category, Subcategory: subcategory}
}

func TestMatchesLayerBasics(t *testing.T) {
	assert.True(t, MatchesLayer(classifierItem("Dresses", "Midi dress"), LayerDress))
	assert.True(t, MatchesLayer(classifierItem("Tops", "Linen shirt"), LayerTop))
	assert.True(t, MatchesLayer(classifierItem("Bottoms", "Wide leg trousers"), LayerBottom))
	assert.True(t, MatchesLayer(classifierItem("Shoes", "White sneakers"), LayerShoes))
	assert.True(t, MatchesLayer(classifierItem("Outerwear", "Denim jacket"), LayerOuterwear))
	assert.True(t, MatchesLayer(classifierItem("Bags", "Leather tote"), LayerBag))
	assert.True(t, MatchesLayer(classifierItem("Accessories", "Silk scarf"), LayerAccessory))
}

func TestMatchesLayerNegativeGuards(t *testing.T) {
	// spans dress and top vocab: belongs to neither
	sweaterDress := classifierItem("Dresses", "Sweater dress")
	assert.False(t, MatchesLayer(sweaterDress, LayerDress))
	assert.False(t, MatchesLayer(sweaterDress, LayerTop))

	// "dress shoe" must not land in the dress bucket
	dressShoe := classifierItem("Shoes", "Dress shoe")
	assert.False(t, MatchesLayer(dressShoe, LayerDress))
	assert.False(t, MatchesLayer(dressShoe, LayerShoes))
}

func TestMatchesLayerPrimaryFourMutuallyExclusive(t *testing.T) {
	items := []models.WardrobeItem{
		classifierItem("Dresses", "Slip dress"),
		classifierItem("Tops", "Hoodie"),
		classifierItem("Bottoms", "Jeans"),
		classifierItem("Shoes", "Ankle boots"),
		classifierItem("Dresses", "Sweater dress"),
		classifierItem("Shoes", "Dress shoe"),
		classifierItem("Outerwear", "Trench coat"),
		classifierItem("Accessories", "Belt"),
		classifierItem("", ""),
	}
	primary := []LayerKind{LayerDress, LayerTop, LayerBottom, LayerShoes}
	for _, item := range items {
		matches := 0
		for _, kind := range primary {
			if MatchesLayer(item, kind) {
				matches++
			}
		}
		assert.LessOrEqual(t, matches, 1, "item %q/%q matched %d primary layers", item.Category, item.Subcategory, matches)
	}
}

func TestMatchesLayerOuterwearExcludesDressAndShoes(t *testing.T) {
	assert.False(t, MatchesLayer(classifierItem("Outerwear", "Coat dress"), LayerOuterwear))
	assert.False(t, MatchesLayer(classifierItem("Shoes", "Boot jacket print"), LayerOuterwear))
	assert.True(t, MatchesLayer(classifierItem("Outerwear", "Puffer coat"), LayerOuterwear))
}

func TestMatchesLayerPureNoSideEffects(t *testing.T) {
	item := classifierItem("Tops", "Blouse")
	before := item
	MatchesLayer(item, LayerTop)
	MatchesLayer(item, LayerShoes)
	assert.Equal(t, before, item)
}
