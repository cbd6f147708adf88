package engine

import (
	"context"
	"errors"
	"testing"

	"ootdapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRand returns fixed values so assembly decisions are scripted.
type stubRand struct {
	f float64
	b bool
}

func (s stubRand) Float64() float64 { return s.f }
func (s stubRand) Intn(n int) int   { return 0 }
func (s stubRand) Bool() bool       { return s.b }

type stubInventory struct {
	buckets map[LayerKind][]models.WardrobeItem
	errs    map[LayerKind]error
}

func (s stubInventory) FetchItems(ctx context.Context, ownerID uint, kind LayerKind, limit int) ([]models.WardrobeItem, error) {
	if err := s.errs[kind]; err != nil {
		return nil, err
	}
	return s.buckets[kind], nil
}

func bucketItem(id uint, category, subcategory string, colors ...string) models.WardrobeItem {
	item := models.WardrobeItem{Category: category, Subcategory: subcategory}
	item.ID = id
	item.Colors = colors
	return item
}

func fullCloset() map[LayerKind][]models.WardrobeItem {
	return map[LayerKind][]models.WardrobeItem{
		LayerDress:     {bucketItem(1, "Dresses", "Midi dress", "red")},
		LayerTop:       {bucketItem(2, "Tops", "Shirt", "white")},
		LayerBottom:    {bucketItem(3, "Bottoms", "Jeans", "blue")},
		LayerShoes:     {bucketItem(4, "Shoes", "Sneakers", "white")},
		LayerOuterwear: {bucketItem(5, "Outerwear", "Trench coat", "beige")},
		LayerBag:       {bucketItem(6, "Bags", "Tote", "black")},
		LayerAccessory: {bucketItem(7, "Accessories", "Belt", "brown")},
	}
}

func testAssembler(inv Inventory, rng RandSource) *Assembler {
	a := NewAssembler(inv)
	a.Rand = rng
	return a
}

func TestBuildCandidateNoShoesFails(t *testing.T) {
	closet := fullCloset()
	closet[LayerShoes] = nil
	a := testAssembler(stubInventory{buckets: closet}, stubRand{f: 0.99})

	cand := a.BuildCandidate(context.Background(), 1, ParsePrompt(""), Weather{})
	assert.Nil(t, cand, "no shoes must mean no candidate")
}

func TestBuildCandidateWantsDressNeverUsesSeparates(t *testing.T) {
	closet := fullCloset()
	closet[LayerTop] = nil
	closet[LayerBottom] = nil
	closet[LayerDress] = []models.WardrobeItem{
		bucketItem(11, "Dresses", "Slip dress", "black"),
		bucketItem(12, "Dresses", "Midi dress", "red"),
		bucketItem(13, "Dresses", "Maxi dress", "green"),
	}
	// Bool()=false would prefer separates, but the explicit wish wins
	a := testAssembler(stubInventory{buckets: closet}, stubRand{f: 0.99, b: false})

	cand := a.BuildCandidate(context.Background(), 1, ParsePrompt("a dress for tonight"), Weather{TemperatureC: 20})
	require.NotNil(t, cand)
	_, hasDress := cand.Items[LayerDress]
	_, hasTop := cand.Items[LayerTop]
	_, hasBottom := cand.Items[LayerBottom]
	assert.True(t, hasDress)
	assert.False(t, hasTop)
	assert.False(t, hasBottom)
}

func TestBuildCandidateBaseFallback(t *testing.T) {
	closet := fullCloset()
	closet[LayerDress] = nil
	wantDress := ParsePrompt("a dress for tonight")
	a := testAssembler(stubInventory{buckets: closet}, stubRand{f: 0.99})

	cand := a.BuildCandidate(context.Background(), 1, wantDress, Weather{TemperatureC: 20})
	require.NotNil(t, cand, "dress branch empty, separates must be the fallback")
	_, hasTop := cand.Items[LayerTop]
	_, hasBottom := cand.Items[LayerBottom]
	assert.True(t, hasTop)
	assert.True(t, hasBottom)
}

func TestBuildCandidateNoViableBaseFails(t *testing.T) {
	closet := fullCloset()
	closet[LayerDress] = nil
	closet[LayerBottom] = nil
	a := testAssembler(stubInventory{buckets: closet}, stubRand{f: 0.99})

	cand := a.BuildCandidate(context.Background(), 1, ParsePrompt(""), Weather{TemperatureC: 20})
	assert.Nil(t, cand)
}

func TestBuildCandidateAlwaysHasShoesAndValidBase(t *testing.T) {
	a := testAssembler(stubInventory{buckets: fullCloset()}, NewRandSource())
	for i := 0; i < 50; i++ {
		cand := a.BuildCandidate(context.Background(), 1, ParsePrompt(""), Weather{TemperatureC: 20})
		require.NotNil(t, cand)
		_, hasShoes := cand.Items[LayerShoes]
		require.True(t, hasShoes)
		_, hasDress := cand.Items[LayerDress]
		_, hasTop := cand.Items[LayerTop]
		_, hasBottom := cand.Items[LayerBottom]
		require.True(t, hasDress != (hasTop && hasBottom), "base must be dress XOR top+bottom")
		require.LessOrEqual(t, len(cand.OrderedItems()), 5)
	}
}

func TestBuildCandidateItemCapDropsAccessoryFirst(t *testing.T) {
	// separates + all three optionals would be six items
	a := testAssembler(stubInventory{buckets: fullCloset()}, stubRand{f: 0.0, b: false})

	cand := a.BuildCandidate(context.Background(), 1, ParsePrompt(""), Weather{TemperatureC: 20})
	require.NotNil(t, cand)
	assert.Len(t, cand.OrderedItems(), 5)
	_, hasAccessory := cand.Items[LayerAccessory]
	assert.False(t, hasAccessory, "accessory is dropped first over the cap")
	_, hasBag := cand.Items[LayerBag]
	assert.True(t, hasBag)
}

func TestBuildCandidateFetchErrorDegradesToEmptyBucket(t *testing.T) {
	closet := fullCloset()
	inv := stubInventory{
		buckets: closet,
		errs:    map[LayerKind]error{LayerBag: errors.New("backing store down")},
	}
	a := testAssembler(inv, stubRand{f: 0.0, b: true})

	cand := a.BuildCandidate(context.Background(), 1, ParsePrompt(""), Weather{TemperatureC: 20})
	require.NotNil(t, cand, "a failed bag fetch must not abort assembly")
	_, hasBag := cand.Items[LayerBag]
	assert.False(t, hasBag)
}

func TestBuildCandidateRainBoostsOuterwear(t *testing.T) {
	a := testAssembler(stubInventory{buckets: fullCloset()}, NewRandSource())

	trials := 600
	included := 0
	for i := 0; i < trials; i++ {
		cand := a.BuildCandidate(context.Background(), 1, ParsePrompt(""), Weather{Raining: true, TemperatureC: 10})
		require.NotNil(t, cand)
		if _, ok := cand.Items[LayerOuterwear]; ok {
			included++
		}
	}
	rate := float64(included) / float64(trials)
	assert.InDelta(t, 0.8, rate, 0.07, "empirical outerwear inclusion rate %v", rate)
}

func TestBuildCandidateAvoidOuterwearIsAbsolute(t *testing.T) {
	a := testAssembler(stubInventory{buckets: fullCloset()}, stubRand{f: 0.0, b: true})

	cand := a.BuildCandidate(context.Background(), 1, ParsePrompt("hot summer day"), Weather{Raining: true, TemperatureC: 5})
	require.NotNil(t, cand)
	_, hasOuterwear := cand.Items[LayerOuterwear]
	assert.False(t, hasOuterwear)
}

func TestBuildCandidateMonochromeCoherenceFromBase(t *testing.T) {
	closet := fullCloset()
	closet[LayerDress] = []models.WardrobeItem{bucketItem(21, "Dresses", "Slip dress", "navy")}
	closet[LayerBag] = []models.WardrobeItem{
		bucketItem(22, "Bags", "Canvas tote", "yellow"),
		bucketItem(23, "Bags", "Leather satchel", "navy"),
	}
	a := testAssembler(stubInventory{buckets: closet}, NewRandSource())

	// "monochrome" without a color: the anchor comes from the dress
	navyBags := 0
	for i := 0; i < 60; i++ {
		cand := a.BuildCandidate(context.Background(), 1, ParsePrompt("monochrome dress look"), Weather{TemperatureC: 20})
		require.NotNil(t, cand)
		if bag, ok := cand.Items[LayerBag]; ok && bag.ID == 23 {
			navyBags++
		}
	}
	assert.Greater(t, navyBags, 0, "coherence color must steer optional picks")
}

func TestBuildDeckBoundedRetries(t *testing.T) {
	a := testAssembler(stubInventory{buckets: map[LayerKind][]models.WardrobeItem{}}, stubRand{f: 0.99})
	deck := a.BuildDeck(context.Background(), 1, ParsePrompt(""), Weather{}, 3)
	assert.Empty(t, deck)
}

func TestBuildDeckProducesRequestedCount(t *testing.T) {
	a := testAssembler(stubInventory{buckets: fullCloset()}, NewRandSource())
	deck := a.BuildDeck(context.Background(), 1, ParsePrompt(""), Weather{TemperatureC: 20}, 3)
	assert.Len(t, deck, 3)
	seen := map[string]bool{}
	for _, cand := range deck {
		assert.False(t, seen[cand.ID], "candidate ids must be distinct")
		seen[cand.ID] = true
	}
}

func TestOrderedItemsDisplayOrder(t *testing.T) {
	cand := &OutfitCandidate{Items: map[LayerKind]models.WardrobeItem{
		LayerShoes:     bucketItem(4, "Shoes", "Heels"),
		LayerDress:     bucketItem(1, "Dresses", "Midi dress"),
		LayerBag:       bucketItem(6, "Bags", "Clutch"),
		LayerOuterwear: bucketItem(5, "Outerwear", "Blazer"),
	}}
	ordered := cand.OrderedItems()
	require.Len(t, ordered, 4)
	assert.Equal(t, uint(1), ordered[0].ID)
	assert.Equal(t, uint(5), ordered[1].ID)
	assert.Equal(t, uint(4), ordered[2].ID)
	assert.Equal(t, uint(6), ordered[3].ID)
}

func TestOrderedSlotsAlignWithOrderedItems(t *testing.T) {
	// one physical item may fill both the bag and accessory slots; each
	// slot still gets its own, correctly labeled entry
	versatile := bucketItem(6, "Bags", "Belt bag")
	cand := &OutfitCandidate{Items: map[LayerKind]models.WardrobeItem{
		LayerDress:     bucketItem(1, "Dresses", "Midi dress"),
		LayerShoes:     bucketItem(4, "Shoes", "Heels"),
		LayerBag:       versatile,
		LayerAccessory: versatile,
	}}

	kinds := cand.OrderedSlots()
	items := cand.OrderedItems()
	require.Len(t, kinds, len(items))
	assert.Equal(t, []LayerKind{LayerDress, LayerShoes, LayerBag, LayerAccessory}, kinds)
	assert.Equal(t, uint(6), items[2].ID)
	assert.Equal(t, uint(6), items[3].ID)
}

func TestContinuationQueryInfersProfile(t *testing.T) {
	casualTop := bucketItem(2, "Tops", "Shirt", "white")
	casualTop.DressCode = "casual"
	casualBottom := bucketItem(3, "Bottoms", "Jeans", "blue")
	casualBottom.DressCode = "casual"
	formalDress := bucketItem(1, "Dresses", "Gown", "black")
	formalDress.DressCode = "formal"
	shoes := bucketItem(4, "Shoes", "Sneakers")

	remaining := []*OutfitCandidate{
		{Items: map[LayerKind]models.WardrobeItem{LayerTop: casualTop, LayerBottom: casualBottom, LayerShoes: shoes}},
		{Items: map[LayerKind]models.WardrobeItem{LayerDress: formalDress, LayerShoes: shoes}},
	}

	q := ContinuationQuery(PromptQuery{}, remaining)
	assert.Equal(t, "casual", q.DressCode, "modal dress code across remaining items")
	require.NotNil(t, q.WantsDress)
	assert.True(t, *q.WantsDress, "a remaining dress-based look keeps the theme")
	assert.LessOrEqual(t, len(q.GlobalColors), 2)
}

func TestContinuationQueryKeepsExplicitPreferences(t *testing.T) {
	base := ParsePrompt("formal office look")
	q := ContinuationQuery(base, nil)
	assert.Equal(t, base, q)
}

func TestBuildCandidatePicksRequiredColorWhenPresent(t *testing.T) {
	closet := fullCloset()
	closet[LayerShoes] = []models.WardrobeItem{
		bucketItem(31, "Shoes", "Sneakers", "white"),
		bucketItem(32, "Shoes", "Heels", "black"),
	}
	a := testAssembler(stubInventory{buckets: closet}, NewRandSource())

	q := ParsePrompt("black heels with jeans")
	for i := 0; i < 30; i++ {
		cand := a.BuildCandidate(context.Background(), 1, q, Weather{TemperatureC: 20})
		require.NotNil(t, cand)
		require.Equal(t, uint(32), cand.Items[LayerShoes].ID, "the scored pick must beat the band margin")
	}
}
