package engine

import (
	"context"
	"fmt"
	"log"
	"sync"

	"ootdapi/models"
)

// Inventory is the one capability the engine consumes: fetch a user's
// items plausibly belonging to a layer. Implementations live with the
// storage layer; the engine treats any error as an empty bucket.
type Inventory interface {
	FetchItems(ctx context.Context, ownerID uint, kind LayerKind, limit int) ([]models.WardrobeItem, error)
}

// Weather is whatever the client knows about conditions at wear time.
type Weather struct {
	Raining      bool
	TemperatureC float64
}

const (
	defaultBucketLimit     = 300
	defaultMaxItems        = 5
	defaultOptionalChance  = 0.35
	defaultFoulWeatherOdds = 0.8
	defaultColdThresholdC  = 15.0
	defaultMaxAttempts     = 3
)

// Assembler builds outfit candidates from a user's inventory.
type Assembler struct {
	Inventory Inventory
	Rand      RandSource

	BucketLimit     int
	MaxItems        int
	OptionalChance  float64
	FoulWeatherOdds float64
	ColdThresholdC  float64
	MaxAttempts     int
}

func NewAssembler(inv Inventory) *Assembler {
	return &Assembler{
		Inventory:       inv,
		Rand:            NewRandSource(),
		BucketLimit:     defaultBucketLimit,
		MaxItems:        defaultMaxItems,
		OptionalChance:  defaultOptionalChance,
		FoulWeatherOdds: defaultFoulWeatherOdds,
		ColdThresholdC:  defaultColdThresholdC,
		MaxAttempts:     defaultMaxAttempts,
	}
}

// OutfitCandidate is one assembled look: exactly one item per occupied
// layer. Candidates are ephemeral; only a saved Outfit reaches the
// database.
type OutfitCandidate struct {
	ID    string
	Items map[LayerKind]models.WardrobeItem
}

// display order: dress or top first, then outerwear, bottom, shoes,
// bag, accessory
var displayOrder = []LayerKind{
	LayerDress, LayerTop, LayerOuterwear, LayerBottom,
	LayerShoes, LayerBag, LayerAccessory,
}

func (c *OutfitCandidate) OrderedItems() []models.WardrobeItem {
	out := make([]models.WardrobeItem, 0, len(c.Items))
	for _, kind := range displayOrder {
		if item, ok := c.Items[kind]; ok {
			out = append(out, item)
		}
	}
	return out
}

// OrderedSlots returns the occupied layer kinds in the same order as
// OrderedItems, so callers can label items by the slot they fill rather
// than re-deriving a layer from the item.
func (c *OutfitCandidate) OrderedSlots() []LayerKind {
	out := make([]LayerKind, 0, len(c.Items))
	for _, kind := range displayOrder {
		if _, ok := c.Items[kind]; ok {
			out = append(out, kind)
		}
	}
	return out
}

func (c *OutfitCandidate) OrderedItemIDs() []int64 {
	items := c.OrderedItems()
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = int64(item.ID)
	}
	return ids
}

const candidateIDHex = "0123456789abcdef"

func newCandidateID(rng RandSource) string {
	b := make([]byte, 12)
	for i := range b {
		b[i] = candidateIDHex[rng.Intn(16)]
	}
	return string(b)
}

// fetchBuckets runs the seven layer fetches concurrently, each writing
// its own slot, and joins before anything is scored. A failed fetch
// degrades to an empty bucket.
func (a *Assembler) fetchBuckets(ctx context.Context, ownerID uint) map[LayerKind][]models.WardrobeItem {
	slots := make([][]models.WardrobeItem, len(AllLayers))
	var wg sync.WaitGroup
	for i, kind := range AllLayers {
		wg.Add(1)
		go func(i int, kind LayerKind) {
			defer wg.Done()
			items, err := a.Inventory.FetchItems(ctx, ownerID, kind, a.BucketLimit)
			if err != nil {
				log.Printf("[Engine] Bucket fetch failed for user %v layer %s: %v", ownerID, kind, err)
				return
			}
			slots[i] = items
		}(i, kind)
	}
	wg.Wait()

	buckets := make(map[LayerKind][]models.WardrobeItem, len(AllLayers))
	for i, kind := range AllLayers {
		buckets[kind] = slots[i]
	}
	return buckets
}

// BuildCandidate assembles one outfit: shoes always, then a base (dress
// XOR top+bottom), then optional layers under weather- and
// preference-driven odds, capped at MaxItems. A nil return means the
// inventory cannot produce an outfit for this query; it is not an error.
func (a *Assembler) BuildCandidate(ctx context.Context, ownerID uint, q PromptQuery, w Weather) *OutfitCandidate {
	buckets := a.fetchBuckets(ctx, ownerID)

	cand := &OutfitCandidate{
		ID:    newCandidateID(a.Rand),
		Items: make(map[LayerKind]models.WardrobeItem),
	}
	coherence := q.PaletteColor

	shoes := pickFromBand(buckets[LayerShoes], LayerShoes, q, coherence, a.Rand)
	if shoes == nil {
		return nil
	}
	cand.Items[LayerShoes] = *shoes

	tryDress := func() bool {
		item := pickFromBand(buckets[LayerDress], LayerDress, q, coherence, a.Rand)
		if item == nil {
			return false
		}
		cand.Items[LayerDress] = *item
		return true
	}
	trySeparates := func() bool {
		top := pickFromBand(buckets[LayerTop], LayerTop, q, coherence, a.Rand)
		bottom := pickFromBand(buckets[LayerBottom], LayerBottom, q, coherence, a.Rand)
		if top == nil || bottom == nil {
			return false
		}
		cand.Items[LayerTop] = *top
		cand.Items[LayerBottom] = *bottom
		return true
	}

	dressFirst := a.Rand.Bool()
	if q.WantsDress != nil {
		dressFirst = *q.WantsDress
	}
	var baseOK bool
	if dressFirst {
		baseOK = tryDress() || trySeparates()
	} else {
		baseOK = trySeparates() || tryDress()
	}
	if !baseOK {
		return nil
	}

	// a strict monochrome prompt without an explicit color anchors on
	// the first base garment
	if q.Palette == PaletteMonochrome && coherence == "" {
		base, ok := cand.Items[LayerDress]
		if !ok {
			base = cand.Items[LayerTop]
		}
		if cols := ItemColors(base); len(cols) > 0 {
			coherence = cols[0]
		}
	}

	for _, kind := range []LayerKind{LayerOuterwear, LayerBag, LayerAccessory} {
		odds := a.OptionalChance
		if kind == LayerOuterwear {
			if w.Raining || w.TemperatureC <= a.ColdThresholdC {
				odds = a.FoulWeatherOdds
			}
			if q.PreferOuterwear {
				odds = 1.0
			}
			if q.AvoidOuterwear {
				odds = 0.0
			}
		}
		if a.Rand.Float64() >= odds {
			continue
		}
		if item := pickFromBand(buckets[kind], kind, q, coherence, a.Rand); item != nil {
			cand.Items[kind] = *item
		}
	}

	// hard cap, dropping the least essential layers first
	for _, kind := range []LayerKind{LayerAccessory, LayerBag, LayerOuterwear} {
		if len(cand.Items) <= a.MaxItems {
			break
		}
		delete(cand.Items, kind)
	}

	return cand
}

// BuildDeck builds up to n independent candidates, retrying each slot a
// bounded number of times. A short or empty deck is the degraded state,
// never a panic.
func (a *Assembler) BuildDeck(ctx context.Context, ownerID uint, q PromptQuery, w Weather, n int) []*OutfitCandidate {
	deck := make([]*OutfitCandidate, 0, n)
	for i := 0; i < n; i++ {
		var cand *OutfitCandidate
		for attempt := 0; attempt < a.MaxAttempts && cand == nil; attempt++ {
			cand = a.BuildCandidate(ctx, ownerID, q, w)
		}
		if cand == nil {
			fmt.Printf("[Engine] No candidate after %v attempts for user %v\n", a.MaxAttempts, ownerID)
			continue
		}
		deck = append(deck, cand)
	}
	return deck
}
