package engine

import (
	"context"
	"strings"
)

// ContinuationQuery biases a query toward the theme of the candidates
// the user kept: the modal dress code across remaining items, up to two
// of the colors still on deck, and whether any remaining look is
// dress-based.
func ContinuationQuery(base PromptQuery, remaining []*OutfitCandidate) PromptQuery {
	q := base
	if len(remaining) == 0 {
		return q
	}

	counts := map[string]int{}
	var order []string
	colorsAdded := 0
	dressSeen := false
	for _, cand := range remaining {
		if _, ok := cand.Items[LayerDress]; ok {
			dressSeen = true
		}
		for _, item := range cand.OrderedItems() {
			if code := strings.ToLower(strings.TrimSpace(item.DressCode)); code != "" {
				if counts[code] == 0 {
					order = append(order, code)
				}
				counts[code]++
			}
			if colorsAdded < 2 {
				for _, c := range ItemColors(item) {
					before := len(q.GlobalColors)
					appendUnique(&q.GlobalColors, c)
					if len(q.GlobalColors) > before {
						colorsAdded++
					}
					if colorsAdded >= 2 {
						break
					}
				}
			}
		}
	}

	if q.DressCode == "" {
		best, bestCount := "", 0
		for _, code := range order {
			if counts[code] > bestCount {
				best, bestCount = code, counts[code]
			}
		}
		q.DressCode = best
	}
	if q.WantsDress == nil && dressSeen {
		t := true
		q.WantsDress = &t
	}
	return q
}

// Replace builds exactly one replacement for a skipped candidate,
// continuing the theme of whatever remains on deck. If the single
// attempt fails the deck just shrinks.
func (a *Assembler) Replace(ctx context.Context, ownerID uint, q PromptQuery, w Weather, remaining []*OutfitCandidate) *OutfitCandidate {
	return a.BuildCandidate(ctx, ownerID, ContinuationQuery(q, remaining), w)
}
