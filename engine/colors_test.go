package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColorAliases(t *testing.T) {
	// every registered alias must land on its base
	for alias, base := range colorAliases {
		got, ok := NormalizeColor(alias)
		require.True(t, ok, "alias %q not recognized", alias)
		assert.Equal(t, base, got, "alias %q", alias)
	}
}

func TestNormalizeColorBases(t *testing.T) {
	for _, base := range baseColors {
		got, ok := NormalizeColor(base)
		require.True(t, ok)
		assert.Equal(t, base, got)
	}
}

func TestNormalizeColorModifiers(t *testing.T) {
	cases := map[string]string{
		"light blue":  "blue",
		"Dark Green":  "green",
		"neon pink":   "pink",
		"pale-yellow": "yellow",
		"baby blue":   "blue",
		"rich brown":  "brown",
		"greyish":     "grey",
	}
	for raw, want := range cases {
		got, ok := NormalizeColor(raw)
		require.True(t, ok, "input %q", raw)
		assert.Equal(t, want, got, "input %q", raw)
	}
}

func TestNormalizeColorCompoundSuffix(t *testing.T) {
	got, ok := NormalizeColor("woodbrown")
	require.True(t, ok)
	assert.Equal(t, "brown", got)

	got, ok = NormalizeColor("seafoamgreen")
	require.True(t, ok)
	assert.Equal(t, "green", got)
}

func TestNormalizeColorDiacritics(t *testing.T) {
	got, ok := NormalizeColor("grÉy")
	require.True(t, ok)
	assert.Equal(t, "grey", got)
}

func TestNormalizeColorConcurrent(t *testing.T) {
	// suggestion requests and the worker normalize labels in parallel;
	// folding must not share transformer state between goroutines
	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				got, ok := NormalizeColor("grÉyish")
				require.True(t, ok)
				require.Equal(t, "grey", got)
			}
		}()
	}
	wg.Wait()
}

func TestNormalizeColorUnknown(t *testing.T) {
	_, ok := NormalizeColor("sparkly")
	assert.False(t, ok)
	_, ok = NormalizeColor("")
	assert.False(t, ok)
	_, ok = NormalizeColor("---")
	assert.False(t, ok)
}

func TestExpandFamilySelfInclusive(t *testing.T) {
	for _, base := range baseColors {
		fam := ExpandFamily(base)
		assert.Contains(t, fam, base, "family of %q must include itself", base)
	}
}

func TestExpandFamilyUnregistered(t *testing.T) {
	assert.Equal(t, []string{"black"}, ExpandFamily("black"))
}

func TestExpandFamilyReturnsCopy(t *testing.T) {
	fam := ExpandFamily("red")
	fam[0] = "mutated"
	assert.Contains(t, ExpandFamily("red"), "red")
}
