package catalog

import (
	"math"
	"testing"
)

func TestScore_ExactMatchShortCircuits(t *testing.T) {
	for _, popularity := range []float64{0, 1, 50, 99999} {
		if got := Score("Iron Man", "Iron Man", popularity); got != 1000 {
			t.Errorf("Score(exact, popularity=%v) = %v, want 1000", popularity, got)
		}
	}

	// Case and surrounding whitespace do not break exactness.
	if got := Score("  iron man ", "Iron Man", 0); got != 1000 {
		t.Errorf("Score(trimmed/case variant) = %v, want 1000", got)
	}
}

func TestScore_CompactnessFavorsExactLength(t *testing.T) {
	exact := Score("Iron Man", "Iron Man", 0)
	longer := Score("Iron Man 3", "Iron Man", 0)
	if longer >= exact {
		t.Errorf("Score(Iron Man 3) = %v, want < Score(Iron Man) = %v", longer, exact)
	}
}

func TestScore_ComponentBreakdown(t *testing.T) {
	// "Iron Man 3" vs "Iron Man": prefix (+50), full word coverage (+30),
	// compactness 8/10*20 (+16), no popularity.
	got := Score("Iron Man 3", "Iron Man", 0)
	want := 50.0 + 30.0 + (8.0/10.0)*20.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScore_NoPrefixStillCoversWords(t *testing.T) {
	// "The Amazing Spider-Man" does not start with "spider", but the
	// query word is contained in a name word.
	got := Score("The Amazing Spider-Man", "spider", 0)
	want := 1.0*30.0 + (6.0/22.0)*20.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Score = %v, want %v", got, want)
	}
}

func TestScore_PopularityBoost(t *testing.T) {
	base := Score("Iron Man 3", "Iron Man", 0)
	boosted := Score("Iron Man 3", "Iron Man", 99)
	want := base + math.Log10(100)*5 // log10(99+1)*5 = 10
	if math.Abs(boosted-want) > 1e-9 {
		t.Errorf("Score with popularity = %v, want %v", boosted, want)
	}
}

func TestScore_EmptyQuery(t *testing.T) {
	// Zero query words contribute nothing; the empty query is a prefix of
	// everything, and compactness is 0/len(name).
	got := Score("Iron Man", "", 0)
	if got != 50 {
		t.Errorf("Score(name, empty query) = %v, want 50", got)
	}

	// Empty name with empty query is an exact match.
	if got := Score("", "", 0); got != 1000 {
		t.Errorf("Score(empty, empty) = %v, want 1000", got)
	}
}

func TestRankResults_StableOnTies(t *testing.T) {
	a := &CollectionResult{ID: 1, Name: "Alpha Saga"}
	b := &CollectionResult{ID: 2, Name: "Alpha Saga"}
	results := []SearchResult{
		{Kind: ResultKindCollection, Collection: a},
		{Kind: ResultKindCollection, Collection: b},
	}

	rankResults(results, "alpha")

	if results[0].Collection.ID != 1 || results[1].Collection.ID != 2 {
		t.Errorf("tied results reordered: %+v", results)
	}
	if results[0].Score != results[1].Score {
		t.Errorf("identical names scored differently: %v vs %v", results[0].Score, results[1].Score)
	}
}

func TestRankResults_DescendingAcrossKinds(t *testing.T) {
	results := []SearchResult{
		{Kind: ResultKindCollection, Collection: &CollectionResult{Name: "Iron Man Collection"}},
		{Kind: ResultKindMedia, Media: &MediaItem{Title: "Iron Man", Popularity: 80}},
		{Kind: ResultKindChannel, Channel: &ChannelEntity{Name: "Irony Network"}},
	}

	rankResults(results, "Iron Man")

	if results[0].Kind != ResultKindMedia {
		t.Fatalf("expected exact-match media first, got %+v", results[0])
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("results not descending at %d: %v > %v", i, results[i].Score, results[i-1].Score)
		}
	}
}
