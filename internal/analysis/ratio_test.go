package analysis

import (
	"testing"

	"github.com/iconidentify/archivelens/internal/domain"
)

func post(id string, favs, rts int) domain.Post {
	return domain.Post{ID: domain.PostID(id), Favorites: favs, Retweets: rts}
}

func TestRatePostsExcludesZeroCounters(t *testing.T) {
	posts := []domain.Post{
		post("a", 10, 2),
		post("b", 0, 5),
		post("c", 5, 0),
		post("d", 0, 0),
		post("e", 4, 4),
	}

	rated := RatePosts(posts)
	if len(rated) != 2 {
		t.Fatalf("expected 2 rated posts, got %d", len(rated))
	}
	for _, r := range rated {
		if r.Favorites == 0 || r.Retweets == 0 {
			t.Errorf("post %s with a zero counter should have been excluded", r.ID)
		}
	}
}

func TestRatePostsOrdering(t *testing.T) {
	posts := []domain.Post{
		post("a", 10, 2), // 5.0
		post("b", 4, 4),  // 1.0
		post("c", 9, 3),  // 3.0
	}

	rated := RatePosts(posts)
	if len(rated) != 3 {
		t.Fatalf("expected 3 rated posts, got %d", len(rated))
	}

	wantIDs := []domain.PostID{"a", "c", "b"}
	wantRatios := []float64{5.0, 3.0, 1.0}
	for i, r := range rated {
		if r.ID != wantIDs[i] {
			t.Errorf("position %d: got %s, want %s", i, r.ID, wantIDs[i])
		}
		if r.Ratio != wantRatios[i] {
			t.Errorf("position %d: got ratio %v, want %v", i, r.Ratio, wantRatios[i])
		}
	}
}

func TestExtremes(t *testing.T) {
	posts := []domain.Post{
		post("a", 10, 2), // 5.0
		post("b", 4, 4),  // 1.0
		post("c", 9, 3),  // 3.0
		post("d", 1, 2),  // 0.5
		post("e", 0, 5),  // excluded
	}

	got := Extremes(posts, 2)

	if len(got.Highest) != 2 || got.Highest[0].ID != "a" || got.Highest[1].ID != "c" {
		t.Errorf("unexpected highest ranking: %+v", got.Highest)
	}
	// Lowest reads ascending: the two smallest ratios, smallest first.
	if len(got.Lowest) != 2 || got.Lowest[0].ID != "d" || got.Lowest[1].ID != "b" {
		t.Errorf("unexpected lowest ranking: %+v", got.Lowest)
	}
	for i := 0; i < len(got.Lowest)-1; i++ {
		if got.Lowest[i].Ratio > got.Lowest[i+1].Ratio {
			t.Errorf("lowest ranking not ascending at %d", i)
		}
	}
}

func TestExtremesFewerThanLimit(t *testing.T) {
	posts := []domain.Post{post("a", 10, 2)}

	got := Extremes(posts, 5)
	if len(got.Highest) != 1 || len(got.Lowest) != 1 {
		t.Fatalf("expected 1 entry per side, got %d/%d", len(got.Highest), len(got.Lowest))
	}

	got = Extremes(nil, 5)
	if len(got.Highest) != 0 || len(got.Lowest) != 0 {
		t.Fatalf("expected empty rankings for no posts, got %d/%d", len(got.Highest), len(got.Lowest))
	}
}
