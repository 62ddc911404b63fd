package ranking

import (
	"fmt"
	"testing"
)

func entriesFromRatings(ratings ...int) []Entry {
	entries := make([]Entry, len(ratings))
	for i, r := range ratings {
		entries[i] = Entry{ProfileID: fmt.Sprintf("p%d", i+1), Rating: r}
	}
	return entries
}

func ranks(ranked []RankedEntry) []int {
	out := make([]int, len(ranked))
	for i, e := range ranked {
		out[i] = e.Rank
	}
	return out
}

func TestRank(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		want    []int
	}{
		{"empty", nil, []int{}},
		{"single", []int{1500}, []int{1}},
		{"distinct", []int{2000, 1900, 1800}, []int{1, 2, 3}},
		{"tie in middle", []int{2000, 1900, 1900, 1800}, []int{1, 2, 2, 4}},
		{"tie at top", []int{2000, 2000, 1900}, []int{1, 1, 3}},
		{"all tied", []int{1500, 1500, 1500}, []int{1, 1, 1}},
		{"two tie groups", []int{2100, 2100, 2000, 2000, 1900}, []int{1, 1, 3, 3, 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ranks(Rank(entriesFromRatings(tc.ratings...)))
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d ranks, got %d", len(tc.want), len(got))
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("rank mismatch at %d: expected %v, got %v", i, tc.want, got)
				}
			}
		})
	}
}

func TestRankProperties(t *testing.T) {
	ranked := Rank(entriesFromRatings(2200, 2100, 2100, 2100, 1900, 1900, 1700))

	if ranked[0].Rank != 1 {
		t.Fatalf("ranks must start at 1, got %d", ranked[0].Rank)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Rank < ranked[i-1].Rank {
			t.Fatalf("ranks must be non-decreasing: %v", ranks(ranked))
		}
		equalRating := ranked[i].Rating == ranked[i-1].Rating
		equalRank := ranked[i].Rank == ranked[i-1].Rank
		if equalRating != equalRank {
			t.Fatalf("equal ratings must share a rank (and only then): %v", ranked)
		}
	}
}

func TestRankOf(t *testing.T) {
	ranked := Rank(entriesFromRatings(2000, 1900, 1900))

	if r, ok := RankOf(ranked, "p3"); !ok || r != 2 {
		t.Fatalf("expected rank 2 for p3, got %d (ok=%v)", r, ok)
	}
	if _, ok := RankOf(ranked, "ghost"); ok {
		t.Fatalf("expected absent profile to have no rank")
	}
}

// twentyPlayerLadder returns a ladder of 20 players with strictly descending
// ratings, so player pN holds rank N.
func twentyPlayerLadder() []RankedEntry {
	ratings := make([]int, 20)
	for i := range ratings {
		ratings[i] = 2000 - i*10
	}
	return Rank(entriesFromRatings(ratings...))
}

func TestChallengeable(t *testing.T) {
	ladder := twentyPlayerLadder()

	t.Run("rank 11 may challenge exactly ranks 1-10", func(t *testing.T) {
		got := Challengeable(ladder, "p11")
		if len(got) != 10 {
			t.Fatalf("expected 10 opponents, got %d", len(got))
		}
		for i, e := range got {
			if e.Rank != i+1 {
				t.Fatalf("expected ranks 1-10 in order, got %v", got)
			}
		}
	})

	t.Run("rank 3 may challenge the rest of the top 10", func(t *testing.T) {
		got := Challengeable(ladder, "p3")
		if len(got) != 9 {
			t.Fatalf("expected 9 opponents, got %d", len(got))
		}
		for _, e := range got {
			if e.Rank > 10 {
				t.Fatalf("opponent outside top 10: %+v", e)
			}
			if e.ProfileID == "p3" {
				t.Fatalf("player must not be in their own eligible set")
			}
		}
	})

	t.Run("rank 20 window is ranks 10-19", func(t *testing.T) {
		got := Challengeable(ladder, "p20")
		if len(got) != 10 {
			t.Fatalf("expected 10 opponents, got %d", len(got))
		}
		if got[0].Rank != 10 || got[len(got)-1].Rank != 19 {
			t.Fatalf("expected ranks 10-19, got %v", got)
		}
	})

	t.Run("absent player has empty set", func(t *testing.T) {
		if got := Challengeable(ladder, "ghost"); len(got) != 0 {
			t.Fatalf("expected empty set, got %v", got)
		}
	})

	t.Run("empty ladder has empty set", func(t *testing.T) {
		if got := Challengeable(nil, "p1"); len(got) != 0 {
			t.Fatalf("expected empty set, got %v", got)
		}
	})

	t.Run("never includes self", func(t *testing.T) {
		for i := 1; i <= 20; i++ {
			id := fmt.Sprintf("p%d", i)
			for _, e := range Challengeable(ladder, id) {
				if e.ProfileID == id {
					t.Fatalf("player %s found in own eligible set", id)
				}
			}
		}
	})

	t.Run("ties sharing a boundary rank are all considered", func(t *testing.T) {
		// Ranks: p1..p9 distinct, p10 and p11 tied at rank 10, p12 at 12.
		ratings := []int{2000, 1990, 1980, 1970, 1960, 1950, 1940, 1930, 1920, 1910, 1910, 1890}
		ranked := Rank(entriesFromRatings(ratings...))

		got := Challengeable(ranked, "p12")
		if len(got) != 10 {
			t.Fatalf("expected window capped at 10, got %d", len(got))
		}
		// A tied holder of rank 10 inside the window must be eligible too.
		foundTied := false
		for _, e := range got {
			if e.ProfileID == "p10" && e.Rank == 10 {
				foundTied = true
			}
		}
		if !foundTied {
			t.Fatalf("expected tied rank-10 player in window, got %v", got)
		}
	})
}
