// Package ranking computes ladder ranks and challenge eligibility. Both are
// pure functions over a rating-ordered snapshot; ranks are recomputed on
// every read so there is exactly one tie-breaking definition in the system.
package ranking

// Window bounds how far up the ladder a player may challenge and how many
// opponents the eligible set may contain.
const Window = 10

// Entry is one ladder row. Callers pass entries ordered by rating descending;
// ties keep their input order.
type Entry struct {
	ProfileID string
	Rating    int
}

// RankedEntry is an Entry with its standard competition rank.
type RankedEntry struct {
	ProfileID string
	Rating    int
	Rank      int
}

// Rank assigns standard competition ranks: the first entry is rank 1, equal
// ratings share their predecessor's rank, and the next distinct rating
// resumes at its 1-based position. [2000 1900 1900 1800] -> [1 2 2 4].
func Rank(entries []Entry) []RankedEntry {
	ranked := make([]RankedEntry, len(entries))
	last := 0
	for i, e := range entries {
		rank := i + 1
		if i > 0 && e.Rating == entries[i-1].Rating {
			rank = last
		}
		last = rank
		ranked[i] = RankedEntry{ProfileID: e.ProfileID, Rating: e.Rating, Rank: rank}
	}
	return ranked
}

// RankOf returns the rank of the given profile, or false when the profile is
// not on the ladder.
func RankOf(ranked []RankedEntry, profileID string) (int, bool) {
	for _, e := range ranked {
		if e.ProfileID == profileID {
			return e.Rank, true
		}
	}
	return 0, false
}

// Challengeable returns the opponents the given player may challenge:
//
//   - players inside the top Window may challenge anyone else in the top
//     Window;
//   - everyone else may challenge up to Window ranks above their own rank,
//     exclusive of it.
//
// The result keeps ladder order (best rank first) and is capped at Window
// entries. A player absent from the ladder gets nil, and no player is ever in
// their own set. Ties share a rank, so every holder of a qualifying rank is
// considered.
func Challengeable(ranked []RankedEntry, profileID string) []RankedEntry {
	myRank, ok := RankOf(ranked, profileID)
	if !ok {
		return nil
	}

	var out []RankedEntry
	if myRank <= Window {
		for _, e := range ranked {
			if e.ProfileID == profileID || e.Rank > Window {
				continue
			}
			out = append(out, e)
			if len(out) == Window {
				break
			}
		}
		return out
	}

	minRank := myRank - Window
	if minRank < 1 {
		minRank = 1
	}
	for _, e := range ranked {
		if e.Rank < minRank || e.Rank >= myRank {
			continue
		}
		out = append(out, e)
		if len(out) == Window {
			break
		}
	}
	return out
}
