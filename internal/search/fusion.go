package search

// mergeTiers combines the keyword and semantic legs into the tiered result
// order. A verse appearing in both legs contributes once: its scores are
// summed and it is tagged MatchBoth, unless the keyword leg already placed
// it in the title tier, which it never leaves. Tier order with
// titleTierFirst:
//
//	title, both, semantic-only, keyword-only
//
// and with titleTierFirst=false the first two swap. Each tier is ordered by
// score descending, ties by canonical verse id, and the merged list is
// truncated to limit with unique verse ids.
func mergeTiers(keyword, semantic []Result, limit int, titleTierFirst bool) []Result {
	if limit <= 0 {
		return nil
	}

	var title, both, semOnly, kwOnly []Result

	kwByID := make(map[int]Result, len(keyword))
	for _, r := range keyword {
		kwByID[r.Verse.ID] = r
	}

	for _, sem := range semantic {
		kw, inKeyword := kwByID[sem.Verse.ID]
		switch {
		case inKeyword && kw.MatchedBy == MatchTitle:
			kw.Score += sem.Score
			title = append(title, kw)
			delete(kwByID, sem.Verse.ID)
		case inKeyword:
			both = append(both, Result{
				Verse:     sem.Verse,
				Score:     kw.Score + sem.Score,
				MatchedBy: MatchBoth,
			})
			delete(kwByID, sem.Verse.ID)
		default:
			semOnly = append(semOnly, sem)
		}
	}

	// Keyword results the semantic leg never saw.
	for _, r := range keyword {
		kw, remaining := kwByID[r.Verse.ID]
		if !remaining {
			continue
		}
		if kw.MatchedBy == MatchTitle {
			title = append(title, kw)
		} else {
			kwOnly = append(kwOnly, kw)
		}
	}

	for _, tier := range [][]Result{title, both, semOnly, kwOnly} {
		sortTier(tier)
	}

	tiers := [][]Result{title, both, semOnly, kwOnly}
	if !titleTierFirst {
		tiers = [][]Result{both, title, semOnly, kwOnly}
	}

	merged := make([]Result, 0, limit)
	for _, tier := range tiers {
		for _, r := range tier {
			if len(merged) == limit {
				return merged
			}
			merged = append(merged, r)
		}
	}
	return merged
}
