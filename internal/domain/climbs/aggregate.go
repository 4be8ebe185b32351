package climbs

// AggregateRating is a derived view over a problem's votes. It is a pure
// function of the current vote set; any cached copy must be dropped on every
// vote upsert.
type AggregateRating struct {
	VoteCount        int     `json:"vote_count"`
	MeanStars        float64 `json:"mean_stars"`
	StarDistribution [4]int  `json:"star_distribution"` // index k counts votes of k+1 stars
	ConsensusGrade   string  `json:"consensus_grade"`   // empty when no votes carry a grade
}

// ComputeAggregate folds the vote set into its aggregate. Zero votes yield
// mean 0, an all-zero distribution and no consensus. The consensus grade is
// the mode of submitted grades; on ties the lower (more conservative) grade
// wins.
func ComputeAggregate(votes []*Vote) AggregateRating {
	var agg AggregateRating

	var starSum int
	gradeCounts := make(map[Grade]int)
	for _, v := range votes {
		if v == nil || v.StarRating < MinStarRating || v.StarRating > MaxStarRating {
			continue
		}
		agg.VoteCount++
		starSum += v.StarRating
		agg.StarDistribution[v.StarRating-1]++

		if g, err := ParseGrade(v.DifficultyGrade); err == nil {
			gradeCounts[g]++
		}
	}

	if agg.VoteCount > 0 {
		agg.MeanStars = float64(starSum) / float64(agg.VoteCount)
	}

	best, bestCount := Grade(-1), 0
	for g := MinGrade; g <= MaxGrade; g++ {
		if n := gradeCounts[g]; n > bestCount {
			best, bestCount = g, n
		}
	}
	if bestCount > 0 {
		agg.ConsensusGrade = best.String()
	}
	return agg
}
