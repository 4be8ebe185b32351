package climbs

import (
	"math"
	"testing"
)

func vote(stars int, grade string) *Vote {
	return &Vote{StarRating: stars, DifficultyGrade: grade}
}

func TestComputeAggregate(t *testing.T) {
	cases := []struct {
		name          string
		votes         []*Vote
		wantCount     int
		wantMean      float64
		wantDist      [4]int
		wantConsensus string
	}{
		{
			name:          "no_votes",
			votes:         nil,
			wantCount:     0,
			wantMean:      0,
			wantDist:      [4]int{0, 0, 0, 0},
			wantConsensus: "",
		},
		{
			name:          "single_vote",
			votes:         []*Vote{vote(4, "V7")},
			wantCount:     1,
			wantMean:      4,
			wantDist:      [4]int{0, 0, 0, 1},
			wantConsensus: "V7",
		},
		{
			name:          "spread",
			votes:         []*Vote{vote(2, "V5"), vote(3, "V5"), vote(4, "V5")},
			wantCount:     3,
			wantMean:      3.0,
			wantDist:      [4]int{0, 1, 1, 1},
			wantConsensus: "V5",
		},
		{
			name:          "clear_grade_mode",
			votes:         []*Vote{vote(3, "V6"), vote(3, "V6"), vote(3, "V6"), vote(2, "V4")},
			wantCount:     4,
			wantMean:      2.75,
			wantDist:      [4]int{0, 1, 3, 0},
			wantConsensus: "V6",
		},
		{
			name:          "grade_tie_breaks_low",
			votes:         []*Vote{vote(3, "V4"), vote(3, "V4"), vote(3, "V6"), vote(3, "V6")},
			wantCount:     4,
			wantMean:      3,
			wantDist:      [4]int{0, 0, 4, 0},
			wantConsensus: "V4",
		},
		{
			name:          "unparseable_stored_grade_ignored_for_consensus",
			votes:         []*Vote{vote(1, "garbage"), vote(2, "V3")},
			wantCount:     2,
			wantMean:      1.5,
			wantDist:      [4]int{1, 1, 0, 0},
			wantConsensus: "V3",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := ComputeAggregate(tc.votes)
			if agg.VoteCount != tc.wantCount {
				t.Fatalf("VoteCount = %d, want %d", agg.VoteCount, tc.wantCount)
			}
			if math.Abs(agg.MeanStars-tc.wantMean) > 1e-9 {
				t.Fatalf("MeanStars = %v, want %v", agg.MeanStars, tc.wantMean)
			}
			if agg.StarDistribution != tc.wantDist {
				t.Fatalf("StarDistribution = %v, want %v", agg.StarDistribution, tc.wantDist)
			}
			if agg.ConsensusGrade != tc.wantConsensus {
				t.Fatalf("ConsensusGrade = %q, want %q", agg.ConsensusGrade, tc.wantConsensus)
			}
		})
	}
}

func TestComputeAggregateMeanIsUnrounded(t *testing.T) {
	agg := ComputeAggregate([]*Vote{vote(1, "V0"), vote(2, "V0"), vote(2, "V0")})
	want := 5.0 / 3.0
	if math.Abs(agg.MeanStars-want) > 1e-9 {
		t.Fatalf("MeanStars = %v, want %v", agg.MeanStars, want)
	}
}
