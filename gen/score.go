package gen

// Base labels carried over from the embedding-training setup this
// generator feeds.
const (
	MatchLabelPositive = 0.9
	MatchLabelNegative = 0.1
)

// Scorer assigns match labels to generated samples. Implementations must
// keep Positive monotonically non-increasing in depth and score
// same-subject negatives at least as high as cross-subject negatives.
type Scorer interface {
	// Positive returns the label for a same-schema sample with depth
	// extra properties removed.
	Positive(depth int) float64
	// Negative returns the label for a different-schema sample.
	// sameSubject marks harder negatives drawn from the target's own
	// subject.
	Negative(depth int, sameSubject bool) float64
}

// DepthScorer is the default Scorer: positives start at Base and lose
// Step per depth level down to Floor; negatives are flat, with
// same-subject negatives above cross-subject ones.
type DepthScorer struct {
	Base  float64
	Step  float64
	Floor float64

	NegativeSameSubject  float64
	NegativeCrossSubject float64
}

// DefaultScorer returns the scoring used by production runs.
func DefaultScorer() DepthScorer {
	return DepthScorer{
		Base:                 MatchLabelPositive,
		Step:                 0.05,
		Floor:                0.5,
		NegativeSameSubject:  2 * MatchLabelNegative,
		NegativeCrossSubject: MatchLabelNegative,
	}
}

// Positive implements Scorer.
func (s DepthScorer) Positive(depth int) float64 {
	label := s.Base - float64(depth)*s.Step
	if label < s.Floor {
		return s.Floor
	}
	return label
}

// Negative implements Scorer.
func (s DepthScorer) Negative(_ int, sameSubject bool) float64 {
	if sameSubject {
		return s.NegativeSameSubject
	}
	return s.NegativeCrossSubject
}
