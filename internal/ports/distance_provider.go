package ports

// Contract for estimating sea distance between two named ports.
//
// Implementations are heuristics over a table of known anchors. A port that is
// not in the table yields ok == false; implementations never invent a number.
type DistanceEstimator interface {
	// Return the approximate distance in nautical miles between two ports.
	EstimateNM(from, to string) (nm float64, ok bool)
}
