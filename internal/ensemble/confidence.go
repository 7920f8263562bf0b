package ensemble

import "github.com/yourusername/sportcast/internal/models"

// ConfidenceScore derives a scalar confidence in [0,1] from the peak of the
// ensemble distribution and the spread among the individual base model
// distributions: models that agree with each other and are individually
// decisive score higher, while high spread is penalized even when the
// ensemble mean looks peaked.
func ConfidenceScore(individual []models.Distribution, ensemble models.Distribution) float64 {
	if len(ensemble) == 0 {
		return 0
	}
	peak := ensemble.Peak()
	if len(individual) < 2 {
		return peak
	}

	classes := len(ensemble)
	means := make([]float64, classes)
	n := float64(len(individual))
	for _, dist := range individual {
		for c := 0; c < classes && c < len(dist); c++ {
			means[c] += dist[c]
		}
	}
	for c := range means {
		means[c] /= n
	}

	avgVariance := 0.0
	for c := 0; c < classes; c++ {
		variance := 0.0
		for _, dist := range individual {
			p := 0.0
			if c < len(dist) {
				p = dist[c]
			}
			d := p - means[c]
			variance += d * d
		}
		avgVariance += variance / n
	}
	avgVariance /= float64(classes)

	agreementFactor := 1.0 / (1.0 + avgVariance)
	confidence := peak * agreementFactor
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
