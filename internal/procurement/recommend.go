package procurement

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/pkg/db/models"
)

// selectRecommendation picks the highest-scoring available quote. On equal
// scores the first quote in the slice wins; callers must pass quotes in
// insertion order (created_at, id) so the tie-break is stable across runs.
func selectRecommendation(quotes []models.SupplierQuote, scores map[uuid.UUID]int) (models.SupplierQuote, bool) {
	var best models.SupplierQuote
	bestScore := -1
	for _, q := range quotes {
		if !q.Available {
			continue
		}
		if s := scores[q.ID]; s > bestScore {
			best = q
			bestScore = s
		}
	}
	return best, bestScore >= 0
}

// buildRationale produces the human-readable audit note for a recommendation.
func buildRationale(q models.SupplierQuote, score int, supplierName string) string {
	name := supplierName
	if name == "" {
		name = q.SupplierID.String()
	}
	delivery := "unknown delivery time"
	if q.DeliveryTimeDays != nil {
		delivery = fmt.Sprintf("delivery in %d days", *q.DeliveryTimeDays)
	}
	return fmt.Sprintf("Recommended %s at %s %s (%s), score %d/100",
		name, q.PricePerUnit.StringFixed(2), q.Currency, delivery, score)
}
