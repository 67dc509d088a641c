package procurement

import (
	"math"

	"github.com/google/uuid"

	"github.com/surtidoapp/procurement-backend/pkg/config"
	"github.com/surtidoapp/procurement-backend/pkg/db/models"
)

// fallbackDeliveryDays is the pessimistic delivery assumption for quotes
// that did not state one. Penalizes missing data without rejecting the quote.
const fallbackDeliveryDays = 30

// Weights are applied as-is; they are not required to sum to 1. The
// reliability slot is carried in config but unused by the composite.
type Weights struct {
	Price    float64
	Delivery float64
	Priority float64
}

// DefaultWeights builds the fallback weights from service configuration.
func DefaultWeights(cfg config.ScoringConfig) Weights {
	return Weights{
		Price:    cfg.DefaultPriceWeight,
		Delivery: cfg.DefaultDeliveryWeight,
		Priority: cfg.DefaultPriorityWeight,
	}
}

func weightsFromConfig(stored *models.BusinessScoringConfig, fallback Weights) Weights {
	if stored == nil {
		return fallback
	}
	return Weights{
		Price:    stored.PriceWeight,
		Delivery: stored.DeliveryWeight,
		Priority: stored.PriorityWeight,
	}
}

// scoreQuotes recomputes the composite score for every quote on one request.
// Unavailable quotes score 0 unconditionally and are excluded from
// normalization. Returns nil when the available set is empty: scoring is
// skipped entirely so a recommendation never points at an unfulfillable quote.
func scoreQuotes(quotes []models.SupplierQuote, priorities map[uuid.UUID]int, w Weights) map[uuid.UUID]int {
	available := make([]models.SupplierQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.Available {
			available = append(available, q)
		}
	}

	scores := make(map[uuid.UUID]int, len(quotes))
	for _, q := range quotes {
		scores[q.ID] = 0
	}
	if len(available) == 0 {
		return nil
	}

	minPrice, maxPrice := priceRange(available)
	minDelivery, maxDelivery := deliveryRange(available)
	maxPriority := 1
	for _, q := range available {
		if p := priorities[q.SupplierID]; p > maxPriority {
			maxPriority = p
		}
	}

	priceSpread := maxPrice - minPrice
	if priceSpread == 0 {
		priceSpread = 1
	}
	deliverySpread := maxDelivery - minDelivery
	if deliverySpread == 0 {
		deliverySpread = 1
	}

	for _, q := range available {
		priceScore := 1 - (q.PricePerUnit.InexactFloat64()-minPrice)/priceSpread
		deliveryScore := 1 - (float64(deliveryDays(q))-minDelivery)/deliverySpread
		priorityScore := float64(priorities[q.SupplierID]) / float64(maxPriority)

		composite := 100 * (w.Price*priceScore + w.Delivery*deliveryScore + w.Priority*priorityScore)
		scores[q.ID] = clampScore(int(math.Round(composite)))
	}
	return scores
}

func priceRange(quotes []models.SupplierQuote) (min, max float64) {
	min = quotes[0].PricePerUnit.InexactFloat64()
	max = min
	for _, q := range quotes[1:] {
		p := q.PricePerUnit.InexactFloat64()
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max
}

func deliveryRange(quotes []models.SupplierQuote) (min, max float64) {
	min = float64(deliveryDays(quotes[0]))
	max = min
	for _, q := range quotes[1:] {
		d := float64(deliveryDays(q))
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}

func deliveryDays(q models.SupplierQuote) int {
	if q.DeliveryTimeDays == nil {
		return fallbackDeliveryDays
	}
	return *q.DeliveryTimeDays
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
