package sales

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"supermarket-sim/pkg/models"
	"supermarket-sim/pkg/randx"
)

const (
	DefaultTaxRate = 0.18

	MinSubtotal = 5.0
	MaxSubtotal = 600.0
)

// PaymentMethods : moyens de paiement possibles, tirage uniforme.
var PaymentMethods = []string{"cash", "credit_card", "debit_card", "mobile_pay"}

// Synthesizer fabrique un ticket à partir du temps passé en magasin.
type Synthesizer struct {
	TaxRate float64
}

func New(taxRate float64) *Synthesizer {
	return &Synthesizer{TaxRate: taxRate}
}

// Amount : base uniforme 10-30 + sqrt(dwell) * uniforme(2, 6), borné à [5, 600].
func Amount(r *rand.Rand, dwellMinutes int) float64 {
	base := randx.Uniform(r, 10, 30)
	amt := base + math.Sqrt(math.Max(0, float64(dwellMinutes)))*randx.Uniform(r, 2, 6)
	return math.Max(MinSubtotal, math.Min(amt, MaxSubtotal))
}

// Build : ticket horodaté à la fin du dernier passage en caisse.
func (s *Synthesizer) Build(r *rand.Rand, customerID string, ts time.Time, dwellMinutes int) (models.Sale, error) {
	subtotal := Round2(Amount(r, dwellMinutes))
	tax := Round2(subtotal * s.TaxRate)

	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return models.Sale{}, err
	}
	return models.Sale{
		SaleID:        id.String()[:8],
		Timestamp:     ts,
		CustomerID:    customerID,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         Round2(subtotal + tax),
		PaymentMethod: randx.Choice(r, PaymentMethods),
	}, nil
}

// Round2 arrondit au centime.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
