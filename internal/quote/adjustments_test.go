package quote

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-studio/internal/discount"
)

// Compiled in package quote itself so the adjustment kinds live in the same
// scope as the discount package import used by the service.
var _ DiscountSource = noopDiscounts{}

type noopDiscounts struct{}

func (noopDiscounts) Lookup(context.Context, string) (discount.Code, bool, error) {
	return discount.Code{}, false, nil
}

func TestBaseFeeAdjustmentsSurchargesPrecedeDiscounts(t *testing.T) {
	seenDiscount := false
	for _, adj := range baseFeeAdjustments {
		switch adj.kind {
		case adjSurcharge:
			require.False(t, seenDiscount, "surcharge %s ordered after a discount", adj.rateCode)
		case adjDiscount:
			seenDiscount = true
		default:
			t.Fatalf("unknown adjustment kind for %s", adj.rateCode)
		}
	}
	require.True(t, seenDiscount)
}
