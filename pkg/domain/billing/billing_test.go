package billing

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	proID     = "prod_TQwmCxRJiMH3Nv"
	premiumID = "prod_TQwnEiqlldcXk0"
)

func TestTierTable(t *testing.T) {
	table := NewTierTable(proID, premiumID, map[string]string{
		"prod_legacy": "premium",
		"prod_bogus":  "platinum",
	})

	assert.Equal(t, TierPro, table.Tier(proID))
	assert.Equal(t, TierPremium, table.Tier(premiumID))
	assert.Equal(t, TierFree, table.Tier("prod_unknown"))
	assert.Equal(t, TierFree, table.Tier("prod_legacy"), "aliases only apply to plan changes")

	assert.Equal(t, TierPremium, table.TierOrAlias("prod_legacy"))
	assert.Equal(t, TierPro, table.TierOrAlias(proID))
	assert.Equal(t, TierFree, table.TierOrAlias("prod_bogus"))
}

func TestTierTable_AlwaysMapsToKnownTier(t *testing.T) {
	table := NewTierTable(proID, premiumID, nil)
	properties := gopter.NewProperties(nil)
	properties.Property("every product id maps to a valid tier", prop.ForAll(
		func(id string) bool {
			return table.Tier(id).Valid() && table.TierOrAlias(id).Valid()
		},
		gen.AnyString(),
	))
	properties.TestingRun(t)
}

func TestMinorUnitsToDecimal(t *testing.T) {
	assert.Equal(t, "19.99", MinorUnitsToDecimal(1999).StringFixed(2))
	assert.True(t, MinorUnitsToDecimal(1999).Equal(decimal.RequireFromString("19.99")))
	assert.True(t, MinorUnitsToDecimal(0).IsZero())
	assert.Equal(t, "-5.00", MinorUnitsToDecimal(-500).StringFixed(2))

	properties := gopter.NewProperties(nil)
	properties.Property("converting back to cents is lossless", prop.ForAll(
		func(cents int64) bool {
			return MinorUnitsToDecimal(cents).Shift(2).IntPart() == cents
		},
		gen.Int64Range(-1<<40, 1<<40),
	))
	properties.TestingRun(t)
}

func TestPeriodEnd(t *testing.T) {
	ts, ok := PeriodEnd(1735689600)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *ts)

	for _, epoch := range []int64{0, -1, 1 << 62} {
		ts, ok := PeriodEnd(epoch)
		assert.False(t, ok)
		assert.Nil(t, ts)
	}
}

func TestStatusFromProvider(t *testing.T) {
	assert.Equal(t, StatusActive, StatusFromProvider("active"))
	assert.Equal(t, StatusTrialing, StatusFromProvider("trialing"))
	assert.Equal(t, StatusPastDue, StatusFromProvider("unpaid"))
	assert.Equal(t, StatusCanceled, StatusFromProvider("incomplete_expired"))
	assert.Equal(t, StatusCanceled, StatusFromProvider(""))
}
