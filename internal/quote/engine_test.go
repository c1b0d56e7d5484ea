package quote_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-studio/internal/quote"
	"github.com/noah-isme/backend-studio/internal/rates"
)

func testRateEntries() map[string]rates.Entry {
	values := map[string]float64{
		"siteFee":                        500,
		"setupBreakdownFee":              150,
		"videoSetupSurcharge_percent":    25,
		"bandOver6Surcharge_percent":     15,
		"attendedSurcharge_percent":      10,
		"facilityRentalDiscount_percent": 25,
		"halfDayDiscount_percent":        20,
		"bandUnder4Discount_percent":     10,
		"engineerAudio1_hourly":          75,
		"engineerAudio2_hourly":          65,
		"assistantAudio_hourly":          40,
		"dpswitcher_hourly":              85,
		"camera1_hourly":                 60,
		"camera2_hourly":                 60,
		"camera3_hourly":                 60,
		"siteAssistant_hourly":           35,
		"security_hourly":                45,
		"hospitalityAssistant_hourly":    40,
		"hardDrive":                      150,
		"dvdRefs":                        25,
		"cdRefs":                         15,
		"pianoTuningFee":                 185,
		"tax_divideBy1000":               8.875,
	}
	entries := make(map[string]rates.Entry, len(values))
	for code, value := range values {
		entries[code] = rates.Entry{Code: code, Name: code, Value: value}
	}
	return entries
}

func newEngine() *quote.Engine {
	return &quote.Engine{
		Rates: rates.NewTable(testRateEntries()),
		Now:   func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func requireConsistent(t *testing.T, calc quote.Calculation) {
	t.Helper()
	require.Equal(t, calc.BaseFees+calc.StaffCharges+calc.ExtraCharges, calc.Subtotal)
	require.Equal(t, calc.Subtotal+calc.Tax, calc.Total)
	var sum int64
	for _, item := range calc.LineItems {
		require.GreaterOrEqual(t, item.TotalCents, int64(0))
		require.Equal(t, item.UnitPriceCents*int64(item.Quantity), item.TotalCents)
		sum += item.TotalCents
	}
	require.Equal(t, calc.Subtotal, sum)
}

func TestCalculateProductionAudioOneDayEngineer(t *testing.T) {
	engine := newEngine()
	calc := engine.Calculate(quote.Input{
		BookingType: quote.BookingProduction,
		MediaType:   quote.MediaAudio,
		Days:        1,
		Staffing:    quote.Staffing{Engineer: true},
	})

	require.Equal(t, int64(65000), calc.BaseFees) // 50000 site + 15000 setup
	require.Equal(t, int64(75000), calc.StaffCharges)
	require.Equal(t, int64(0), calc.ExtraCharges)
	require.Equal(t, int64(140000), calc.Subtotal)
	require.Equal(t, int64(1243), calc.Tax) // round(140000 * 8.875 / 1000)
	require.Equal(t, int64(141243), calc.Total)
	requireConsistent(t, calc)

	require.Len(t, calc.LineItems, 3)
	require.Equal(t, "Production session (Full day)", calc.LineItems[0].Description)
	require.Equal(t, "Setup and breakdown fee", calc.LineItems[1].Description)
	require.Equal(t, "House engineer (10hrs/day)", calc.LineItems[2].Description)
}

func TestCalculateHalfDay(t *testing.T) {
	engine := newEngine()
	calc := engine.Calculate(quote.Input{
		BookingType: quote.BookingProduction,
		MediaType:   quote.MediaAudio,
		Days:        1,
		Shift:       "10",
		Staffing:    quote.Staffing{Engineer: true},
	})

	// 20% half-day discount on both fees, six staffing hours.
	require.Equal(t, int64(40000), calc.LineItems[0].UnitPriceCents)
	require.Equal(t, int64(12000), calc.LineItems[1].UnitPriceCents)
	require.Equal(t, "House engineer (6hrs/day)", calc.LineItems[2].Description)
	require.Equal(t, int64(45000), calc.LineItems[2].UnitPriceCents)
	require.Equal(t, int64(97000), calc.Subtotal)
	require.Equal(t, int64(861), calc.Tax)
	requireConsistent(t, calc)
	require.Contains(t, calc.LineItems[0].Description, "(Half day)")
}

func TestCalculateLargeBandSurchargeCompoundsEachFeeOnItself(t *testing.T) {
	engine := newEngine()
	size := 8
	calc := engine.Calculate(quote.Input{
		BookingType:  quote.BookingProduction,
		MediaType:    quote.MediaAudio,
		Days:         1,
		EnsembleSize: &size,
	})

	// 15% of the site fee's running value (500 -> 575), and 15% of the
	// setup fee's own running value (150 -> 172.50), not of the site fee.
	require.Equal(t, int64(57500), calc.LineItems[0].UnitPriceCents)
	require.Equal(t, int64(17250), calc.LineItems[1].UnitPriceCents)
	requireConsistent(t, calc)
}

func TestCalculateFacilityRentalWithoutEquipment(t *testing.T) {
	engine := newEngine()
	calc := engine.Calculate(quote.Input{
		BookingType:       quote.BookingFacilityRental,
		MediaType:         quote.MediaAudio,
		Days:              1,
		NoEquipmentRental: true,
	})

	// 25% facility rental discount on the site fee, no setup line at all.
	require.Len(t, calc.LineItems, 1)
	require.Equal(t, "Facility rental (Full day)", calc.LineItems[0].Description)
	require.Equal(t, int64(37500), calc.LineItems[0].UnitPriceCents)
	requireConsistent(t, calc)
}

func TestCalculateSurchargeOrderCompounds(t *testing.T) {
	engine := newEngine()
	size := 8
	calc := engine.Calculate(quote.Input{
		BookingType:  quote.BookingProduction,
		MediaType:    quote.MediaAudioVideo,
		Days:         1,
		EnsembleSize: &size,
		Audience:     true,
	})

	// site: 500 *1.25 = 625, *1.15 = 718.75, *1.10 = 790.625 -> 79063
	// setup: 150 *1.25 = 187.5, *1.15 = 215.625, *1.10 = 237.1875 -> 23719
	require.Equal(t, int64(79063), calc.LineItems[0].UnitPriceCents)
	require.Equal(t, int64(23719), calc.LineItems[1].UnitPriceCents)
	requireConsistent(t, calc)
}

func TestCalculateSmallBandDiscountCompoundsAfterSurcharges(t *testing.T) {
	engine := newEngine()
	size := 2
	calc := engine.Calculate(quote.Input{
		BookingType:  quote.BookingProduction,
		MediaType:    quote.MediaAudio,
		Days:         1,
		Shift:        "4",
		EnsembleSize: &size,
	})

	// 500 * 0.80 (half day) = 400, * 0.90 (small band) = 360.
	require.Equal(t, int64(36000), calc.LineItems[0].UnitPriceCents)
	requireConsistent(t, calc)
}

func TestCalculateHoursOverrideWinsOverShift(t *testing.T) {
	engine := newEngine()
	calc := engine.Calculate(quote.Input{
		BookingType: quote.BookingPost,
		MediaType:   quote.MediaAudio,
		Days:        2,
		Hours:       8,
		Shift:       "10",
		Staffing:    quote.Staffing{Tech: true},
	})

	item := calc.LineItems[len(calc.LineItems)-1]
	require.Equal(t, "House tech (8hrs/day)", item.Description)
	require.Equal(t, int64(52000), item.UnitPriceCents) // 65 * 8 hours
	require.Equal(t, int64(104000), item.TotalCents)    // two days
	require.Equal(t, 2, item.Quantity)
}

func TestCalculateStaffRoleOrderingAndCategories(t *testing.T) {
	engine := newEngine()
	calc := engine.Calculate(quote.Input{
		BookingType: quote.BookingProduction,
		MediaType:   quote.MediaAudioVideo,
		Days:        1,
		Staffing: quote.Staffing{
			Engineer:   true,
			DPSwitcher: true,
			Camera1:    true,
			Security:   true,
		},
	})

	var staff []quote.LineItem
	for _, item := range calc.LineItems {
		if item.DisplayOrder >= 100 && item.DisplayOrder < 200 {
			staff = append(staff, item)
		}
	}
	require.Len(t, staff, 4)
	require.Equal(t, quote.CategoryAudio, staff[0].Category)
	require.Equal(t, quote.CategoryVideo, staff[1].Category)
	require.Equal(t, quote.CategoryVideo, staff[2].Category)
	require.Equal(t, quote.CategoryExtra, staff[3].Category)
}

func TestCalculateExtras(t *testing.T) {
	engine := newEngine()
	calc := engine.Calculate(quote.Input{
		BookingType:     quote.BookingProduction,
		MediaType:       quote.MediaAudio,
		Days:            1,
		MediaStorage:    "Hard Drive",
		CustomTuning:    true,
		MiscCharge:      123.456,
		MiscDescription: "Courier delivery",
	})

	extras := calc.LineItems[2:]
	require.Len(t, extras, 3)
	require.Equal(t, "Hard Drive", extras[0].Description)
	require.Equal(t, int64(15000), extras[0].TotalCents)
	require.Equal(t, "Custom piano tuning", extras[1].Description)
	require.Equal(t, int64(18500), extras[1].TotalCents)
	require.Equal(t, "Courier delivery", extras[2].Description)
	require.Equal(t, int64(12346), extras[2].TotalCents)
	require.Equal(t, int64(45846), calc.ExtraCharges)
	requireConsistent(t, calc)
}

func TestCalculateOwnMediaProducesNoStorageItem(t *testing.T) {
	engine := newEngine()
	calc := engine.Calculate(quote.Input{
		BookingType:  quote.BookingProduction,
		MediaType:    quote.MediaAudio,
		Days:         1,
		MediaStorage: "Own HD",
	})
	require.Len(t, calc.LineItems, 2)
	require.Equal(t, int64(0), calc.ExtraCharges)
}

func TestCalculateUnitPricesRoundBeforeQuantity(t *testing.T) {
	entries := testRateEntries()
	entries["engineerAudio1_hourly"] = rates.Entry{Code: "engineerAudio1_hourly", Value: 5.5557}
	engine := &quote.Engine{Rates: rates.NewTable(entries)}

	calc := engine.Calculate(quote.Input{
		BookingType: quote.BookingProduction,
		MediaType:   quote.MediaAudio,
		Days:        2,
		Staffing:    quote.Staffing{Engineer: true},
	})

	item := calc.LineItems[2]
	// 5.5557 * 10 = 55.557 rounds to 5556 cents per day, then x2 days.
	require.Equal(t, int64(5556), item.UnitPriceCents)
	require.Equal(t, int64(11112), item.TotalCents)
}

func TestCalculateIdempotentExceptTimestamp(t *testing.T) {
	in := quote.Input{
		BookingType: quote.BookingProduction,
		MediaType:   quote.MediaAudioVideo,
		Days:        3,
		Audience:    true,
		Staffing:    quote.Staffing{Engineer: true, Camera1: true},
		PianoTuning: true,
	}
	first := newEngine().Calculate(in)
	second := newEngine().Calculate(in)
	require.Equal(t, first, second)
}

func TestCalculateMissingRatesFallBackToZero(t *testing.T) {
	table := rates.NewTable(nil)
	engine := &quote.Engine{Rates: table}
	calc := engine.Calculate(quote.Input{
		BookingType: quote.BookingProduction,
		MediaType:   quote.MediaAudio,
		Days:        1,
		Staffing:    quote.Staffing{Engineer: true},
	})

	require.Equal(t, int64(0), calc.Total)
	requireConsistent(t, calc)
	require.Contains(t, table.Missing(), "siteFee")
	require.Contains(t, table.Missing(), "engineerAudio1_hourly")
}

func TestCalculateDisplayOrderBands(t *testing.T) {
	engine := newEngine()
	calc := engine.Calculate(quote.Input{
		BookingType:  quote.BookingProduction,
		MediaType:    quote.MediaAudio,
		Days:         1,
		Staffing:     quote.Staffing{Engineer: true, Security: true},
		MediaStorage: "DVD",
		MiscCharge:   10,
	})

	last := 0
	for _, item := range calc.LineItems {
		require.Greater(t, item.DisplayOrder, last)
		last = item.DisplayOrder
	}
	require.Less(t, calc.LineItems[0].DisplayOrder, 100)
	require.GreaterOrEqual(t, calc.LineItems[2].DisplayOrder, 100)
	require.GreaterOrEqual(t, calc.LineItems[4].DisplayOrder, 200)
}
