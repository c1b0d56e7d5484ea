package quote

import (
	"fmt"
	"math"
	"time"

	"github.com/noah-isme/backend-studio/internal/rates"
)

// Booking types accepted by the engine.
const (
	BookingProduction     = "production"
	BookingPost           = "post"
	BookingFacilityRental = "facility-rental"
)

// Media types accepted by the engine.
const (
	MediaAudio      = "audio"
	MediaAudioVideo = "audio-video"
)

// Line item categories.
const (
	CategoryBase      = "base"
	CategoryAudio     = "audio"
	CategoryVideo     = "video"
	CategoryExtra     = "extra"
	CategorySurcharge = "surcharge"
	CategoryDiscount  = "discount"
)

// Rate codes consumed by the engine. Values live in the rate_config table.
const (
	codeSiteFee                = "siteFee"
	codeSetupBreakdownFee      = "setupBreakdownFee"
	codeVideoSetupSurcharge    = "videoSetupSurcharge_percent"
	codeBandOver6Surcharge     = "bandOver6Surcharge_percent"
	codeAttendedSurcharge      = "attendedSurcharge_percent"
	codeFacilityRentalDiscount = "facilityRentalDiscount_percent"
	codeHalfDayDiscount        = "halfDayDiscount_percent"
	codeBandUnder4Discount     = "bandUnder4Discount_percent"
	codePianoTuningFee         = "pianoTuningFee"
	codeTaxPerMille            = "tax_divideBy1000"
)

// Hours per day resolved for full-day and half-day bookings when no explicit
// override is supplied.
const (
	fullDayHours = 10
	halfDayHours = 6
)

// Display-order bands. Ordering between bands is guaranteed; ordering within
// a band follows insertion sequence.
const (
	baseBand  = 1
	staffBand = 100
	extraBand = 200
)

// Staffing holds the independently toggled staff roles for a booking.
type Staffing struct {
	Engineer             bool `json:"engineer,omitempty"`
	Tech                 bool `json:"tech,omitempty"`
	AudioAssistant       bool `json:"audioAssistant,omitempty"`
	DPSwitcher           bool `json:"dpSwitcher,omitempty"`
	Camera1              bool `json:"camera1,omitempty"`
	Camera2              bool `json:"camera2,omitempty"`
	Camera3              bool `json:"camera3,omitempty"`
	SiteAssistant        bool `json:"siteAssistant,omitempty"`
	Security             bool `json:"security,omitempty"`
	HospitalityAssistant bool `json:"hospitalityAssistant,omitempty"`
}

// Input is the booking request to price. It is read-only to the engine.
type Input struct {
	ProjectName string `json:"projectName,omitempty"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Sponsor     string `json:"sponsor,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`

	BookingType string `json:"bookingType" validate:"required,oneof=production post facility-rental"`
	MediaType   string `json:"mediaType" validate:"required,oneof=audio audio-video"`
	Days        int    `json:"days" validate:"required,gte=1"`
	Hours       int    `json:"hours,omitempty" validate:"gte=0"`
	// Shift marks a half-day booking. Its presence, not its value, triggers
	// half-day pricing.
	Shift        string `json:"shift,omitempty"`
	EnsembleSize *int   `json:"ensembleSize,omitempty" validate:"omitempty,gte=0"`

	Audience          bool `json:"audience,omitempty"`
	ClientEngineer    bool `json:"clientEngineer,omitempty"`
	NoEquipmentRental bool `json:"noEquipmentRental,omitempty"`

	Staffing Staffing `json:"staffing"`

	PianoTuning  bool   `json:"pianoTuning,omitempty"`
	CustomTuning bool   `json:"customTuning,omitempty"`
	MediaStorage string `json:"mediaStorage,omitempty" validate:"omitempty,oneof='Hard Drive' 'DVD' 'CD-R' 'Own HD'"`

	DiscountCode string `json:"discountCode,omitempty"`

	MiscCharge      float64 `json:"miscCharge,omitempty" validate:"gte=0"`
	MiscDescription string  `json:"miscDescription,omitempty"`
}

// HalfDay reports whether the booking uses half-day pricing.
func (in Input) HalfDay() bool {
	return in.Shift != ""
}

// hoursPerDay resolves staffing hours: explicit override wins, then the
// half-day marker, then the full-day default.
func (in Input) hoursPerDay() int {
	if in.Hours > 0 {
		return in.Hours
	}
	if in.HalfDay() {
		return halfDayHours
	}
	return fullDayHours
}

// includesSetupBreakdown reports whether the setup/breakdown fee applies.
func (in Input) includesSetupBreakdown() bool {
	switch in.BookingType {
	case BookingProduction, BookingPost:
		return true
	case BookingFacilityRental:
		return !in.NoEquipmentRental
	}
	return false
}

// sessionLabel derives the base line item description from booking type and
// the half/full day marker.
func (in Input) sessionLabel() string {
	suffix := " (Full day)"
	if in.HalfDay() {
		suffix = " (Half day)"
	}
	switch in.BookingType {
	case BookingProduction:
		return "Production session" + suffix
	case BookingPost:
		return "Post-production session" + suffix
	default:
		return "Facility rental" + suffix
	}
}

// LineItem is one priced row contributing to a quote's total.
type LineItem struct {
	Category       string `json:"category"`
	Description    string `json:"description"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
	DisplayOrder   int    `json:"display_order"`
}

// Calculation is the engine's immutable output. All amounts are integer
// minor currency units and Total == Subtotal + Tax holds exactly.
type Calculation struct {
	LineItems    []LineItem `json:"lineItems"`
	BaseFees     int64      `json:"baseFees"`
	StaffCharges int64      `json:"staffCharges"`
	ExtraCharges int64      `json:"extraCharges"`
	Subtotal     int64      `json:"subtotal"`
	Tax          int64      `json:"tax"`
	Total        int64      `json:"total"`
	CalculatedAt time.Time  `json:"calculatedAt"`
}

// Engine computes a quote from a booking input and a rate table snapshot.
// It performs no I/O and is deterministic for identical inputs and rates,
// modulo the timestamp.
type Engine struct {
	Rates *rates.Table
	Now   func() time.Time
}

// Calculate runs the full pricing pipeline: base fees, staffing, extras,
// subtotal, tax, total. The input is assumed validated (Days >= 1).
func (e *Engine) Calculate(in Input) Calculation {
	baseItems, baseTotal := e.baseFees(in)
	staffItems, staffTotal := e.staffCharges(in)
	extraItems, extraTotal := e.extraCharges(in)

	items := make([]LineItem, 0, len(baseItems)+len(staffItems)+len(extraItems))
	items = append(items, baseItems...)
	items = append(items, staffItems...)
	items = append(items, extraItems...)

	subtotal := baseTotal + staffTotal + extraTotal
	tax := e.tax(subtotal)

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	return Calculation{
		LineItems:    items,
		BaseFees:     baseTotal,
		StaffCharges: staffTotal,
		ExtraCharges: extraTotal,
		Subtotal:     subtotal,
		Tax:          tax,
		Total:        subtotal + tax,
		CalculatedAt: now().UTC(),
	}
}

type adjustmentKind int

const (
	adjSurcharge adjustmentKind = iota
	adjDiscount
)

// feeAdjustment is one ordered step of the base-fee pipeline. Surcharges
// always precede discounts, and every step compounds each fee on its own
// running value rather than the original base.
type feeAdjustment struct {
	rateCode string
	kind     adjustmentKind
	applies  func(Input) bool
}

var baseFeeAdjustments = []feeAdjustment{
	{rateCode: codeVideoSetupSurcharge, kind: adjSurcharge, applies: func(in Input) bool {
		return in.MediaType == MediaAudioVideo && in.BookingType == BookingProduction
	}},
	{rateCode: codeBandOver6Surcharge, kind: adjSurcharge, applies: func(in Input) bool {
		return in.EnsembleSize != nil && *in.EnsembleSize >= 7
	}},
	{rateCode: codeAttendedSurcharge, kind: adjSurcharge, applies: func(in Input) bool {
		return in.Audience
	}},
	{rateCode: codeFacilityRentalDiscount, kind: adjDiscount, applies: func(in Input) bool {
		return in.BookingType == BookingFacilityRental
	}},
	{rateCode: codeHalfDayDiscount, kind: adjDiscount, applies: func(in Input) bool {
		return in.HalfDay()
	}},
	{rateCode: codeBandUnder4Discount, kind: adjDiscount, applies: func(in Input) bool {
		return in.EnsembleSize != nil && *in.EnsembleSize > 0 && *in.EnsembleSize <= 3
	}},
}

// baseFees computes the site fee and setup/breakdown fee line items by
// running the ordered adjustment pipeline over the (site, setup) value pair.
func (e *Engine) baseFees(in Input) ([]LineItem, int64) {
	site := e.Rates.Lookup(codeSiteFee)
	setup := e.Rates.Lookup(codeSetupBreakdownFee)

	for _, adj := range baseFeeAdjustments {
		if !adj.applies(in) {
			continue
		}
		factor := e.Rates.Lookup(adj.rateCode) / 100
		switch adj.kind {
		case adjSurcharge:
			site += site * factor
			setup += setup * factor
		case adjDiscount:
			site -= site * factor
			setup -= setup * factor
		}
	}

	order := baseBand
	siteUnit := toCents(site)
	siteTotal := siteUnit * int64(in.Days)
	items := []LineItem{{
		Category:       CategoryBase,
		Description:    in.sessionLabel(),
		Quantity:       in.Days,
		UnitPriceCents: siteUnit,
		TotalCents:     siteTotal,
		DisplayOrder:   order,
	}}
	order++
	total := siteTotal

	if in.includesSetupBreakdown() {
		setupCents := toCents(setup)
		items = append(items, LineItem{
			Category:       CategoryBase,
			Description:    "Setup and breakdown fee",
			Quantity:       1,
			UnitPriceCents: setupCents,
			TotalCents:     setupCents,
			DisplayOrder:   order,
		})
		total += setupCents
	}
	return items, total
}

// staffRole binds a staffing toggle to its hourly rate code, quote category
// and display label.
type staffRole struct {
	enabled  func(Staffing) bool
	rateCode string
	category string
	label    string
}

var staffRoles = []staffRole{
	{func(s Staffing) bool { return s.Engineer }, "engineerAudio1_hourly", CategoryAudio, "House engineer"},
	{func(s Staffing) bool { return s.Tech }, "engineerAudio2_hourly", CategoryAudio, "House tech"},
	{func(s Staffing) bool { return s.AudioAssistant }, "assistantAudio_hourly", CategoryAudio, "Audio assistant"},
	{func(s Staffing) bool { return s.DPSwitcher }, "dpswitcher_hourly", CategoryVideo, "DP/Switcher"},
	{func(s Staffing) bool { return s.Camera1 }, "camera1_hourly", CategoryVideo, "Camera operator 1"},
	{func(s Staffing) bool { return s.Camera2 }, "camera2_hourly", CategoryVideo, "Camera operator 2"},
	{func(s Staffing) bool { return s.Camera3 }, "camera3_hourly", CategoryVideo, "Camera operator 3"},
	{func(s Staffing) bool { return s.SiteAssistant }, "siteAssistant_hourly", CategoryExtra, "Facility assistant"},
	{func(s Staffing) bool { return s.Security }, "security_hourly", CategoryExtra, "Security"},
	{func(s Staffing) bool { return s.HospitalityAssistant }, "hospitalityAssistant_hourly", CategoryExtra, "Hospitality assistant"},
}

// staffCharges emits one line item per active role. The per-day cost is
// rounded to cents before the day multiplier is applied.
func (e *Engine) staffCharges(in Input) ([]LineItem, int64) {
	hours := in.hoursPerDay()
	order := staffBand

	var items []LineItem
	var total int64
	for _, role := range staffRoles {
		if !role.enabled(in.Staffing) {
			continue
		}
		unit := toCents(e.Rates.Lookup(role.rateCode) * float64(hours))
		lineTotal := unit * int64(in.Days)
		items = append(items, LineItem{
			Category:       role.category,
			Description:    fmt.Sprintf("%s (%dhrs/day)", role.label, hours),
			Quantity:       in.Days,
			UnitPriceCents: unit,
			TotalCents:     lineTotal,
			DisplayOrder:   order,
		})
		order++
		total += lineTotal
	}
	return items, total
}

// mediaStorageOwn is the "caller supplies own media" sentinel: no charge.
const mediaStorageOwn = "Own HD"

var mediaStorageRates = map[string]string{
	"Hard Drive": "hardDrive",
	"DVD":        "dvdRefs",
	"CD-R":       "cdRefs",
}

// extraCharges emits flat line items for media storage, piano tuning and
// miscellaneous charges. The misc amount is the only price originating from
// the request rather than the rate table.
func (e *Engine) extraCharges(in Input) ([]LineItem, int64) {
	order := extraBand

	var items []LineItem
	var total int64

	if in.MediaStorage != "" && in.MediaStorage != mediaStorageOwn {
		if code, ok := mediaStorageRates[in.MediaStorage]; ok {
			cents := toCents(e.Rates.Lookup(code))
			items = append(items, LineItem{
				Category:       CategoryExtra,
				Description:    in.MediaStorage,
				Quantity:       1,
				UnitPriceCents: cents,
				TotalCents:     cents,
				DisplayOrder:   order,
			})
			order++
			total += cents
		}
	}

	if in.PianoTuning || in.CustomTuning {
		cents := toCents(e.Rates.Lookup(codePianoTuningFee))
		description := "Piano tuning"
		if in.CustomTuning {
			description = "Custom piano tuning"
		}
		items = append(items, LineItem{
			Category:       CategoryExtra,
			Description:    description,
			Quantity:       1,
			UnitPriceCents: cents,
			TotalCents:     cents,
			DisplayOrder:   order,
		})
		order++
		total += cents
	}

	if in.MiscCharge > 0 && !math.IsInf(in.MiscCharge, 0) && !math.IsNaN(in.MiscCharge) {
		cents := toCents(in.MiscCharge)
		description := in.MiscDescription
		if description == "" {
			description = "Miscellaneous charges"
		}
		items = append(items, LineItem{
			Category:       CategoryExtra,
			Description:    description,
			Quantity:       1,
			UnitPriceCents: cents,
			TotalCents:     cents,
			DisplayOrder:   order,
		})
		total += cents
	}

	return items, total
}

// tax applies the per-mille-scaled tax rate to the integer-cent subtotal.
// The stored rate is already scaled x1000 relative to a plain percentage.
func (e *Engine) tax(subtotal int64) int64 {
	rate := e.Rates.Lookup(codeTaxPerMille)
	return int64(math.Round(float64(subtotal) * rate / 1000))
}

// toCents rounds a major-unit amount to the nearest cent.
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}
