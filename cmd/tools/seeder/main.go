package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type rateSeed struct {
	code      string
	name      string
	value     float64
	valueType string
	category  string
}

var rateSeeds = []rateSeed{
	{"siteFee", "Site fee per day", 500, "fixed", "base"},
	{"setupBreakdownFee", "Setup and breakdown fee", 150, "fixed", "base"},
	{"videoSetupSurcharge_percent", "Video setup surcharge", 25, "percent", "surcharge"},
	{"bandOver6Surcharge_percent", "Large band surcharge (7+)", 15, "percent", "surcharge"},
	{"attendedSurcharge_percent", "Attended event surcharge", 10, "percent", "surcharge"},
	{"facilityRentalDiscount_percent", "Facility rental discount", 25, "percent", "discount"},
	{"halfDayDiscount_percent", "Half-day discount", 20, "percent", "discount"},
	{"bandUnder4Discount_percent", "Small band discount (1-3)", 10, "percent", "discount"},
	{"engineerAudio1_hourly", "House engineer", 75, "hourly", "staff"},
	{"engineerAudio2_hourly", "House tech", 65, "hourly", "staff"},
	{"assistantAudio_hourly", "Audio assistant", 40, "hourly", "staff"},
	{"dpswitcher_hourly", "DP/Switcher", 85, "hourly", "staff"},
	{"camera1_hourly", "Camera operator 1", 60, "hourly", "staff"},
	{"camera2_hourly", "Camera operator 2", 60, "hourly", "staff"},
	{"camera3_hourly", "Camera operator 3", 60, "hourly", "staff"},
	{"siteAssistant_hourly", "Facility assistant", 35, "hourly", "staff"},
	{"security_hourly", "Security", 45, "hourly", "staff"},
	{"hospitalityAssistant_hourly", "Hospitality assistant", 40, "hourly", "staff"},
	{"hardDrive", "Hard drive", 150, "fixed", "equipment"},
	{"dvdRefs", "DVD reference copies", 25, "fixed", "equipment"},
	{"cdRefs", "CD-R reference copies", 15, "fixed", "equipment"},
	{"pianoTuningFee", "Piano tuning", 185, "fixed", "equipment"},
	{"tax_divideBy1000", "Sales tax (per-mille scaled)", 8.875, "percent", "tax"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedRates(db)
	seedDiscountCodes(db)

	log.Println("Seeding completed successfully!")
}

func seedRates(db *sql.DB) {
	for _, seed := range rateSeeds {
		_, err := db.Exec(`
			INSERT INTO rate_config (code, name, value, value_type, category, is_active)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (code) DO UPDATE
			SET name = EXCLUDED.name,
			    value = EXCLUDED.value,
			    value_type = EXCLUDED.value_type,
			    category = EXCLUDED.category,
			    is_active = TRUE,
			    updated_at = now();
		`, seed.code, seed.name, seed.value, seed.valueType, seed.category)
		if err != nil {
			log.Fatalf("Failed to seed rate %s: %v", seed.code, err)
		}
	}
	log.Printf("Seeded %d rate config entries", len(rateSeeds))
}

func seedDiscountCodes(db *sql.DB) {
	_, err := db.Exec(`
		INSERT INTO quote_discount_codes (code, description, discount_percent, applies_to, is_active, expires_at)
		VALUES
			('EDU10', 'Educational programs', 10, 'both', TRUE, NULL),
			('NONPROFIT15', 'Registered non-profits', 15, 'site_fee', TRUE, NULL),
			('LAUNCH20', 'Launch promotion', 20, 'both', TRUE, now() + interval '90 days')
		ON CONFLICT (code) DO NOTHING;
	`)
	if err != nil {
		log.Fatalf("Failed to seed discount codes: %v", err)
	}
	log.Println("Seeded discount codes")
}
