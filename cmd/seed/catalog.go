package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
)

// catalog CSV columns, in order:
// name_internal,name_russian,name_chinese,package_weight,units_per_box,price_per_box,unit
const catalogColumns = 7

func runImportCatalog(c *cli.Context) error {
	db := dbFrom(c)

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = catalogColumns

	// Skip header
	if _, err := reader.Read(); err != nil {
		return fmt.Errorf("failed to read catalog header: %w", err)
	}

	const upsert = `
		INSERT INTO products (company_id, name_internal, name_russian, name_chinese,
			package_weight, units_per_box, box_weight, price_per_box, unit)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id, name_internal) DO UPDATE SET
			name_russian = EXCLUDED.name_russian,
			name_chinese = EXCLUDED.name_chinese,
			package_weight = EXCLUDED.package_weight,
			units_per_box = EXCLUDED.units_per_box,
			box_weight = EXCLUDED.box_weight,
			price_per_box = EXCLUDED.price_per_box,
			unit = EXCLUDED.unit`

	line := 1
	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read catalog line %d: %w", line, err)
		}
		line++

		nameInternal := strings.TrimSpace(record[0])
		if nameInternal == "" {
			log.Printf("skipping line %d: empty name_internal", line)
			continue
		}

		packageWeight, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil || packageWeight <= 0 {
			log.Printf("skipping %s: bad package_weight %q", nameInternal, record[3])
			continue
		}
		unitsPerBox, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil || unitsPerBox <= 0 {
			log.Printf("skipping %s: bad units_per_box %q", nameInternal, record[4])
			continue
		}
		pricePerBox, err := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
		if err != nil || pricePerBox < 0 {
			log.Printf("skipping %s: bad price_per_box %q", nameInternal, record[5])
			continue
		}
		unit := strings.TrimSpace(record[6])
		if unit == "" {
			unit = "кг"
		}
		// Piece-unit products count pieces directly.
		if unit == "шт" && packageWeight != 1 {
			log.Printf("normalizing %s: package_weight forced to 1 for шт", nameInternal)
			packageWeight = 1
		}

		boxWeight := packageWeight * float64(unitsPerBox)
		_, err = db.ExecContext(c.Context, upsert,
			nameInternal,
			strings.TrimSpace(record[1]),
			strings.TrimSpace(record[2]),
			packageWeight,
			unitsPerBox,
			boxWeight,
			pricePerBox,
			unit,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", nameInternal, err)
		}
		imported++
	}

	log.Printf("imported %d products into the system catalog", imported)
	return nil
}
