package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/urfave/cli/v2"
)

// runDemo creates a demo tenant: a company on a trial subscription, an admin
// user, a catalog cloned from the system tenant, and two weeks of synthetic
// stock history so the order report has something to chew on.
func runDemo(c *cli.Context) error {
	db := dbFrom(c)
	ctx := c.Context

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var companyID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO companies (name, subscription_status, subscription_ends_at)
		 VALUES ($1, 'trial', $2) RETURNING id`,
		c.String("name"), time.Now().AddDate(0, 1, 0),
	).Scan(&companyID)
	if err != nil {
		return fmt.Errorf("failed to create demo company: %w", err)
	}

	adminID := c.Int64("admin-id")
	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, company_id, username, first_name, role)
		 VALUES ($1, $2, 'demo_admin', 'Demo', 'admin')
		 ON CONFLICT (id) DO UPDATE SET company_id = $2, role = 'admin', is_active = TRUE`,
		adminID, companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to create demo admin: %w", err)
	}

	// Clone the template catalog
	res, err := tx.ExecContext(ctx,
		`INSERT INTO products (company_id, name_internal, name_russian, name_chinese,
			package_weight, units_per_box, box_weight, price_per_box, unit)
		 SELECT $1, name_internal, name_russian, name_chinese,
			package_weight, units_per_box, box_weight, price_per_box, unit
		 FROM products WHERE company_id = 1
		 ON CONFLICT (company_id, name_internal) DO NOTHING`,
		companyID,
	)
	if err != nil {
		return fmt.Errorf("failed to clone catalog: %w", err)
	}
	cloned, _ := res.RowsAffected()

	if err := seedStockHistory(ctx, tx, companyID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit demo seed: %w", err)
	}

	log.Printf("demo tenant %d created with admin %d and %d products", companyID, adminID, cloned)
	return nil
}

// seedStockHistory writes a declining two-week snapshot series plus one
// mid-period supply for every cloned product.
func seedStockHistory(ctx context.Context, tx *sql.Tx, companyID int64) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, package_weight, units_per_box, box_weight, price_per_box, unit
		 FROM products WHERE company_id = $1`, companyID)
	if err != nil {
		return fmt.Errorf("failed to list demo products: %w", err)
	}
	defer rows.Close()

	type productRow struct {
		id            int64
		packageWeight float64
		unitsPerBox   int
		boxWeight     float64
		pricePerBox   float64
		unit          string
	}

	var products []productRow
	for rows.Next() {
		var p productRow
		if err := rows.Scan(&p.id, &p.packageWeight, &p.unitsPerBox, &p.boxWeight, &p.pricePerBox, &p.unit); err != nil {
			return fmt.Errorf("failed to scan demo product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, p := range products {
		// Start at ten boxes worth and drain roughly half a box a day.
		quantity := float64(10 * p.unitsPerBox)
		for day := 14; day >= 0; day-- {
			date := today.AddDate(0, 0, -day)

			weight := quantity * p.packageWeight
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO stock (company_id, product_id, date, quantity, weight)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (company_id, product_id, date) DO UPDATE
				 SET quantity = EXCLUDED.quantity, weight = EXCLUDED.weight`,
				companyID, p.id, date, quantity, weight,
			); err != nil {
				return fmt.Errorf("failed to seed stock for product %d: %w", p.id, err)
			}

			// One resupply halfway through keeps the series positive.
			if day == 7 {
				boxes := 3
				supplyWeight := float64(boxes) * p.boxWeight
				if p.unit == "шт" {
					supplyWeight = float64(boxes * p.unitsPerBox)
				}
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO supplies (company_id, product_id, date, boxes, weight, cost)
					 VALUES ($1, $2, $3, $4, $5, $6)`,
					companyID, p.id, date, boxes, supplyWeight, float64(boxes)*p.pricePerBox,
				); err != nil {
					return fmt.Errorf("failed to seed supply for product %d: %w", p.id, err)
				}
				quantity += float64(boxes * p.unitsPerBox)
			}

			quantity -= float64(p.unitsPerBox) / 2
			if quantity < 0 {
				quantity = 0
			}
		}
	}

	return nil
}
