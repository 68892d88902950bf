package repository

import (
	"context"
	"database/sql"
)

// ReportRepo holds the read-only aggregation queries behind the admin
// dashboards. Each method is an independent query; results are recomputed
// per call and any caching happens above this layer.
type ReportRepo struct {
	DB *sql.DB
}

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// CountRow is a generic label/count pair produced by the grouping queries.
type CountRow struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// Totals summarizes the whole installation for the dashboard header.
type Totals struct {
	Users           int64 `json:"users"`
	Farms           int64 `json:"farms"`
	AnimalBatches   int64 `json:"animal_batches"`
	Animals         int64 `json:"animals"`
	Employees       int64 `json:"employees"`
	PendingMessages int64 `json:"pending_messages"`
}

// GetTotals gathers the headline counts.
func (r *ReportRepo) GetTotals(ctx context.Context) (*Totals, error) {
	var t Totals
	err := r.DB.QueryRowContext(ctx, `SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM farms),
		(SELECT COUNT(*) FROM animals),
		(SELECT COALESCE(SUM(quantity), 0) FROM animals),
		(SELECT COUNT(*) FROM employees),
		(SELECT COUNT(*) FROM contact_messages WHERE status = 'pending')`).
		Scan(&t.Users, &t.Farms, &t.AnimalBatches, &t.Animals, &t.Employees, &t.PendingMessages)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryCounts runs a two-column (label, count) aggregation.
func (r *ReportRepo) queryCounts(ctx context.Context, q string) ([]CountRow, error) {
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CountRow
	for rows.Next() {
		var c CountRow
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// AnimalsByType sums batch quantities grouped by animal type.
func (r *ReportRepo) AnimalsByType(ctx context.Context) ([]CountRow, error) {
	return r.queryCounts(ctx, `SELECT animal_type, COALESCE(SUM(quantity), 0)
		FROM animals GROUP BY animal_type ORDER BY 2 DESC`)
}

// AnimalsByFarm sums batch quantities grouped by farm.
func (r *ReportRepo) AnimalsByFarm(ctx context.Context) ([]CountRow, error) {
	return r.queryCounts(ctx, `SELECT f.farm_name, COALESCE(SUM(a.quantity), 0)
		FROM farms f LEFT JOIN animals a ON a.farm_id = f.id
		GROUP BY f.id, f.farm_name ORDER BY 2 DESC`)
}

// EmployeesByPosition counts employees grouped by position.
func (r *ReportRepo) EmployeesByPosition(ctx context.Context) ([]CountRow, error) {
	return r.queryCounts(ctx, `SELECT position, COUNT(*)
		FROM employees GROUP BY position ORDER BY 2 DESC`)
}

// EmployeesBySalaryBucket counts employees in coarse salary bands; rows
// with no salary fall into "unspecified".
func (r *ReportRepo) EmployeesBySalaryBucket(ctx context.Context) ([]CountRow, error) {
	return r.queryCounts(ctx, `SELECT
		CASE
			WHEN salary IS NULL THEN 'unspecified'
			WHEN salary < 20000 THEN 'under 20k'
			WHEN salary < 40000 THEN '20k-40k'
			WHEN salary < 60000 THEN '40k-60k'
			ELSE '60k and above'
		END AS bucket, COUNT(*)
		FROM employees GROUP BY bucket ORDER BY 2 DESC`)
}

// EmployeesByTenure counts employees by years since hire.
func (r *ReportRepo) EmployeesByTenure(ctx context.Context) ([]CountRow, error) {
	return r.queryCounts(ctx, `SELECT
		CASE
			WHEN hire_date > DATE_SUB(CURDATE(), INTERVAL 1 YEAR) THEN 'under 1 year'
			WHEN hire_date > DATE_SUB(CURDATE(), INTERVAL 3 YEAR) THEN '1-3 years'
			WHEN hire_date > DATE_SUB(CURDATE(), INTERVAL 5 YEAR) THEN '3-5 years'
			ELSE 'over 5 years'
		END AS bucket, COUNT(*)
		FROM employees GROUP BY bucket ORDER BY 2 DESC`)
}

// HealthRecordsByType counts health records grouped by record type.
func (r *ReportRepo) HealthRecordsByType(ctx context.Context) ([]CountRow, error) {
	return r.queryCounts(ctx, `SELECT record_type, COUNT(*)
		FROM animal_health_records GROUP BY record_type ORDER BY 2 DESC`)
}
