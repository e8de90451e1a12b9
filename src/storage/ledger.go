package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"milk-admin/src/logger"
	"milk-admin/src/models"
)

// ledger holds the SQL shared by the SQLite and Postgres mirrors. Queries are
// written with '?' placeholders and table names wrapped in {}; the dialect
// rewrites both.
type ledger struct {
	DB        *sql.DB
	Logger    *logger.Logger
	Retention int

	table    func(name string) string
	numbered bool // $1, $2 … placeholders
	now      func() time.Time
}

// -----------------------------------------------------------------------------

var ledgerTables = []string{
	`CREATE TABLE IF NOT EXISTS {milk_in} (
		id BIGINT PRIMARY KEY,
		cow_id BIGINT NOT NULL,
		cow_name TEXT,
		owner_id BIGINT,
		liters TEXT NOT NULL,
		date TEXT NOT NULL,
		milking_type TEXT,
		notes TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS milk_in_cow_date ON {milk_in} (cow_id, date)`,
	`CREATE TABLE IF NOT EXISTS {milk_out} (
		id BIGINT PRIMARY KEY,
		customer_id BIGINT NOT NULL,
		customer_name TEXT,
		quantity_sold TEXT NOT NULL,
		price_per_liter TEXT NOT NULL,
		payment_mode TEXT,
		date TEXT NOT NULL,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS {milk_spoilt} (
		id BIGINT PRIMARY KEY,
		amount_spoilt TEXT NOT NULL,
		loss_amount TEXT,
		cause TEXT,
		date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS {summary_snapshots} (
		taken_at BIGINT PRIMARY KEY,
		current_stock TEXT,
		daily_produce TEXT,
		daily_sold TEXT,
		weekly_sold TEXT,
		weekly_spoilt TEXT,
		monthly_sold TEXT,
		today_earnings TEXT,
		weekly_earnings TEXT,
		monthly_earnings TEXT
	)`,
}

// q expands table names and placeholders for the dialect.
func (l *ledger) q(query string) string {
	for _, name := range []string{"milk_in", "milk_out", "milk_spoilt", "summary_snapshots"} {
		query = strings.ReplaceAll(query, "{"+name+"}", l.table(name))
	}
	if !l.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (l *ledger) createTables() error {
	for _, stmt := range ledgerTables {
		if _, err := l.DB.Exec(l.q(stmt)); err != nil {
			return fmt.Errorf("failed to create ledger tables: %w", err)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------

// exec runs one prepared statement per row inside a transaction.
func (l *ledger) exec(ctx context.Context, query string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, l.q(query))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (l *ledger) SaveMilkInEntries(ctx context.Context, entries []models.MMilkInEntry) error {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		if e.ID == nil {
			continue
		}
		rows = append(rows, []interface{}{*e.ID, e.CowID, e.CowName, e.OwnerID, e.Liters, e.Date, e.MilkingType, e.Notes})
	}
	return l.exec(ctx, `
		INSERT INTO {milk_in} (id, cow_id, cow_name, owner_id, liters, date, milking_type, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			cow_id = excluded.cow_id,
			cow_name = excluded.cow_name,
			owner_id = excluded.owner_id,
			liters = excluded.liters,
			date = excluded.date,
			milking_type = excluded.milking_type,
			notes = excluded.notes
	`, rows)
}

func (l *ledger) SaveMilkOutEntries(ctx context.Context, entries []models.MMilkOutEntry) error {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		if e.ID == nil {
			continue
		}
		rows = append(rows, []interface{}{*e.ID, e.CustomerID, e.CustomerName, e.QuantitySold, e.PricePerLiter, e.PaymentMode, e.Date, e.Notes})
	}
	return l.exec(ctx, `
		INSERT INTO {milk_out} (id, customer_id, customer_name, quantity_sold, price_per_liter, payment_mode, date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = excluded.customer_id,
			customer_name = excluded.customer_name,
			quantity_sold = excluded.quantity_sold,
			price_per_liter = excluded.price_per_liter,
			payment_mode = excluded.payment_mode,
			date = excluded.date,
			notes = excluded.notes
	`, rows)
}

func (l *ledger) SaveMilkSpoiltEntries(ctx context.Context, entries []models.MMilkSpoiltEntry) error {
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		if e.ID == nil {
			continue
		}
		rows = append(rows, []interface{}{*e.ID, e.AmountSpoilt, e.LossAmount, e.Cause, e.Date})
	}
	return l.exec(ctx, `
		INSERT INTO {milk_spoilt} (id, amount_spoilt, loss_amount, cause, date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			amount_spoilt = excluded.amount_spoilt,
			loss_amount = excluded.loss_amount,
			cause = excluded.cause,
			date = excluded.date
	`, rows)
}

func (l *ledger) SaveSummarySnapshot(ctx context.Context, snap models.MSnapshot, takenAt int64) error {
	s, e := snap.Stock, snap.Earnings
	return l.exec(ctx, `
		INSERT INTO {summary_snapshots} (taken_at, current_stock, daily_produce, daily_sold, weekly_sold,
			weekly_spoilt, monthly_sold, today_earnings, weekly_earnings, monthly_earnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (taken_at) DO UPDATE SET
			current_stock = excluded.current_stock,
			daily_produce = excluded.daily_produce,
			daily_sold = excluded.daily_sold,
			weekly_sold = excluded.weekly_sold,
			weekly_spoilt = excluded.weekly_spoilt,
			monthly_sold = excluded.monthly_sold,
			today_earnings = excluded.today_earnings,
			weekly_earnings = excluded.weekly_earnings,
			monthly_earnings = excluded.monthly_earnings
	`, [][]interface{}{{takenAt, s.CurrentStock, s.DailyProduce, s.DailyTotalLitersSold, s.WeeklySold,
		s.WeeklySpoilt, s.MonthlySold, e.TodayEarnings, e.WeeklyEarnings, e.MonthlyEarnings}})
}

// -----------------------------------------------------------------------------

func (l *ledger) LoadMilkInEntries(ctx context.Context, cowID int64) ([]models.MMilkInEntry, error) {
	rows, err := l.DB.QueryContext(ctx, l.q(`
		SELECT id, cow_id, cow_name, owner_id, liters, date, milking_type, notes
		FROM {milk_in} WHERE cow_id = ?
		ORDER BY date DESC, id DESC
	`), cowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.MMilkInEntry{}
	for rows.Next() {
		var (
			e                          models.MMilkInEntry
			id                         int64
			cowName, milkingType, note sql.NullString
			ownerID                    sql.NullInt64
		)
		if err := rows.Scan(&id, &e.CowID, &cowName, &ownerID, &e.Liters, &e.Date, &milkingType, &note); err != nil {
			return nil, err
		}
		e.ID = &id
		e.CowName = cowName.String
		e.OwnerID = ownerID.Int64
		e.MilkingType = milkingType.String
		e.Notes = note.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LatestSnapshot returns the most recent stored summaries and when they were taken.
func (l *ledger) LatestSnapshot(ctx context.Context) (models.MSnapshot, int64, error) {
	var (
		snap    models.MSnapshot
		takenAt int64
	)
	s, e := &snap.Stock, &snap.Earnings
	err := l.DB.QueryRowContext(ctx, l.q(`
		SELECT taken_at, current_stock, daily_produce, daily_sold, weekly_sold, weekly_spoilt,
			monthly_sold, today_earnings, weekly_earnings, monthly_earnings
		FROM {summary_snapshots} ORDER BY taken_at DESC LIMIT 1
	`)).Scan(&takenAt, &s.CurrentStock, &s.DailyProduce, &s.DailyTotalLitersSold, &s.WeeklySold,
		&s.WeeklySpoilt, &s.MonthlySold, &e.TodayEarnings, &e.WeeklyEarnings, &e.MonthlyEarnings)
	if err != nil {
		return models.MSnapshot{}, 0, err
	}
	return snap, takenAt, nil
}

// -----------------------------------------------------------------------------

func (l *ledger) CleanupOldData() error {
	if l.Retention <= 0 {
		return nil
	}
	cutoffTime := l.now().UTC().AddDate(0, 0, -l.Retention)
	cutoff := models.NewDate(cutoffTime).String()

	l.Logger.Info("Cleaning up ledger data older than %d days (date < %s)...", l.Retention, cutoff)

	for _, t := range []string{"{milk_in}", "{milk_out}", "{milk_spoilt}"} {
		if _, err := l.DB.Exec(l.q("DELETE FROM "+t+" WHERE date < ?"), cutoff); err != nil {
			l.Logger.Error("Cleanup %s error: %v", t, err)
		}
	}
	if _, err := l.DB.Exec(l.q("DELETE FROM {summary_snapshots} WHERE taken_at < ?"), cutoffTime.Unix()); err != nil {
		l.Logger.Error("Cleanup summary_snapshots error: %v", err)
	}

	l.Logger.Info("Cleanup completed")
	return nil
}

func (l *ledger) Close() error {
	if l.DB != nil {
		return l.DB.Close()
	}
	return nil
}
