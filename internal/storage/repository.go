package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fingenius/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists all record types. Every query on a child table
// is scoped by user_id in the WHERE clause; ownership is never checked
// after the fact.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	u.ID, err = res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", u.ID, "username", u.Username)
	return u, nil
}

func (r *SQLiteRepository) UserByID(ctx context.Context, id int64) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepository) UserByUsername(ctx context.Context, username string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE username = ?`, username))
}

func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// --- expenses ---

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, description, amount_cents, category, date) VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.Description, e.Amount.Cents, e.Category, e.Date.String())
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense id: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, amount_cents, category, date
		 FROM expenses WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		var date string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Amount.Cents, &e.Category, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", date, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "expenses", userID, id)
}

// --- incomes ---

func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO incomes (user_id, description, amount_cents, category, date) VALUES (?, ?, ?, ?, ?)`,
		in.UserID, in.Description, in.Amount.Cents, in.Category, in.Date.String())
	if err != nil {
		return core.Income{}, fmt.Errorf("create income: %w", err)
	}
	in.ID, err = res.LastInsertId()
	if err != nil {
		return core.Income{}, fmt.Errorf("create income id: %w", err)
	}
	return in, nil
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID int64) ([]core.Income, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, description, amount_cents, category, date
		 FROM incomes WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	defer rows.Close()

	var out []core.Income
	for rows.Next() {
		var in core.Income
		var date string
		if err := rows.Scan(&in.ID, &in.UserID, &in.Description, &in.Amount.Cents, &in.Category, &date); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		if in.Date, err = core.ParseDate(date); err != nil {
			return nil, fmt.Errorf("parse income date %q: %w", date, err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "incomes", userID, id)
}

// --- goals ---

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, name, target_cents, current_cents, target_date, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.UserID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, nullDate(g.TargetDate), g.Description)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	g.ID, err = res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal id: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, target_date, description
		 FROM goals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GoalByID(ctx context.Context, userID, id int64) (core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_cents, current_cents, target_date, description
		 FROM goals WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.Goal{}, fmt.Errorf("get goal: %w", err)
		}
		return core.Goal{}, core.ErrNotFound
	}
	return scanGoal(rows)
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_cents = ?, current_cents = ?, target_date = ?, description = ?
		 WHERE user_id = ? AND id = ?`,
		g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, nullDate(g.TargetDate), g.Description,
		g.UserID, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res, "update goal")
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "goals", userID, id)
}

func scanGoal(rows *sql.Rows) (core.Goal, error) {
	var g core.Goal
	var target sql.NullString
	if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &target, &g.Description); err != nil {
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	if target.Valid && target.String != "" {
		d, err := core.ParseDate(target.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("parse goal target date %q: %w", target.String, err)
		}
		g.TargetDate = d
	}
	return g, nil
}

// --- investments ---

func (r *SQLiteRepository) CreateInvestment(ctx context.Context, inv core.Investment) (core.Investment, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO investments (user_id, name, type, amount_cents, purchase_date, current_value_cents, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.UserID, inv.Name, inv.Type, inv.Amount.Cents, inv.PurchaseDate.String(), inv.CurrentValue.Cents, inv.Notes)
	if err != nil {
		return core.Investment{}, fmt.Errorf("create investment: %w", err)
	}
	inv.ID, err = res.LastInsertId()
	if err != nil {
		return core.Investment{}, fmt.Errorf("create investment id: %w", err)
	}
	return inv, nil
}

func (r *SQLiteRepository) ListInvestments(ctx context.Context, userID int64) ([]core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, amount_cents, purchase_date, current_value_cents, notes
		 FROM investments WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer rows.Close()

	var out []core.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) InvestmentByID(ctx context.Context, userID, id int64) (core.Investment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, type, amount_cents, purchase_date, current_value_cents, notes
		 FROM investments WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return core.Investment{}, fmt.Errorf("get investment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return core.Investment{}, fmt.Errorf("get investment: %w", err)
		}
		return core.Investment{}, core.ErrNotFound
	}
	return scanInvestment(rows)
}

func (r *SQLiteRepository) UpdateInvestment(ctx context.Context, inv core.Investment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE investments SET name = ?, type = ?, amount_cents = ?, purchase_date = ?, current_value_cents = ?, notes = ?
		 WHERE user_id = ? AND id = ?`,
		inv.Name, inv.Type, inv.Amount.Cents, inv.PurchaseDate.String(), inv.CurrentValue.Cents, inv.Notes,
		inv.UserID, inv.ID)
	if err != nil {
		return fmt.Errorf("update investment: %w", err)
	}
	return requireRow(res, "update investment")
}

func (r *SQLiteRepository) DeleteInvestment(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "investments", userID, id)
}

func scanInvestment(rows *sql.Rows) (core.Investment, error) {
	var inv core.Investment
	var purchase string
	if err := rows.Scan(&inv.ID, &inv.UserID, &inv.Name, &inv.Type, &inv.Amount.Cents, &purchase, &inv.CurrentValue.Cents, &inv.Notes); err != nil {
		return core.Investment{}, fmt.Errorf("scan investment: %w", err)
	}
	d, err := core.ParseDate(purchase)
	if err != nil {
		return core.Investment{}, fmt.Errorf("parse investment purchase date %q: %w", purchase, err)
	}
	inv.PurchaseDate = d
	return inv, nil
}

// --- budgets ---

func (r *SQLiteRepository) ListBudgets(ctx context.Context, userID int64) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, category, amount_cents FROM budgets WHERE user_id = ? ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpsertBudget sets the limit for one category, creating the row if needed.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, userID int64, category string, amountCents int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (user_id, category, amount_cents) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, category) DO UPDATE SET amount_cents = excluded.amount_cents`,
		userID, category, amountCents)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// SeedDefaultBudgets creates zero-amount budget rows for every default
// expense category. Existing rows are left untouched, so the call is
// idempotent and safe to repeat on every budget page view.
func (r *SQLiteRepository) SeedDefaultBudgets(ctx context.Context, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed budgets begin: %w", err)
	}
	defer tx.Rollback()

	for _, cat := range core.DefaultExpenseCategories {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO budgets (user_id, category, amount_cents) VALUES (?, ?, 0)`,
			userID, cat); err != nil {
			return fmt.Errorf("seed budget %q: %w", cat, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed budgets commit: %w", err)
	}
	return nil
}

// --- shared helpers ---

func (r *SQLiteRepository) deleteOwned(ctx context.Context, table string, userID, id int64) error {
	// table is always one of our fixed table names, never user input.
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM `+table+` WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return requireRow(res, "delete from "+table)
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func nullDate(d core.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
