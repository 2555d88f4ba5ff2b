package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/rabbikazmi/HackingDelhi/models"
)

// SQL drivers the portal can run on.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Each table carries its indexed columns next to the full JSON payload so the
// same schema runs on postgres and sqlite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS census_records (
		record_id    TEXT PRIMARY KEY,
		household_id TEXT NOT NULL,
		flag_status  TEXT NOT NULL,
		created_unix BIGINT NOT NULL,
		payload      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_census_records_household ON census_records (household_id)`,
	`CREATE INDEX IF NOT EXISTS idx_census_records_flag ON census_records (flag_status)`,
	`CREATE TABLE IF NOT EXISTS citizen_surveys (
		id           TEXT PRIMARY KEY,
		created_unix BIGINT NOT NULL,
		payload      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		email   TEXT NOT NULL UNIQUE,
		payload TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		audit_id TEXT PRIMARY KEY,
		ts_unix  BIGINT NOT NULL,
		seq      BIGINT NOT NULL,
		payload  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_ts ON audit_logs (ts_unix DESC, seq DESC)`,
}

// SQL stores records, surveys, users and audit entries in a relational
// database.
type SQL struct {
	db     *sql.DB
	driver string
}

// OpenSQL opens a connection pool for driver ("postgres" or "sqlite") and
// creates the schema.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// a single writer avoids SQLITE_BUSY under concurrent requests
		db.SetMaxOpenConns(1)
	}
	s := NewSQL(db, driver)
	if err := s.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewSQL(db *sql.DB, driver string) *SQL {
	return &SQL{db: db, driver: driver}
}

func (s *SQL) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQL) Backend() string { return BackendSQL }

func (s *SQL) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SQL) Close(context.Context) error { return s.db.Close() }

// rebind rewrites ? placeholders into the $n form postgres expects.
func (s *SQL) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQL) SeedRecords(ctx context.Context, records []models.CensusRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	added := 0
	for _, r := range records {
		if r.RecordID == "" {
			continue
		}
		ok, err := s.insertRecord(ctx, tx, NormalizeRecord(r))
		if err != nil {
			return added, err
		}
		if ok {
			added++
		}
	}
	return added, tx.Commit()
}

func (s *SQL) insertRecord(ctx context.Context, q querier, r models.CensusRecord) (bool, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return false, err
	}
	res, err := q.ExecContext(ctx, s.rebind(`INSERT INTO census_records (record_id, household_id, flag_status, created_unix, payload)
		VALUES (?, ?, ?, ?, ?) ON CONFLICT (record_id) DO NOTHING`),
		r.RecordID, r.HouseholdID, r.FlagStatus, r.CreatedAt.UnixNano(), string(payload))
	if err != nil {
		return false, fmt.Errorf("insert record %s: %w", r.RecordID, err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQL) List(ctx context.Context, opts ListOptions) ([]models.CensusRecord, error) {
	query := `SELECT payload FROM census_records`
	var args []any
	if opts.FlagStatus != "" {
		query += ` WHERE flag_status = ?`
		args = append(args, opts.FlagStatus)
	}
	query += ` ORDER BY created_unix, record_id`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	return s.queryRecords(ctx, query, args...)
}

func (s *SQL) Get(ctx context.Context, recordID string) (models.CensusRecord, error) {
	return s.getRecord(ctx, s.db, recordID)
}

func (s *SQL) getRecord(ctx context.Context, q querier, recordID string) (models.CensusRecord, error) {
	var payload string
	err := q.QueryRowContext(ctx, s.rebind(`SELECT payload FROM census_records WHERE record_id = ?`), recordID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.CensusRecord{}, ErrNotFound
	}
	if err != nil {
		return models.CensusRecord{}, err
	}
	var r models.CensusRecord
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return models.CensusRecord{}, fmt.Errorf("decode record %s: %w", recordID, err)
	}
	return r, nil
}

func (s *SQL) ByHousehold(ctx context.Context, householdID string) ([]models.CensusRecord, error) {
	return s.queryRecords(ctx,
		`SELECT payload FROM census_records WHERE household_id = ? ORDER BY created_unix, record_id`, householdID)
}

func (s *SQL) queryRecords(ctx context.Context, query string, args ...any) ([]models.CensusRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.CensusRecord, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r models.CensusRecord
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MarkReviewed updates the record and its originating survey, if any, in one
// transaction.
func (s *SQL) MarkReviewed(ctx context.Context, recordID string, rv Review) (models.CensusRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.CensusRecord{}, err
	}
	defer tx.Rollback()

	r, err := s.getRecord(ctx, tx, recordID)
	if err != nil {
		return models.CensusRecord{}, err
	}
	applyReview(&r, rv)
	payload, err := json.Marshal(r)
	if err != nil {
		return models.CensusRecord{}, err
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`UPDATE census_records SET flag_status = ?, payload = ? WHERE record_id = ?`),
		r.FlagStatus, string(payload), recordID); err != nil {
		return models.CensusRecord{}, fmt.Errorf("update record %s: %w", recordID, err)
	}

	sv, err := s.getSurvey(ctx, tx, recordID)
	switch {
	case err == nil:
		applySurveyReview(&sv, rv)
		raw, err := json.Marshal(sv)
		if err != nil {
			return models.CensusRecord{}, err
		}
		if _, err := tx.ExecContext(ctx, s.rebind(`UPDATE citizen_surveys SET payload = ? WHERE id = ?`), string(raw), recordID); err != nil {
			return models.CensusRecord{}, fmt.Errorf("update survey %s: %w", recordID, err)
		}
	case !errors.Is(err, ErrNotFound):
		return models.CensusRecord{}, err
	}

	return r, tx.Commit()
}

// InsertSurvey stores the survey and its canonical record together.
func (s *SQL) InsertSurvey(ctx context.Context, sv models.Survey) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := s.getSurvey(ctx, tx, sv.ID); err == nil {
		return ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	payload, err := json.Marshal(sv)
	if err != nil {
		return err
	}
	rec := RecordFromSurvey(sv)
	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO citizen_surveys (id, created_unix, payload) VALUES (?, ?, ?)`),
		sv.ID, rec.CreatedAt.UnixNano(), string(payload)); err != nil {
		return fmt.Errorf("insert survey %s: %w", sv.ID, err)
	}
	if _, err := s.insertRecord(ctx, tx, rec); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQL) GetSurvey(ctx context.Context, id string) (models.Survey, error) {
	return s.getSurvey(ctx, s.db, id)
}

func (s *SQL) getSurvey(ctx context.Context, q querier, id string) (models.Survey, error) {
	var payload string
	err := q.QueryRowContext(ctx, s.rebind(`SELECT payload FROM citizen_surveys WHERE id = ?`), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Survey{}, ErrNotFound
	}
	if err != nil {
		return models.Survey{}, err
	}
	var sv models.Survey
	if err := json.Unmarshal([]byte(payload), &sv); err != nil {
		return models.Survey{}, fmt.Errorf("decode survey %s: %w", id, err)
	}
	return sv, nil
}

func (s *SQL) ListSurveys(ctx context.Context, limit int) ([]models.Survey, error) {
	query := `SELECT payload FROM citizen_surveys ORDER BY created_unix, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Survey, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var sv models.Survey
		if err := json.Unmarshal([]byte(payload), &sv); err != nil {
			return nil, fmt.Errorf("decode survey: %w", err)
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (s *SQL) GetUser(ctx context.Context, userID string) (models.User, error) {
	return s.queryUser(ctx, `SELECT payload FROM users WHERE user_id = ?`, userID)
}

func (s *SQL) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return s.queryUser(ctx, `SELECT payload FROM users WHERE email = ?`, email)
}

func (s *SQL) queryUser(ctx context.Context, query string, arg string) (models.User, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, s.rebind(query), arg).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := json.Unmarshal([]byte(payload), &u); err != nil {
		return models.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}

func (s *SQL) CreateUser(ctx context.Context, u models.User) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO users (user_id, email, payload) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`),
		u.UserID, u.Email, string(payload))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *SQL) UpdateUser(ctx context.Context, u models.User) error {
	payload, err := json.Marshal(u)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.rebind(`UPDATE users SET email = ?, payload = ? WHERE user_id = ?`),
		u.Email, string(payload), u.UserID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQL) AppendAudit(ctx context.Context, e models.AuditLogEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM audit_logs`).Scan(&seq); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO audit_logs (audit_id, ts_unix, seq, payload) VALUES (?, ?, ?, ?)`),
		e.AuditID, e.Timestamp.UnixNano(), seq, string(payload)); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return tx.Commit()
}

func (s *SQL) ListAudit(ctx context.Context, limit int) ([]models.AuditLogEntry, error) {
	query := `SELECT payload FROM audit_logs ORDER BY ts_unix DESC, seq DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.AuditLogEntry, 0)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var e models.AuditLogEntry
		if err := json.Unmarshal([]byte(payload), &e); err != nil {
			return nil, fmt.Errorf("decode audit entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
