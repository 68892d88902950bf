package repository

import (
	"context"
	"database/sql"

	"github.com/agrodesk/farm-manager/internal/model"
)

// LogRepo writes and reads the append-only system_logs table. There are
// deliberately no update or delete methods.
type LogRepo struct {
	DB *sql.DB
}

func NewLogRepo(db *sql.DB) *LogRepo { return &LogRepo{DB: db} }

// Insert appends one log entry. UserID may be nil for anonymous events.
func (r *LogRepo) Insert(ctx context.Context, logType string, userID *uint64, message, ip string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO system_logs (log_type, user_id, message, ip_address) VALUES (?, ?, ?, ?)",
		logType, userID, message, ip)
	return err
}

// logsPageSize is the fixed page size of the admin log view.
const logsPageSize = 50

// List returns one page of log entries, optionally filtered by type,
// newest first.
func (r *LogRepo) List(ctx context.Context, logType string, page int) ([]*model.SystemLog, int64, error) {
	if page < 1 {
		page = 1
	}
	cond := "1=1"
	args := []any{}
	if logType != "" {
		cond = "log_type = ?"
		args = append(args, logType)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM system_logs WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT id, log_type, user_id, message, ip_address, created_at
		FROM system_logs WHERE ` + cond + ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, logsPageSize, (page-1)*logsPageSize)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.SystemLog
	for rows.Next() {
		var l model.SystemLog
		var userID sql.NullInt64
		if err := rows.Scan(&l.ID, &l.Type, &userID, &l.Message, &l.IPAddress, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		if userID.Valid {
			id := uint64(userID.Int64)
			l.UserID = &id
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
