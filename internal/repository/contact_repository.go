package repository

import (
	"context"
	"database/sql"

	"github.com/agrodesk/farm-manager/internal/model"
)

// ContactRepo manages contact messages submitted through the public form
// and answered by admins.
type ContactRepo struct {
	DB *sql.DB
}

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

const contactSelect = `SELECT id, name, email, subject, message, status,
	admin_response, responded_by, created_at, updated_at FROM contact_messages`

func scanContact(row RowScanner) (*model.ContactMessage, error) {
	var m model.ContactMessage
	var response sql.NullString
	var responder sql.NullInt64
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status,
		&response, &responder, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.AdminResponse = response.String
	if responder.Valid {
		id := uint64(responder.Int64)
		m.RespondedBy = &id
	}
	return &m, nil
}

// Create stores a new pending message and returns its id.
func (r *ContactRepo) Create(ctx context.Context, m *model.ContactMessage) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO contact_messages (name, email, subject, message) VALUES (?, ?, ?, ?)",
		m.Name, m.Email, m.Subject, m.Message)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// contactPageSize is the fixed page size of the admin message list.
const contactPageSize = 20

// List returns one page of messages, optionally filtered by status, newest
// first.
func (r *ContactRepo) List(ctx context.Context, status string, page int) ([]*model.ContactMessage, int64, error) {
	if page < 1 {
		page = 1
	}
	cond := "1=1"
	args := []any{}
	if status != "" {
		cond = "status = ?"
		args = append(args, status)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contact_messages WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := contactSelect + " WHERE " + cond + " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, contactPageSize, (page-1)*contactPageSize)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetByID fetches one message.
func (r *ContactRepo) GetByID(ctx context.Context, id uint64) (*model.ContactMessage, error) {
	m, err := scanContact(r.DB.QueryRowContext(ctx, contactSelect+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return m, err
}

// Respond records an admin answer on a pending message and moves it to
// answered. The status guard is part of the UPDATE, making the transition
// one-way: a second respond matches zero rows and reports ErrNotFound.
func (r *ContactRepo) Respond(ctx context.Context, id, adminID uint64, response string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE contact_messages
		 SET status = 'answered', admin_response = ?, responded_by = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'pending'`,
		response, adminID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
