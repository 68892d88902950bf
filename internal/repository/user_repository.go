package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/agrodesk/farm-manager/internal/model"
	"github.com/agrodesk/farm-manager/internal/utils"
)

// UserRepo encapsulates all queries against the users and roles tables. It
// is both the account store for authentication and the role authority for
// admin checks and role/status changes.
type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userSelect = `SELECT u.id, u.username, u.email, u.name, u.password_hash,
	u.role_id, r.name, u.status, u.created_at, u.updated_at
	FROM users u JOIN roles r ON r.id = u.role_id`

func scanUser(row RowScanner) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.PasswordHash,
		&u.RoleID, &u.RoleName, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user with the default "user" role and returns the new
// id. Duplicate usernames and emails are mapped to sentinel errors by
// inspecting the MySQL duplicate-key message (error 1062 names the index).
func (r *UserRepo) Create(ctx context.Context, username, email, name, password string, cost int) (uint64, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (username, email, name, password_hash, role_id)
		 VALUES (?, ?, ?, ?, (SELECT id FROM roles WHERE name = 'user'))`,
		username, email, name, hash)
	if err != nil {
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "1062") {
			if strings.Contains(msg, "username") {
				return 0, ErrUsernameExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+" WHERE u.email = ? LIMIT 1", email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, userSelect+" WHERE u.id = ? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

// IsAdmin reports whether the user's role name equals "admin".
func (r *UserRepo) IsAdmin(ctx context.Context, id uint64) (bool, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}

// usersPageSize is the fixed page size of the admin user list.
const usersPageSize = 20

// List returns one page of users, optionally filtered by status, ordered
// by id.
func (r *UserRepo) List(ctx context.Context, status string, page int) ([]*model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	cond := "1=1"
	args := []any{}
	if status != "" {
		cond = "u.status = ?"
		args = append(args, status)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users u WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := userSelect + " WHERE " + cond + " ORDER BY u.id LIMIT ? OFFSET ?"
	args = append(args, usersPageSize, (page-1)*usersPageSize)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListRoles returns all roles for the role-change form, unfiltered.
func (r *UserRepo) ListRoles(ctx context.Context) ([]*model.Role, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM roles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Role
	for rows.Next() {
		var role model.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, err
		}
		out = append(out, &role)
	}
	return out, rows.Err()
}

// UpdateRole assigns a new role to the target user. ErrInvalidRole is
// returned when the role id does not exist and ErrNotFound when the user
// does not; the caller enforces the not-self rule before calling.
func (r *UserRepo) UpdateRole(ctx context.Context, targetID uint64, roleID uint8) error {
	var n int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM roles WHERE id = ?", roleID).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidRole
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role_id = ? WHERE id = ?", roleID, targetID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		// Distinguish "no such user" from "already had this role".
		var exists int64
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM users WHERE id = ?", targetID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// UpdateStatus transitions a user between active and blocked. ErrNotFound
// is returned when the user does not exist; the caller enforces the
// not-self rule before calling.
func (r *UserRepo) UpdateStatus(ctx context.Context, targetID uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET status = ? WHERE id = ?", status, targetID)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		var exists int64
		if err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM users WHERE id = ?", targetID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}
