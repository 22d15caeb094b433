package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/internal/user"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, u *model.User) (int64, error) {
	query := `
		INSERT INTO users (email, password, first_name, last_name, company, position, type, is_active)
		VALUES (:email, :password, :first_name, :last_name, :company, :position, :type, :is_active)
		RETURNING id`

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert user: %w", err)
	}
	defer stmt.Close()

	var id int64
	if err := stmt.GetContext(ctx, &id, u); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, user.ErrEmailTaken
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

func (r *userRepository) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := `
		SELECT id, email, password, first_name, last_name, company, position, type, is_active
		FROM users
		WHERE email = $1`

	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) UserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	query := `
		SELECT id, email, password, first_name, last_name, company, position, type, is_active
		FROM users
		WHERE id = $1`

	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &u, nil
}

func (r *userRepository) UserByToken(ctx context.Context, key string) (*model.User, error) {
	var u model.User
	query := `
		SELECT u.id, u.email, u.password, u.first_name, u.last_name, u.company, u.position, u.type, u.is_active
		FROM users u
		JOIN auth_tokens t ON t.user_id = u.id
		WHERE t.key = $1`

	if err := r.db.GetContext(ctx, &u, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}
	return &u, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET email = :email,
		    password = :password,
		    first_name = :first_name,
		    last_name = :last_name,
		    company = :company,
		    position = :position,
		    type = :type,
		    is_active = :is_active
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, u); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *userRepository) ActivateUser(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = TRUE WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}
	return nil
}

func (r *userRepository) SaveConfirmToken(ctx context.Context, userID int64, key string) error {
	query := `INSERT INTO confirm_tokens (key, user_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, key, userID); err != nil {
		return fmt.Errorf("failed to save confirm token: %w", err)
	}
	return nil
}

func (r *userRepository) ConsumeConfirmToken(ctx context.Context, email, key string) (int64, error) {
	query := `
		DELETE FROM confirm_tokens t
		USING users u
		WHERE t.user_id = u.id AND u.email = $1 AND t.key = $2
		RETURNING t.user_id`

	var userID int64
	if err := r.db.GetContext(ctx, &userID, query, email, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, user.ErrInvalidToken
		}
		return 0, fmt.Errorf("failed to consume confirm token: %w", err)
	}
	return userID, nil
}

func (r *userRepository) SaveAuthToken(ctx context.Context, userID int64, key string) error {
	query := `INSERT INTO auth_tokens (key, user_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, query, key, userID); err != nil {
		return fmt.Errorf("failed to save auth token: %w", err)
	}
	return nil
}

func (r *userRepository) Contacts(ctx context.Context, userID int64) ([]model.Contact, error) {
	contacts := []model.Contact{}
	query := `
		SELECT id, user_id, city, street, house, structure, building, apartment, phone
		FROM contacts
		WHERE user_id = $1
		ORDER BY id`

	if err := r.db.SelectContext(ctx, &contacts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (r *userRepository) CreateContact(ctx context.Context, contact *model.Contact) error {
	query := `
		INSERT INTO contacts (user_id, city, street, house, structure, building, apartment, phone)
		VALUES (:user_id, :city, :street, :house, :structure, :building, :apartment, :phone)`

	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.ErrDuplicateContact
		}
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

func (r *userRepository) ContactByID(ctx context.Context, contactID, userID int64) (*model.Contact, error) {
	var contact model.Contact
	query := `
		SELECT id, user_id, city, street, house, structure, building, apartment, phone
		FROM contacts
		WHERE id = $1 AND user_id = $2`

	if err := r.db.GetContext(ctx, &contact, query, contactID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &contact, nil
}

func (r *userRepository) UpdateContact(ctx context.Context, contact *model.Contact) error {
	query := `
		UPDATE contacts
		SET city = :city,
		    street = :street,
		    house = :house,
		    structure = :structure,
		    building = :building,
		    apartment = :apartment,
		    phone = :phone
		WHERE id = :id AND user_id = :user_id`

	if _, err := r.db.NamedExecContext(ctx, query, contact); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	return nil
}

func (r *userRepository) DeleteContacts(ctx context.Context, userID int64, ids []int64) (int64, error) {
	query, args, err := sqlx.In(`DELETE FROM contacts WHERE user_id = ? AND id IN (?)`, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to build delete contacts query: %w", err)
	}
	query = r.db.Rebind(query)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete contacts: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted rows: %w", err)
	}
	return deleted, nil
}
