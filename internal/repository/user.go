package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"avatarshop/internal/domain"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnknownCurrency     = errors.New("unknown currency kind")
)

const userColumns = `id, created_at, updated_at, deleted_at, username, password, gender, gold, tickets, is_admin`

// wallet columns are looked up, never interpolated from input
var walletColumns = map[domain.CurrencyKind]string{
	domain.CurrencyGold:    "gold",
	domain.CurrencyTickets: "tickets",
}

type UserRepository struct {
	db ExtHandle
}

func NewUserRepository(db ExtHandle) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, password, gender, gold, tickets, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Password, user.Gender, user.Gold, user.Tickets, user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUserExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, id)
}

// FindByIDForUpdate locks the user row until the surrounding transaction
// ends. Every wallet or equip mutation of a user takes this lock first.
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.GetContext(ctx, user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Debit subtracts amount from one wallet column only if the balance covers it.
func (r *UserRepository) Debit(ctx context.Context, userID uuid.UUID, kind domain.CurrencyKind, amount uint) error {
	column, ok := walletColumns[kind]
	if !ok {
		return ErrUnknownCurrency
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %[1]s = %[1]s - $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL AND %[1]s >= $1
	`, column)

	res, err := r.db.ExecContext(ctx, query, amount, userID)
	if err != nil {
		if isCheckViolation(err) {
			return ErrInsufficientBalance
		}
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

type WalletSnapshot struct {
	UserID uuid.UUID `db:"id"`
	domain.Wallet
}

func (r *UserRepository) GetWalletsForUsers(ctx context.Context, userIDs []uuid.UUID) ([]WalletSnapshot, error) {
	if len(userIDs) == 0 {
		return []WalletSnapshot{}, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, gold, tickets
		FROM users
		WHERE id IN (?) AND deleted_at IS NULL
	`, userIDs)
	if err != nil {
		return nil, err
	}

	query = r.db.Rebind(query)
	var wallets []WalletSnapshot
	if err := r.db.SelectContext(ctx, &wallets, query, args...); err != nil {
		return nil, err
	}
	return wallets, nil
}
