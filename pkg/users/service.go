package users

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/database"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/models"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for bcrypt hashing.
const BcryptCost = 12

type CreateUserOptions struct {
	Email           string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	IsAdmin         bool
	Password        string // optional; users without one can only use dev login
}

type UpdateUserOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	now := time.Now()
	user := &models.User{
		ID:              uuid.NewString(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Email:           normalizeEmail(opts.Email),
		FirstName:       opts.FirstName,
		LastName:        opts.LastName,
		ProfileImageURL: opts.ProfileImageURL,
		IsAdmin:         opts.IsAdmin,
	}
	if opts.Password != "" {
		hash, err := HashPassword(opts.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	_, err := svc.db.
		NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errcodes.ValidationError("A user with this email already exists")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

func (svc *Service) Retrieve(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}

	err := svc.db.
		NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// RetrieveByEmail matches case-insensitively.
func (svc *Service) RetrieveByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}

	err := svc.db.
		NewSelect().
		Model(user).
		Where("u.email = ? COLLATE NOCASE", normalizeEmail(email)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

func (svc *Service) List(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}

	err := svc.db.
		NewSelect().
		Model(&users).
		Order("u.created_at ASC", "u.email ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return users, nil
}

func (svc *Service) Update(ctx context.Context, user *models.User, opts UpdateUserOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	user.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(user).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("User")
	}
	return nil
}

// Upsert creates the user for opts.Email, or updates the existing one with the
// admin flag and any names given. An empty Password leaves an existing hash
// alone.
func (svc *Service) Upsert(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	user, err := svc.RetrieveByEmail(ctx, opts.Email)
	if errors.Is(err, errcodes.NotFound("User")) {
		return svc.Create(ctx, opts)
	}
	if err != nil {
		return nil, err
	}

	columns := []string{}
	if user.IsAdmin != opts.IsAdmin {
		user.IsAdmin = opts.IsAdmin
		columns = append(columns, "is_admin")
	}
	if opts.FirstName != nil {
		user.FirstName = opts.FirstName
		columns = append(columns, "first_name")
	}
	if opts.LastName != nil {
		user.LastName = opts.LastName
		columns = append(columns, "last_name")
	}
	if opts.ProfileImageURL != nil {
		user.ProfileImageURL = opts.ProfileImageURL
		columns = append(columns, "profile_image_url")
	}
	if opts.Password != "" {
		hash, err := HashPassword(opts.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		columns = append(columns, "password_hash")
	}

	if err := svc.Update(ctx, user, UpdateUserOptions{Columns: columns}); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks an email and password pair. Every failure looks the same
// to the caller.
func (svc *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	invalid := errcodes.Unauthorized("Invalid email or password")

	user, err := svc.RetrieveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errcodes.NotFound("User")) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.HasPassword() {
		return nil, invalid
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalid
	}

	return user, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
