package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/olfat123/profile-creator/internal/models"
	pgrepo "github.com/olfat123/profile-creator/internal/repositories/postgres"
	"github.com/olfat123/profile-creator/internal/utils"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxHandleLen      = 60
	maxHandleAttempts = 100
)

type AccountErrorKind int

const (
	AccountDuplicateEmail AccountErrorKind = iota + 1
	AccountDuplicateHandle
	AccountInvalidHandle
	AccountOther
)

func (k AccountErrorKind) String() string {
	switch k {
	case AccountDuplicateEmail:
		return "duplicate_email"
	case AccountDuplicateHandle:
		return "duplicate_handle"
	case AccountInvalidHandle:
		return "invalid_handle"
	default:
		return "other"
	}
}

// AccountError is the only error ResolveOrCreate returns.
type AccountError struct {
	Kind    AccountErrorKind
	Message string
	Err     error
}

func (e *AccountError) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *AccountError) Unwrap() error { return e.Err }

type AccountInput struct {
	DisplayName string
	Email       string
	Bio         string
	Password    string
}

type AccountService interface {
	// ResolveOrCreate returns the account behind currentID when it still
	// exists, otherwise registers a new one from in. created reports which.
	ResolveOrCreate(ctx context.Context, currentID string, in AccountInput) (acc *models.Account, created bool, err error)
	Get(ctx context.Context, id string) (*models.Account, error)
}

type accountService struct {
	accounts pgrepo.AccountRepository
	suffix   func() int
}

func NewAccountService(accounts pgrepo.AccountRepository) AccountService {
	return &accountService{
		accounts: accounts,
		suffix:   func() int { return 1000 + rand.IntN(9000) },
	}
}

func (s *accountService) Get(ctx context.Context, id string) (*models.Account, error) {
	const op = "AccountService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "account id is required", nil)
	}
	acc, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "account not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load account", err)
	}
	return acc, nil
}

func (s *accountService) ResolveOrCreate(ctx context.Context, currentID string, in AccountInput) (*models.Account, bool, error) {
	if currentID != "" {
		acc, err := s.accounts.GetByID(ctx, currentID)
		if err == nil {
			return acc, false, nil
		}
		if !errors.Is(err, utils.ErrNotFound) {
			return nil, false, &AccountError{Kind: AccountOther, Message: "Could not load your account.", Err: err}
		}
		// session points at a deleted account; register afresh
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, false, &AccountError{Kind: AccountOther, Message: "An email address is required."}
	}

	taken, err := s.accounts.EmailExists(ctx, email)
	if err != nil {
		return nil, false, &AccountError{Kind: AccountOther, Message: "Could not create your account.", Err: err}
	}
	if taken {
		return nil, false, &AccountError{Kind: AccountDuplicateEmail, Message: "This email is already registered."}
	}

	handle, err := s.uniqueHandle(ctx, in.DisplayName)
	if err != nil {
		return nil, false, err
	}

	password := in.Password
	if password == "" {
		if password, err = utils.GeneratePassword(); err != nil {
			return nil, false, &AccountError{Kind: AccountOther, Message: "Could not create your account.", Err: err}
		}
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, &AccountError{Kind: AccountOther, Message: "Could not create your account.", Err: err}
	}

	now := time.Now().UTC()
	acc := &models.Account{
		ID:           uuid.NewString(),
		Handle:       handle,
		Email:        email,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		Description:  in.Bio,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			// lost a race with a concurrent signup
			if exists, _ := s.accounts.EmailExists(ctx, email); exists {
				return nil, false, &AccountError{Kind: AccountDuplicateEmail, Message: "This email is already registered.", Err: err}
			}
			return nil, false, &AccountError{Kind: AccountDuplicateHandle, Message: "A user with a similar name already exists.", Err: err}
		}
		return nil, false, &AccountError{Kind: AccountOther, Message: "Could not create your account.", Err: err}
	}
	return acc, true, nil
}

func (s *accountService) uniqueHandle(ctx context.Context, displayName string) (string, error) {
	base := SanitizeHandle(displayName)
	if base == "" {
		return "", &AccountError{Kind: AccountInvalidHandle, Message: "Invalid name provided."}
	}
	if len(base) > maxHandleLen-4 {
		base = base[:maxHandleLen-4]
	}

	handle := base
	for counter := 1; ; counter++ {
		taken, err := s.accounts.HandleExists(ctx, handle)
		if err != nil {
			return "", &AccountError{Kind: AccountOther, Message: "Could not create your account.", Err: err}
		}
		if !taken {
			return handle, nil
		}
		if counter > maxHandleAttempts {
			break
		}
		handle = base + strconv.Itoa(counter)
	}

	// the insert's unique index still guards a collision here
	return base + strconv.Itoa(s.suffix()), nil
}

// foldMarks lower-cases s and strips combining marks. transform.Chain keeps
// state between calls, so each call gets its own.
func foldMarks(s string) string {
	lower := strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, lower)
	if err != nil {
		return lower
	}
	return plain
}

// SanitizeHandle lower-cases name, drops whitespace and accents and keeps
// only characters allowed in a login handle.
func SanitizeHandle(name string) string {
	plain := foldMarks(name)

	var b strings.Builder
	for _, r := range plain {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '.', r == '-', r == '@':
			b.WriteRune(r)
		}
	}
	return b.String()
}
