package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/olfat123/profile-creator/internal/models"
	pgrepo "github.com/olfat123/profile-creator/internal/repositories/postgres"
	"github.com/olfat123/profile-creator/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T) (*accountService, pgrepo.AccountRepository) {
	t.Helper()
	repo := pgrepo.NewAccountRepo(newTestDB(t))
	return NewAccountService(repo).(*accountService), repo
}

func TestSanitizeHandle_Concurrent(t *testing.T) {
	names := map[string][2]string{
		"José Álvarez":     {"josealvarez", "jose-alvarez"},
		"Zoë Ñúñez-Brontë": {"zoenunez-bronte", "zoe-nunez-bronte"},
		"Chloé Dupré":      {"chloedupre", "chloe-dupre"},
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				for in, want := range names {
					if got := SanitizeHandle(in); got != want[0] {
						errs <- in + " -> handle " + got
						return
					}
					if got := Slugify(in); got != want[1] {
						errs <- in + " -> slug " + got
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}

func TestSanitizeHandle(t *testing.T) {
	cases := map[string]string{
		"Jane Doe":          "janedoe",
		"  José  Álvarez ":  "josealvarez",
		"o'brien.smith-jr":  "obrien.smith-jr",
		"user@example":      "user@example",
		"Ünïcödé_Name":      "unicode_name",
		"???":               "",
		"   ":               "",
		"王小明":               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeHandle(in), in)
	}
}

func TestAccountService_CreatesNewAccount(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	acc, created, err := svc.ResolveOrCreate(ctx, "", AccountInput{
		DisplayName: "Jane Doe",
		Email:       "jane@x.com",
		Bio:         "Economist",
		Password:    "s3cret",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "janedoe", acc.Handle)
	assert.Equal(t, "Jane Doe", acc.DisplayName)
	assert.Equal(t, "Economist", acc.Description)
	assert.Equal(t, models.RoleUser, acc.Role)
	assert.NoError(t, utils.CheckPassword(acc.PasswordHash, "s3cret"))
}

func TestAccountService_GeneratesPasswordWhenEmpty(t *testing.T) {
	svc, _ := newAccountService(t)

	acc, _, err := svc.ResolveOrCreate(context.Background(), "", AccountInput{DisplayName: "Sam", Email: "sam@x.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, acc.PasswordHash)
	assert.Error(t, utils.CheckPassword(acc.PasswordHash, ""))
}

func TestAccountService_ReusesSessionAccount(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	first, _, err := svc.ResolveOrCreate(ctx, "", AccountInput{DisplayName: "Jane Doe", Email: "jane@x.com"})
	require.NoError(t, err)

	again, created, err := svc.ResolveOrCreate(ctx, first.ID, AccountInput{DisplayName: "Other", Email: "other@x.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
}

func TestAccountService_StaleSessionRegisters(t *testing.T) {
	svc, _ := newAccountService(t)

	acc, created, err := svc.ResolveOrCreate(context.Background(), "7d4f6f5e-0000-4000-8000-000000000000", AccountInput{DisplayName: "Ann", Email: "ann@x.com"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ann", acc.Handle)
}

func TestAccountService_DuplicateEmail(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, _, err := svc.ResolveOrCreate(ctx, "", AccountInput{DisplayName: "Jane", Email: "jane@x.com"})
	require.NoError(t, err)

	_, _, err = svc.ResolveOrCreate(ctx, "", AccountInput{DisplayName: "Janet", Email: "JANE@x.com"})
	var ae *AccountError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, AccountDuplicateEmail, ae.Kind)
	assert.Equal(t, "This email is already registered.", ae.Message)
}

func TestAccountService_InvalidHandle(t *testing.T) {
	svc, _ := newAccountService(t)

	_, _, err := svc.ResolveOrCreate(context.Background(), "", AccountInput{DisplayName: "!!!", Email: "bang@x.com"})
	var ae *AccountError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, AccountInvalidHandle, ae.Kind)
}

func TestAccountService_HandleSuffixes(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	a, _, err := svc.ResolveOrCreate(ctx, "", AccountInput{DisplayName: "Jane Doe", Email: "a@x.com"})
	require.NoError(t, err)
	b, _, err := svc.ResolveOrCreate(ctx, "", AccountInput{DisplayName: "Jane Doe", Email: "b@x.com"})
	require.NoError(t, err)
	c, _, err := svc.ResolveOrCreate(ctx, "", AccountInput{DisplayName: "Jané Doe", Email: "c@x.com"})
	require.NoError(t, err)

	assert.Equal(t, "janedoe", a.Handle)
	assert.Equal(t, "janedoe1", b.Handle)
	assert.Equal(t, "janedoe2", c.Handle)
}

type takenHandles struct {
	pgrepo.AccountRepository
}

func (takenHandles) HandleExists(context.Context, string) (bool, error) { return true, nil }

func TestAccountService_RandomSuffixAfterExhaustion(t *testing.T) {
	repo := pgrepo.NewAccountRepo(newTestDB(t))
	svc := &accountService{accounts: takenHandles{repo}, suffix: func() int { return 4242 }}

	acc, _, err := svc.ResolveOrCreate(context.Background(), "", AccountInput{DisplayName: "Jane Doe", Email: "j@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "janedoe4242", acc.Handle)
}

func TestAccountService_MissingEmail(t *testing.T) {
	svc, _ := newAccountService(t)

	_, _, err := svc.ResolveOrCreate(context.Background(), "", AccountInput{DisplayName: "Jane"})
	var ae *AccountError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, AccountOther, ae.Kind)
}

func TestAccountService_Get(t *testing.T) {
	svc, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, "7d4f6f5e-0000-4000-8000-000000000000")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	acc, _, err := svc.ResolveOrCreate(ctx, "", AccountInput{DisplayName: "Jane", Email: "jane@x.com"})
	require.NoError(t, err)
	got, err := svc.Get(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane", got.Handle)
}
