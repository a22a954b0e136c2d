package account_test

import (
	"context"
	"net/url"
	"testing"

	accountRepo "anoa.com/folio/internal/modules/account/repository"
	account "anoa.com/folio/internal/modules/account/service"
	profileRepo "anoa.com/folio/internal/modules/profile/repository"
	uniqueness "anoa.com/folio/internal/modules/uniqueness/service"
	"anoa.com/folio/internal/testutil"
	"anoa.com/folio/internal/validation"
	"anoa.com/folio/pkg/apperror"
	"anoa.com/folio/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// optimisticGuard reports everything as available, like a guard that lost a
// race against a concurrent registration.
type optimisticGuard struct{}

func (optimisticGuard) IsUsernameAvailable(context.Context, string) (bool, error) { return true, nil }
func (optimisticGuard) IsEmailAvailable(context.Context, string) (bool, error)    { return true, nil }

func newService(db *gorm.DB, guard uniqueness.UniquenessService) account.AccountService {
	engine := validation.NewEngine(validator.New(), account.Schema(guard))
	return account.NewAccountService(accountRepo.NewAccountRepository(db), engine)
}

func realGuard(db *gorm.DB) uniqueness.UniquenessService {
	return uniqueness.NewUniquenessService(profileRepo.NewProfileRepository(db), accountRepo.NewAccountRepository(db))
}

func TestRegister(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db, realGuard(db))
	id := uuid.New()

	resp, err := svc.Register(context.Background(), id, url.Values{"email": {" Ada@Example.com "}})

	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "ada@example.com", resp.Email)
	assert.Empty(t, resp.Profiles)

	_, err = svc.Register(context.Background(), id, url.Values{"email": {"other@example.com"}})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedProfile(t, db, "ada_l")
	svc := newService(db, realGuard(db))

	_, err := svc.Register(context.Background(), uuid.New(), url.Values{"email": {"ada_l@example.com"}})

	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "This email is already registered", ve.Fields["email"])
}

func TestRegisterLostRaceIsConflict(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedProfile(t, db, "ada_l")
	svc := newService(db, optimisticGuard{})

	_, err := svc.Register(context.Background(), uuid.New(), url.Values{"email": {"ada_l@example.com"}})

	assert.ErrorIs(t, err, apperror.ErrConflict)
	var ve *apperror.ValidationError
	assert.NotErrorAs(t, err, &ve)
}

func TestUpdateEmailKeepingOwnAddress(t *testing.T) {
	db := testutil.NewDB(t)
	profile := testutil.SeedProfile(t, db, "ada_l")
	svc := newService(db, realGuard(db))
	ctx := context.Background()

	resp, err := svc.UpdateEmail(ctx, profile.AccountID, url.Values{"email": {"ada_l@example.com"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"ada_l"}, resp.Profiles)

	resp, err = svc.UpdateEmail(ctx, profile.AccountID, url.Values{"email": {"ada@lovelace.dev"}})
	require.NoError(t, err)
	assert.Equal(t, "ada@lovelace.dev", resp.Email)

	got, err := svc.Get(ctx, profile.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "ada@lovelace.dev", got.Email)
}

func TestGetUnknownAccount(t *testing.T) {
	db := testutil.NewDB(t)
	svc := newService(db, realGuard(db))

	_, err := svc.Get(context.Background(), uuid.New())

	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
