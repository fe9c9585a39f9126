package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-storefront/internal/domain"
	"go-gin-storefront/internal/repo"
	"go-gin-storefront/internal/testutil"
	"go-gin-storefront/pkg/utils"
)

func newAuth(t *testing.T) (*AuthService, *repo.UserRepo) {
	t.Helper()
	db := testutil.OpenDB(t)
	require.NoError(t, repo.Migrate(db))
	users := repo.NewUserRepo(db)
	return NewAuthService(users, zap.NewNop()), users
}

func ana() SignupInput {
	return SignupInput{
		Name: "Ana", ApellidoPaterno: "Lopez", ApellidoMaterno: "Diaz",
		Email: "ana@x.com", Password: "secret1", Genero: "Femenino", Telefono: "5551234",
	}
}

func TestSignup_RequiresEveryField(t *testing.T) {
	svc, _ := newAuth(t)
	blanks := []func(*SignupInput){
		func(in *SignupInput) { in.Name = "" },
		func(in *SignupInput) { in.ApellidoPaterno = " " },
		func(in *SignupInput) { in.ApellidoMaterno = "" },
		func(in *SignupInput) { in.Email = "" },
		func(in *SignupInput) { in.Password = "" },
		func(in *SignupInput) { in.Genero = "" },
		func(in *SignupInput) { in.Telefono = "" },
	}
	for _, blank := range blanks {
		in := ana()
		blank(&in)
		assert.ErrorIs(t, svc.Signup(context.Background(), in), ErrValidation)
	}
}

func TestSignup_OnceThenDuplicate(t *testing.T) {
	svc, users := newAuth(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, ana()))
	assert.ErrorIs(t, svc.Signup(ctx, ana()), ErrDuplicateEmail)

	u, err := users.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStandard, u.Role)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	ok, err := utils.CheckPassword("secret1", u.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, ana()))

	_, err := svc.Authenticate(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Authenticate(ctx, "ana@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Authenticate(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	p, err := svc.Authenticate(ctx, "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name)
	assert.Equal(t, domain.RoleStandard, p.Role)
}

func TestAuthenticate_PreservesAdminRole(t *testing.T) {
	svc, users := newAuth(t)
	ctx := context.Background()
	require.NoError(t, svc.Signup(ctx, ana()))
	u, err := users.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	u.Role = domain.RoleAdmin
	require.NoError(t, users.Update(ctx, u))

	p, err := svc.Authenticate(ctx, "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, p.Role)
}

type brokenUsers struct{ domain.UserRepository }

func (brokenUsers) Create(context.Context, *domain.User) error { return errors.New("disk full") }
func (brokenUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("conn reset")
}

func TestAuth_StorageFailures(t *testing.T) {
	svc := NewAuthService(brokenUsers{}, zap.NewNop())

	err := svc.Signup(context.Background(), ana())
	assert.ErrorIs(t, err, ErrStorage)
	assert.NotContains(t, err.Error(), "disk full")

	_, err = svc.Authenticate(context.Background(), "ana@x.com", "secret1")
	assert.ErrorIs(t, err, ErrStorage)
}
