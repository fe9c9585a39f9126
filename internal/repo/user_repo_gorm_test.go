package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-storefront/internal/domain"
	"go-gin-storefront/internal/testutil"
)

func newUserRepo(t *testing.T) *UserRepo {
	t.Helper()
	db := testutil.OpenDB(t)
	require.NoError(t, Migrate(db))
	return NewUserRepo(db)
}

func sampleUser(email string) *domain.User {
	return &domain.User{
		Name: "Ana", ApellidoPaterno: "Lopez", ApellidoMaterno: "Diaz",
		Email: email, PasswordHash: "$2a$10$hash", Telefono: "5551234", Genero: "Femenino",
		Role: domain.RoleStandard,
	}
}

func TestUserRepo_CreateAndFind(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()

	u := sampleUser("ana@x.com")
	require.NoError(t, r.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := r.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.RoleStandard, got.Role)

	byID, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lopez", byID.ApellidoPaterno)
}

func TestUserRepo_EmailIsCaseSensitiveAsStored(t *testing.T) {
	r := newUserRepo(t)
	require.NoError(t, r.Create(context.Background(), sampleUser("ana@x.com")))

	_, err := r.FindByEmail(context.Background(), "ANA@X.COM")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, sampleUser("dup@x.com")))

	err := r.Create(ctx, sampleUser("dup@x.com"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUserRepo_NotFound(t *testing.T) {
	r := newUserRepo(t)
	_, err := r.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, r.Delete(context.Background(), 999), domain.ErrNotFound)
}

func TestUserRepo_ListSearchUsesBinding(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, sampleUser("ana@x.com")))
	require.NoError(t, r.Create(ctx, sampleUser("beto@x.com")))

	all, total, err := r.List(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	some, total, err := r.List(ctx, "beto", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, some, 1)
	assert.Equal(t, "beto@x.com", some[0].Email)

	// 注入式输入只是普通字符串
	none, total, err := r.List(ctx, "' OR '1'='1", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, none)
}

func TestUserRepo_UpdateAndDelete(t *testing.T) {
	r := newUserRepo(t)
	ctx := context.Background()
	u := sampleUser("ana@x.com")
	require.NoError(t, r.Create(ctx, u))

	u.Role = domain.RoleAdmin
	u.Telefono = "000"
	require.NoError(t, r.Update(ctx, u))

	got, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.Equal(t, "000", got.Telefono)

	require.NoError(t, r.Delete(ctx, u.ID))
	_, err = r.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
