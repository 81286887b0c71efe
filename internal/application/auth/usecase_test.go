package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvallejo/planta-api/internal/application/auth"
	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	pkgjwt "github.com/cvallejo/planta-api/pkg/jwt"
)

type fakeUserRepo struct {
	users map[string]*entity.User // por email
}

func (r *fakeUserRepo) Create(user *entity.User) error {
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	return r.users[email], nil
}

func (r *fakeUserRepo) Update(user *entity.User) error { return nil }

func newAuthForTest() (*auth.AuthUseCase, *fakeUserRepo) {
	repo := &fakeUserRepo{users: map[string]*entity.User{}}
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		ExpMinutes: 60,
		Issuer:     "planta-api-test",
	})
	return uc, repo
}

func TestRegisterUser_HasheaPassword(t *testing.T) {
	uc, repo := newAuthForTest()

	resp, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "operario@planta.co",
		Password: "secreto123",
		Name:     "Operario Uno",
		Role:     entity.RoleProduccion,
	})
	require.NoError(t, err)
	assert.Equal(t, "operario@planta.co", resp.Email)
	assert.Equal(t, entity.RoleProduccion, resp.Role)

	guardado := repo.users["operario@planta.co"]
	require.NotNil(t, guardado)
	assert.NotEqual(t, "secreto123", guardado.PasswordHash,
		"el password nunca se guarda en claro")
	assert.Equal(t, "active", guardado.Status)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc, _ := newAuthForTest()

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "a@b.co", Password: "x1234567"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "a@b.co", Password: "otro1234"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin_TokenConClaimsDelUsuario(t *testing.T) {
	uc, _ := newAuthForTest()
	reg, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "compras@planta.co",
		Password: "secreto123",
		Role:     entity.RoleCompras,
	})
	require.NoError(t, err)

	resp, err := uc.Login(dto.LoginRequest{Email: "compras@planta.co", Password: "secreto123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, reg.ID, resp.User.ID)

	userID, role, err := pkgjwt.Parse("test-secret-key-for-unit-tests", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, userID)
	assert.Equal(t, entity.RoleCompras, role)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	uc, _ := newAuthForTest()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "a@b.co", Password: "correcto1"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "a@b.co", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	uc, _ := newAuthForTest()

	_, err := uc.Login(dto.LoginRequest{Email: "nadie@planta.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLogin_UsuarioDeshabilitado(t *testing.T) {
	uc, repo := newAuthForTest()
	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ex@planta.co", Password: "secreto12"})
	require.NoError(t, err)
	repo.users["ex@planta.co"].Status = "disabled"

	_, err = uc.Login(dto.LoginRequest{Email: "ex@planta.co", Password: "secreto12"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
