package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalagenda/vital-api/internal/email"
	"github.com/vitalagenda/vital-api/internal/model"
	"github.com/vitalagenda/vital-api/internal/repository"
	"github.com/vitalagenda/vital-api/pkg/apperror"
	"github.com/vitalagenda/vital-api/pkg/security"
	"github.com/vitalagenda/vital-api/pkg/token"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) || u.Phone == user.Phone {
			return repository.ErrDuplicate
		}
	}
	user.ID = uuid.New()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ model.Role) ([]*model.UserSummary, error) {
	return nil, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	tokenSvc := token.NewService(token.Config{Secret: "test-secret", Expiry: time.Hour})
	svc := NewService(repo, security.NewBcryptHasher(4), tokenSvc, email.NoopService{}, time.Hour)
	return svc, repo
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Name:      "Ana",
		Surname:   "Diaz",
		BirthDate: "1992-05-14",
		Email:     "Ana.Diaz@Example.com",
		Phone:     "+5215512345678",
		Password:  "s3cret-pass",
	}
}

func TestRegisterCreatesPatient(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	assert.Equal(t, model.RolePatient, user.Role)
	assert.Equal(t, "ana.diaz@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Phone = "+5215599999999"
	_, err = svc.Register(context.Background(), dup)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestRegisterInvalidBirthDate(t *testing.T) {
	svc, _ := newTestService()

	req := registerRequest()
	req.BirthDate = "14/05/1992"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestRegisterDoctor(t *testing.T) {
	svc, _ := newTestService()

	user, tempPassword, err := svc.RegisterDoctor(context.Background(), &model.RegisterDoctorRequest{
		Name:    "Luis",
		Surname: "Mora",
		Email:   "luis.mora@example.com",
		Phone:   "+5215587654321",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RoleDoctor, user.Role)
	require.NotEmpty(t, tempPassword)

	// The temporary password works immediately.
	tokens, err := svc.Login(context.Background(), user.Email, tempPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	tokens, err := svc.Login(context.Background(), "ana.diaz@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	assert.True(t, tokens.ExpiresAt.After(time.Now()))

	id, role, err := svc.VerifyToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, model.RolePatient, role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, repo := newTestService()

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), user.Email, "wrong-password")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAuth))
	assert.Equal(t, 1, repo.users[user.ID].FailedLoginAttempts)
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAuth))
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, repo := newTestService()

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	for i := 0; i < maxLoginAttempts; i++ {
		_, err = svc.Login(context.Background(), user.Email, "wrong-password")
		require.Error(t, err)
	}

	// Even the right password is rejected while locked.
	_, err = svc.Login(context.Background(), user.Email, "s3cret-pass")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAuth))

	// After the lockout window the account recovers.
	past := time.Now().Add(-lockoutDuration - time.Minute)
	repo.users[user.ID].LastLoginAttempt = &past

	tokens, err := svc.Login(context.Background(), user.Email, "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, 0, repo.users[user.ID].FailedLoginAttempts)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc, _ := newTestService()

	_, _, err := svc.VerifyToken("not-a-token")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindAuth))
}
