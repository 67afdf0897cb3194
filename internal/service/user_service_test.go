package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pos-service/internal/auth"
	"pos-service/internal/mocks"
	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService() (*UserService, *mocks.MockUserStore) {
	store := new(mocks.MockUserStore)
	verifier := auth.NewVerifier("test-secret", time.Hour)
	return NewUserService(store, verifier), store
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginIssuesTokenForValidCredentials(t *testing.T) {
	svc, store := newTestUserService()

	store.On("GetUserByEmailOrName", mock.Anything, "ana@example.com").
		Return(&models.User{ID: 3, Name: "Ana", Email: "ana@example.com",
			PasswordHash: hashPassword(t, "hunter22"), Role: models.RoleAdmin}, nil)

	token, user, err := svc.Login(context.Background(), &LoginRequest{
		EmailOrName: "ana@example.com",
		Password:    "hunter22",
	})

	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(3), user.ID)

	verifier := auth.NewVerifier("test-secret", time.Hour)
	principal, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), principal.UserID)
	assert.Equal(t, models.RoleAdmin, principal.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(store *mocks.MockUserStore)
		password   string
	}{
		{
			name: "unknown account",
			setupMocks: func(store *mocks.MockUserStore) {
				store.On("GetUserByEmailOrName", mock.Anything, mock.Anything).Return(nil, nil)
			},
			password: "hunter22",
		},
		{
			name: "wrong password",
			setupMocks: func(store *mocks.MockUserStore) {
				store.On("GetUserByEmailOrName", mock.Anything, mock.Anything).
					Return(&models.User{ID: 3, PasswordHash: hashPassword(t, "hunter22")}, nil)
			},
			password: "wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestUserService()
			tt.setupMocks(store)

			_, _, err := svc.Login(context.Background(), &LoginRequest{
				EmailOrName: "ana@example.com",
				Password:    tt.password,
			})

			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrUnauthorized))
		})
	}
}

// Self-registration persists whatever valid role the client supplies,
// defaulting to user. The historical register endpoint is open; the
// first master account is seeded through this path.
func TestRegisterHonorsRequestedRole(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		want      string
	}{
		{name: "defaults to user", requested: "", want: models.RoleUser},
		{name: "admin accepted", requested: models.RoleAdmin, want: models.RoleAdmin},
		{name: "master accepted", requested: models.RoleMaster, want: models.RoleMaster},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestUserService()
			store.On("GetUserByEmailOrName", mock.Anything, mock.Anything).Return(nil, nil)
			store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
				return u.Role == tt.want
			})).Return(nil).Once()

			token, user, err := svc.Register(context.Background(), &RegisterRequest{
				Name: "Ana", Email: "ana@example.com", Password: "hunter22", Role: tt.requested,
			})

			require.NoError(t, err)
			require.NotEmpty(t, token)
			assert.Equal(t, tt.want, user.Role)
			store.AssertExpectations(t)
		})
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc, store := newTestUserService()

	_, _, err := svc.Register(context.Background(), &RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "hunter22", Role: "owner",
	})

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "role", validationErr.Field)
	store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestCreateUserCannotCreateMaster(t *testing.T) {
	svc, store := newTestUserService()

	_, err := svc.CreateUser(context.Background(), models.RoleMaster, &UserRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: models.RoleMaster,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrForbidden))
	store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestCreateUserRejectsDuplicateIdentity(t *testing.T) {
	svc, store := newTestUserService()

	store.On("GetUserByEmailOrName", mock.Anything, "eve@example.com").
		Return(&models.User{ID: 9, Email: "eve@example.com"}, nil)

	_, err := svc.CreateUser(context.Background(), models.RoleAdmin, &UserRequest{
		Name: "Eve", Email: "eve@example.com", Password: "secret1", Role: models.RoleUser,
	})

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	store.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUpdateUserRoleRestrictions(t *testing.T) {
	tests := []struct {
		name       string
		actorRole  string
		stored     models.User
		request    UserRequest
		wantErr    string
		wantUpdate bool
	}{
		{
			name:      "admin cannot edit master",
			actorRole: models.RoleAdmin,
			stored:    models.User{ID: 1, Role: models.RoleMaster},
			request:   UserRequest{Name: "New Name"},
			wantErr:   "cannot edit master user",
		},
		{
			name:      "admin cannot assign master role",
			actorRole: models.RoleAdmin,
			stored:    models.User{ID: 2, Role: models.RoleUser},
			request:   UserRequest{Role: models.RoleMaster},
			wantErr:   "cannot set role to master",
		},
		{
			name:      "master cannot downgrade master",
			actorRole: models.RoleMaster,
			stored:    models.User{ID: 1, Role: models.RoleMaster},
			request:   UserRequest{Role: models.RoleAdmin},
			wantErr:   "cannot downgrade master user",
		},
		{
			name:      "master cannot promote admin to master",
			actorRole: models.RoleMaster,
			stored:    models.User{ID: 3, Role: models.RoleAdmin},
			request:   UserRequest{Role: models.RoleMaster},
			wantErr:   "cannot upgrade admin to master",
		},
		{
			name:       "admin promotes user to admin",
			actorRole:  models.RoleAdmin,
			stored:     models.User{ID: 4, Role: models.RoleUser},
			request:    UserRequest{Role: models.RoleAdmin},
			wantUpdate: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestUserService()

			stored := tt.stored
			store.On("GetUserByID", mock.Anything, stored.ID).Return(&stored, nil)
			if tt.wantUpdate {
				store.On("UpdateUser", mock.Anything, mock.Anything).Return(nil)
			}

			user, err := svc.UpdateUser(context.Background(), tt.actorRole, stored.ID, &tt.request)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, models.ErrForbidden))
				assert.Contains(t, err.Error(), tt.wantErr)
				store.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.request.Role, user.Role)
			store.AssertExpectations(t)
		})
	}
}

func TestDeleteUserRestrictions(t *testing.T) {
	tests := []struct {
		name      string
		actorRole string
		stored    models.User
		wantErr   string
	}{
		{
			name:      "master user cannot be deleted",
			actorRole: models.RoleMaster,
			stored:    models.User{ID: 1, Role: models.RoleMaster},
			wantErr:   "cannot delete master user",
		},
		{
			name:      "admin cannot delete another admin",
			actorRole: models.RoleAdmin,
			stored:    models.User{ID: 2, Role: models.RoleAdmin},
			wantErr:   "cannot delete another admin",
		},
		{
			name:      "master deletes an admin",
			actorRole: models.RoleMaster,
			stored:    models.User{ID: 2, Role: models.RoleAdmin},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestUserService()

			stored := tt.stored
			store.On("GetUserByID", mock.Anything, stored.ID).Return(&stored, nil)
			if tt.wantErr == "" {
				store.On("DeleteUser", mock.Anything, stored.ID).Return(nil)
			}

			_, err := svc.DeleteUser(context.Background(), tt.actorRole, stored.ID)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				store.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			store.AssertExpectations(t)
		})
	}
}

func TestListUsersScopesRolesForAdmin(t *testing.T) {
	svc, store := newTestUserService()

	store.On("GetUsers", mock.Anything, []string{models.RoleUser, models.RoleAdmin}).
		Return([]models.User{{ID: 1, Role: models.RoleUser}}, nil)

	users, err := svc.ListUsers(context.Background(), models.RoleAdmin)

	require.NoError(t, err)
	assert.Len(t, users, 1)
	store.AssertExpectations(t)
}

func TestGetUserHidesMasterFromAdmin(t *testing.T) {
	svc, store := newTestUserService()

	store.On("GetUserByID", mock.Anything, int64(1)).
		Return(&models.User{ID: 1, Role: models.RoleMaster}, nil)

	_, err := svc.GetUser(context.Background(), models.RoleAdmin, 1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrForbidden))
}
