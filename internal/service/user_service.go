package service

import (
	"context"
	"fmt"

	"pos-service/internal/auth"
	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// LoginRequest carries login credentials. The identifier matches
// either the account email or the account name.
type LoginRequest struct {
	EmailOrName string `json:"emailOrName" binding:"required,min=2,max=255"`
	Password    string `json:"password" binding:"required,min=5,max=255"`
}

// RegisterRequest carries a self-registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=5,max=255"`
	Role     string `json:"role"`
}

// UserRequest carries an admin-driven user create/update. On update,
// empty fields keep their stored values and Password is optional.
type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserService manages staff accounts and credentials. Mutations are
// guarded by the caller's role: master outranks admin outranks user,
// and the master account itself can never be created, deleted or
// downgraded through the API.
type UserService struct {
	store  UserStore
	tokens *auth.Verifier
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(store UserStore, tokens *auth.Verifier) *UserService {
	return &UserService{store: store, tokens: tokens, logger: util.GetLogger()}
}

// Login verifies credentials and issues a signed token
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (string, *models.User, error) {
	ctx, span := util.StartSpan(ctx, "service.Login")
	defer span.End()

	user, err := s.store.GetUserByEmailOrName(ctx, req.EmailOrName)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, fmt.Errorf("invalid email, name, or password: %w", models.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, fmt.Errorf("invalid email, name, or password: %w", models.ErrUnauthorized)
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info("User logged in", zap.Int64("user_id", user.ID))
	return token, user, nil
}

// Register creates a new account and logs it in
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (string, *models.User, error) {
	ctx, span := util.StartSpan(ctx, "service.Register")
	defer span.End()

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !validRole(role) {
		return "", nil, &models.ValidationError{Field: "role", Reason: "unknown role"}
	}

	if err := s.ensureIdentityFree(ctx, req.Email, req.Name); err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}
	s.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("role", user.Role))
	return token, user, nil
}

// GetMe returns the calling user's own account
func (s *UserService) GetMe(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// ListUsers returns accounts visible to the actor. Admins only see
// user and admin accounts; master sees everyone.
func (s *UserService) ListUsers(ctx context.Context, actorRole string) ([]models.User, error) {
	var roles []string
	if actorRole == models.RoleAdmin {
		roles = []string{models.RoleUser, models.RoleAdmin}
	}
	return s.store.GetUsers(ctx, roles)
}

// GetUser returns one account, subject to the actor's visibility
func (s *UserService) GetUser(ctx context.Context, actorRole string, id int64) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole == models.RoleAdmin && user.Role == models.RoleMaster {
		return nil, models.ErrForbidden
	}
	return user, nil
}

// CreateUser adds a staff account on behalf of an admin or master
func (s *UserService) CreateUser(ctx context.Context, actorRole string, req *UserRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "service.CreateUser")
	defer span.End()

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !validRole(role) {
		return nil, &models.ValidationError{Field: "role", Reason: "unknown role"}
	}
	if role == models.RoleMaster {
		return nil, fmt.Errorf("cannot create master user: %w", models.ErrForbidden)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, &models.ValidationError{Field: "name", Reason: "name, email and password are required"}
	}

	if err := s.ensureIdentityFree(ctx, req.Email, req.Name); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("role", user.Role),
		zap.String("actor_role", actorRole))
	return user, nil
}

// UpdateUser edits a staff account. Admins cannot touch master
// accounts or assign the master role; master cannot downgrade itself
// or promote an admin to master.
func (s *UserService) UpdateUser(ctx context.Context, actorRole string, id int64, req *UserRequest) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "service.UpdateUser")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != "" && !validRole(req.Role) {
		return nil, &models.ValidationError{Field: "role", Reason: "unknown role"}
	}

	if actorRole == models.RoleAdmin {
		if user.Role == models.RoleMaster {
			return nil, fmt.Errorf("cannot edit master user: %w", models.ErrForbidden)
		}
		if req.Role == models.RoleMaster {
			return nil, fmt.Errorf("cannot set role to master: %w", models.ErrForbidden)
		}
	}
	if actorRole == models.RoleMaster {
		if user.Role == models.RoleMaster && req.Role != "" && req.Role != models.RoleMaster {
			return nil, fmt.Errorf("cannot downgrade master user: %w", models.ErrForbidden)
		}
		if user.Role == models.RoleAdmin && req.Role == models.RoleMaster {
			return nil, fmt.Errorf("cannot upgrade admin to master: %w", models.ErrForbidden)
		}
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a staff account. The master account cannot be
// deleted, and admins cannot delete other admins.
func (s *UserService) DeleteUser(ctx context.Context, actorRole string, id int64) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "service.DeleteUser")
	defer span.End()

	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleMaster {
		return nil, fmt.Errorf("cannot delete master user: %w", models.ErrForbidden)
	}
	if actorRole == models.RoleAdmin && user.Role == models.RoleAdmin {
		return nil, fmt.Errorf("cannot delete another admin: %w", models.ErrForbidden)
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("User deleted", zap.Int64("user_id", id), zap.String("actor_role", actorRole))
	return user, nil
}

// ensureIdentityFree rejects a create when the email or name is taken
func (s *UserService) ensureIdentityFree(ctx context.Context, email, name string) error {
	for _, identity := range []string{email, name} {
		existing, err := s.store.GetUserByEmailOrName(ctx, identity)
		if err != nil {
			return err
		}
		if existing != nil {
			return &models.ValidationError{Field: "email", Reason: "user with this email or name already registered"}
		}
	}
	return nil
}

func validRole(role string) bool {
	return role == models.RoleUser || role == models.RoleAdmin || role == models.RoleMaster
}
