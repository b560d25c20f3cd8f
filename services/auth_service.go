package services

import (
	"coffeeshop_server/lib"
	"coffeeshop_server/structs"
	"coffeeshop_server/structs/tables"
	"context"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// Session is the authenticated user of one request. Sessions are values
// passed around explicitly, so any number of them can be live at once.
type Session struct {
	User      *tables.User `json:"user"`
	TokenID   uuid.UUID    `json:"-"`
	IssuedAt  time.Time    `json:"issued_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (s *Session) HasRole(roles ...tables.UserRole) bool {
	if s == nil || s.User == nil {
		return false
	}
	for _, role := range roles {
		if s.User.Role == role {
			return true
		}
	}
	return false
}

func (s *Session) IsAdmin() bool {
	return s.HasRole(tables.RoleAdmin)
}

func (s *Session) IsWaiter() bool {
	return s.HasRole(tables.RoleWaiter)
}

func (s *Session) IsKitchen() bool {
	return s.HasRole(tables.RoleKitchen)
}

// UserID returns a pointer suitable for audit columns, nil without a user.
func (s *Session) UserID() *int64 {
	if s == nil || s.User == nil {
		return nil
	}
	id := s.User.ID
	return &id
}

type AuthService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	users        UserStore
	cacheService *CacheService
}

func NewAuthService(logger *gecho.Logger, cfg *structs.Config, users UserStore, cacheService *CacheService) *AuthService {
	return &AuthService{
		logger:       logger,
		cfg:          cfg,
		users:        users,
		cacheService: cacheService,
	}
}

// Authenticate checks the credentials and opens a session. Unknown users and
// wrong passwords both yield ErrInvalidCredentials; a disabled account yields
// ErrAccountDisabled whatever the password.
func (as *AuthService) Authenticate(ctx context.Context, username, password string) (*Session, string, error) {
	startTime := time.Now()
	username = strings.TrimSpace(username)

	user, err := as.users.FindByUsername(ctx, username)
	if err != nil {
		as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
		return nil, "", err
	}

	// Check if user was found (First() can return nil, nil for no results)
	if user == nil {
		as.logger.Debug("User not found during login attempt", gecho.Field("username", username))
		return nil, "", lib.ErrInvalidCredentials
	}

	if !user.IsActive {
		as.logger.Warn("Login attempt on disabled account", gecho.Field("user_id", user.ID))
		return nil, "", lib.ErrAccountDisabled
	}

	valid, err := lib.VerifyPassword(password, user.Password)
	if err != nil {
		as.logger.Error("Failed to verify password hash",
			gecho.Field("error", err),
			gecho.Field("user_id", user.ID),
		)
		return nil, "", err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("username", username), gecho.Field("user_id", user.ID))
		return nil, "", lib.ErrInvalidCredentials
	}

	// Remove password hash before the user leaves the service
	user.Password = ""

	session, token, err := as.issue(user)
	if err != nil {
		return nil, "", err
	}

	if err := as.cacheService.SetUserInCache(ctx, user); err != nil {
		as.logger.Warn("Failed to set user in cache after login", gecho.Field("error", err), gecho.Field("user_id", user.ID))
	}

	as.logger.Debug("User logged in successfully",
		gecho.Field("user_id", user.ID),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))
	return session, token, nil
}

func (as *AuthService) issue(user *tables.User) (*Session, string, error) {
	now := time.Now()
	claims := &structs.AuthClaims{
		Sub:      user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		Iat:      now,
		Exp:      now.Add(as.cfg.Auth.AccessTokenExpiry),
		Jti:      uuid.New(),
	}

	token, err := lib.SignToken(claims, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		as.logger.Error("Failed to sign access token", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return nil, "", err
	}

	return &Session{
		User:      user,
		TokenID:   claims.Jti,
		IssuedAt:  claims.Iat,
		ExpiresAt: claims.Exp,
	}, token, nil
}

// ResolveSession turns a bearer token back into a session. Revoked tokens
// and users that were deleted or disabled since the token was issued are
// rejected.
func (as *AuthService) ResolveSession(ctx context.Context, token string) (*Session, error) {
	claims, err := lib.ParseToken(token, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		return nil, err
	}

	isBlacklisted, err := as.cacheService.IsTokenBlacklisted(ctx, claims.Jti)
	if err != nil {
		as.logger.Error("Failed to check if token is blacklisted", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, err
	}
	if isBlacklisted {
		as.logger.Debug("Token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, lib.ErrInvalidToken
	}

	user, err := as.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, lib.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, lib.ErrAccountDisabled
	}

	return &Session{
		User:      user,
		TokenID:   claims.Jti,
		IssuedAt:  claims.Iat,
		ExpiresAt: claims.Exp,
	}, nil
}

// GetUserByID reads through the user cache. The cached copy carries no
// password hash.
func (as *AuthService) GetUserByID(ctx context.Context, userID int64) (*tables.User, error) {
	cachedUser, err := as.cacheService.GetUserFromCache(ctx, userID)
	if err != nil {
		as.logger.Warn("Failed to get user from cache", gecho.Field("error", err), gecho.Field("user_id", userID))
	} else if cachedUser != nil {
		return cachedUser, nil
	}

	user, err := as.users.FindByID(ctx, userID)
	if err != nil {
		as.logger.Error("Failed to find user by ID", gecho.Field("error", err), gecho.Field("user_id", userID))
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	user.Password = ""
	if err := as.cacheService.SetUserInCache(ctx, user); err != nil {
		as.logger.Warn("Failed to cache user after DB fetch", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
	return user, nil
}

// Logout revokes the session's token until it would have expired anyway.
func (as *AuthService) Logout(ctx context.Context, session *Session) error {
	if session == nil {
		return nil
	}

	if err := as.cacheService.BlacklistToken(ctx, session.TokenID, session.ExpiresAt); err != nil {
		as.logger.Error("Failed to blacklist token", gecho.Field("error", err), gecho.Field("jti", session.TokenID))
		return err
	}

	as.logger.Debug("User logged out", gecho.Field("user_id", session.User.ID))
	return nil
}
