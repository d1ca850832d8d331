package service

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/auth"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/config"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/domain"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/events"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/internal/persistence"
	"github.com/AgboolaAgbeniga/multi-framework-ticket-app/pkg/util"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 6

// AuthService coordinates registration, login and token validation.
// It holds no state of its own; every call operates on the store's
// current snapshot through the records guard.
type AuthService struct {
	records    *persistence.Records
	hasher     *auth.Hasher
	tokenTTL   time.Duration
	dispatcher events.Dispatcher
	now        func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, records *persistence.Records, dispatcher events.Dispatcher) *AuthService {
	return &AuthService{
		records:    records,
		hasher:     auth.NewHasher(cfg.HashPasswords, cfg.BcryptCost),
		tokenTTL:   cfg.TokenTTL(),
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Register creates a new account. The returned user carries no
// password.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	details := map[string]any{}
	if email == "" {
		details["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		details["email"] = "email is invalid"
	}
	if password == "" {
		details["password"] = "password is required"
	} else if utf8.RuneCountInString(password) < minPasswordLen {
		details["password"] = "password must be at least 6 characters"
	}
	if name == "" {
		details["name"] = "name is required"
	}
	if len(details) > 0 {
		return nil, util.NewValidationError("validation failed", details)
	}

	stored, err := s.hasher.Hash(password)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	user := domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: stored,
		Name:     name,
	}
	err = s.records.Update(ctx, func(snap *domain.Snapshot) error {
		for _, existing := range snap.Users {
			if existing.Email == email {
				return util.NewEmailExists(email)
			}
		}
		snap.Users = append(snap.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		UserID:  user.ID,
		Payload: events.UserRegisteredPayload{Email: user.Email, Name: user.Name},
	})
	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Login checks credentials and mints a fresh token with a fixed TTL.
// The token is persisted into the snapshot's token map; expired tokens
// are swept opportunistically on the same write.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.AuthToken, error) {
	if email == "" || password == "" {
		return nil, util.NewValidationError("email and password are required", nil)
	}

	now := s.now()
	token := domain.AuthToken{
		Token:     auth.GenerateToken(),
		ExpiresAt: now.Add(s.tokenTTL),
	}
	err := s.records.Update(ctx, func(snap *domain.Snapshot) error {
		var matched *domain.User
		for i := range snap.Users {
			if snap.Users[i].Email == email {
				matched = &snap.Users[i]
				break
			}
		}
		if matched == nil || !s.hasher.Compare(matched.Password, password) {
			return util.NewInvalidCredentials()
		}
		token.User = domain.TokenUser{ID: matched.ID, Email: matched.Email, Name: matched.Name}

		for key, existing := range snap.Tokens {
			if existing.Expired(now) {
				delete(snap.Tokens, key)
			}
		}
		snap.Tokens[token.Token] = token
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.EventUserLoggedIn, UserID: token.User.ID})
	return &token, nil
}

// Validate resolves a bearer string to the user snapshot it was minted
// for. It returns nil without error when the token is unknown or its
// expiry is in the past; validity is never refreshed or extended by
// use.
func (s *AuthService) Validate(ctx context.Context, tokenStr string) (*domain.TokenUser, error) {
	var user *domain.TokenUser
	err := s.records.View(ctx, func(snap *domain.Snapshot) error {
		token, ok := snap.Tokens[tokenStr]
		if !ok || token.Expired(s.now()) {
			return nil
		}
		u := token.User
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout removes the server-side token. Unknown tokens are a no-op so
// the call is idempotent.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	return s.records.Update(ctx, func(snap *domain.Snapshot) error {
		delete(snap.Tokens, tokenStr)
		return nil
	})
}

// LookupByEmail returns the matching user, password stripped, or an
// empty slice when there is no exact match.
func (s *AuthService) LookupByEmail(ctx context.Context, email string) ([]domain.User, error) {
	result := []domain.User{}
	err := s.records.View(ctx, func(snap *domain.Snapshot) error {
		for _, user := range snap.Users {
			if user.Email == email {
				result = append(result, user.Sanitized())
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}
