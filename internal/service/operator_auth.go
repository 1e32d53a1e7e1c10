package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmbeats_sheets/internal/models"
	"farmbeats_sheets/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL applies when no TTL is configured.
const DefaultTokenTTL = 12 * time.Hour

const (
	tokenIssuer       = "farmbeats-sheets"
	minPasswordLength = 8
)

var (
	ErrEmptyName          = errors.New("grower name is empty")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", minPasswordLength)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrSessionEnded       = errors.New("device session ended")
)

// SessionIdentity reports the ID of the live device session.
type SessionIdentity interface {
	ID() string
}

// OperatorClaims binds a grower to the device session it signed in to.
type OperatorClaims struct {
	jwt.RegisteredClaims
	GrowerID  int64  `json:"gid"`
	Name      string `json:"name"`
	SessionID string `json:"sid"`
}

// OperatorAuth signs growers in to the current device session. Tokens from
// a session that has since ended are refused.
type OperatorAuth struct {
	growers    repository.Growers
	session    SessionIdentity
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewOperatorAuth(growers repository.Growers, session SessionIdentity, signingKey string, tokenTTL time.Duration) *OperatorAuth {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &OperatorAuth{
		growers:    growers,
		session:    session,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// Register stores a grower with a bcrypt hash of password.
func (a *OperatorAuth) Register(ctx context.Context, name, password string) (int64, error) {
	name = normalizeGrowerName(name)
	if name == "" {
		return 0, ErrEmptyName
	}
	if len(password) < minPasswordLength {
		return 0, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return a.growers.Register(ctx, name, string(hash))
}

// SignIn checks the credentials and issues a token for the live session.
// Unknown names and wrong passwords both yield ErrInvalidCredentials.
func (a *OperatorAuth) SignIn(ctx context.Context, name, password string) (string, error) {
	g, err := a.growers.ByName(ctx, normalizeGrowerName(name))
	if err != nil {
		if errors.Is(err, repository.ErrGrowerNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(g.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return a.issue(g)
}

// Authenticate verifies token and returns the operator it names. A token
// signed for an earlier session is ErrSessionEnded.
func (a *OperatorAuth) Authenticate(token string) (models.Operator, error) {
	claims := &OperatorClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return a.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return models.Operator{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.SessionID == "" || claims.GrowerID <= 0 {
		return models.Operator{}, ErrInvalidToken
	}
	if claims.SessionID != a.session.ID() {
		return models.Operator{}, ErrSessionEnded
	}
	return models.Operator{
		GrowerID:  claims.GrowerID,
		Name:      claims.Name,
		SessionID: claims.SessionID,
	}, nil
}

func (a *OperatorAuth) issue(g models.Grower) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   g.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
		GrowerID:  g.ID,
		Name:      g.Name,
		SessionID: a.session.ID(),
	})
	return token.SignedString(a.signingKey)
}

func normalizeGrowerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
