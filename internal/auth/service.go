package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/mtcolectivo/backend-colectivo/internal/common"
)

const (
	defaultAccessTTL = time.Hour
	defaultIssuer    = "backend-colectivo"
	defaultAudience  = "colectivo-admin"

	httpStatusUnauthorized = 401
)

// Service authenticates the administrator account and issues access tokens.
// The deployment has exactly one operator, so credentials come from
// configuration instead of a user table.
type Service struct {
	adminUser string
	adminHash string
	secret    []byte
	accessTTL time.Duration
	now       func() time.Time
	signer    jwa.SignatureAlgorithm
	validator TokenValidator
	issuer    string
	audience  string
	clockSkew time.Duration
}

// Config configures the auth service.
type Config struct {
	AdminUser string
	// AdminPassHash is a pre-computed argon2id hash. When empty, AdminPass
	// is hashed at startup instead.
	AdminPassHash  string
	AdminPass      string
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       string
	ClockSkew      time.Duration
}

// Account is the administrator identity returned to clients.
type Account struct {
	Username string `json:"username"`
}

// LoginResult bundles token material returned after a successful login.
type LoginResult struct {
	Account      Account   `json:"account"`
	AccessToken  string    `json:"access_token"`
	AccessExpiry time.Time `json:"access_expires_at"`
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	adminUser := strings.TrimSpace(cfg.AdminUser)
	if adminUser == "" {
		return nil, errors.New("auth: admin user is required")
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	adminHash := strings.TrimSpace(cfg.AdminPassHash)
	if adminHash == "" {
		if strings.TrimSpace(cfg.AdminPass) == "" {
			return nil, errors.New("auth: admin password or password hash is required")
		}
		hashed, err := argon2id.CreateHash(cfg.AdminPass, argon2id.DefaultParams)
		if err != nil {
			return nil, fmt.Errorf("auth: hash admin password: %w", err)
		}
		adminHash = hashed
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = defaultAudience
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}

	return &Service{
		adminUser: adminUser,
		adminHash: adminHash,
		secret:    []byte(secret),
		accessTTL: accessTTL,
		now:       time.Now,
		signer:    jwa.HS256,
		validator: TokenValidator{
			Issuer:    issuer,
			Audience:  audience,
			ClockSkew: clockSkew,
			Algorithm: jwa.HS256,
		},
		issuer:    issuer,
		audience:  audience,
		clockSkew: clockSkew,
	}, nil
}

// Login verifies the supplied credentials against the configured account and
// returns a signed access token on success.
func (s *Service) Login(username, password string) (LoginResult, error) {
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(s.adminUser)) == 1
	passOK, err := argon2id.ComparePasswordAndHash(password, s.adminHash)
	if err != nil {
		return LoginResult{}, common.NewAppError("INTERNAL", "could not verify credentials", 500, err)
	}
	if !userOK || !passOK {
		return LoginResult{}, common.NewAppError("INVALID_CREDENTIALS", "invalid username or password", httpStatusUnauthorized, nil)
	}
	token, expiresAt, err := s.signAccessToken(s.adminUser)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth: sign access token: %w", err)
	}
	return LoginResult{
		Account:      Account{Username: s.adminUser},
		AccessToken:  token,
		AccessExpiry: expiresAt,
	}, nil
}

// Me returns the account for the given token subject.
func (s *Service) Me(subject string) (Account, error) {
	if subject != s.adminUser {
		return Account{}, common.NewAppError("UNAUTHORIZED", "unknown account", httpStatusUnauthorized, nil)
	}
	return Account{Username: s.adminUser}, nil
}

// ParseAccessToken validates an access token and returns the subject.
func (s *Service) ParseAccessToken(token string) (string, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return "", common.NewAppError("UNAUTHORIZED", "missing token", httpStatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	if s.validator.Algorithm != "" && algorithm != s.validator.Algorithm {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, fmt.Errorf("unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, s.secret))
	if err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	if err := s.validator.Validate(parsed, algorithm, s.now()); err != nil {
		return "", common.NewAppError("UNAUTHORIZED", "invalid token", httpStatusUnauthorized, err)
	}
	return parsed.Subject(), nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", errors.New("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func (s *Service) signAccessToken(subject string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	builder := jwt.NewBuilder().
		Subject(subject).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		NotBefore(now.Add(-s.clockSkew)).
		Expiration(expiresAt)
	token, err := builder.Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}
