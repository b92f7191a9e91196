package auth

import (
	"errors"
	"fmt"
	"time"

	reasoncodes "docvault/pkg/reason_codes"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	minSecretLength = 32
	signingKeyId    = "docvault-hs256"
	clockSkew       = 30 * time.Second
)

var ErrInvalidToken = reasoncodes.New(reasoncodes.ErrUnauthorized, "invalid token")

// Claims is what a bearer credential proves about its holder.
type Claims struct {
	Address   string
	TokenId   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 JWTs whose subject is the wallet address.
type TokenService struct {
	key    jwk.Key
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cfg AuthConfig) (*TokenService, error) {
	if len(cfg.JwtSecret) < minSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes", minSecretLength)
	}

	key, err := jwk.FromRaw([]byte(cfg.JwtSecret))
	if err != nil {
		return nil, fmt.Errorf("build signing key: %w", err)
	}
	if err := key.Set(jwk.KeyIDKey, signingKeyId); err != nil {
		return nil, err
	}
	if err := key.Set(jwk.AlgorithmKey, jwa.HS256); err != nil {
		return nil, err
	}

	return &TokenService{
		key:    key,
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTtl,
		now:    time.Now,
	}, nil
}

func (s *TokenService) Issue(address string) (string, Claims, error) {
	now := s.now().UTC().Truncate(time.Second)
	claims := Claims{
		Address:   address,
		TokenId:   uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	tok, err := jwt.NewBuilder().
		Issuer(s.issuer).
		Subject(claims.Address).
		JwtID(claims.TokenId).
		IssuedAt(claims.IssuedAt).
		Expiration(claims.ExpiresAt).
		Build()
	if err != nil {
		return "", Claims{}, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, s.key))
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}

	return string(signed), claims, nil
}

func (s *TokenService) Verify(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrInvalidToken
	}

	tok, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256, s.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(s.issuer),
		jwt.WithClock(jwt.ClockFunc(s.now)),
		jwt.WithAcceptableSkew(clockSkew),
	)
	if err != nil {
		return Claims{}, reasoncodes.Wrap(ErrInvalidToken.Code, ErrInvalidToken.Message, err)
	}
	if tok.Subject() == "" {
		return Claims{}, reasoncodes.Wrap(ErrInvalidToken.Code, ErrInvalidToken.Message, errors.New("missing subject"))
	}

	return Claims{
		Address:   tok.Subject(),
		TokenId:   tok.JwtID(),
		IssuedAt:  tok.IssuedAt(),
		ExpiresAt: tok.Expiration(),
	}, nil
}
