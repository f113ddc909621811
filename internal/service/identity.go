package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity 是身份提供方验证 Token 后返回的用户身份。
type Identity struct {
	Subject string
	Email   string
}

// IdentityVerifier 校验 Bearer Token 并返回已验证的身份。
type IdentityVerifier interface {
	Verify(token string) (Identity, error)
}

// JWTIdentityProvider 基于 HS256 共享密钥签发与校验 Token。
type JWTIdentityProvider struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTIdentityProvider 构造 JWTIdentityProvider，ttl<=0 时使用 72 小时。
func NewJWTIdentityProvider(secret string, ttl time.Duration) *JWTIdentityProvider {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &JWTIdentityProvider{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "healthmeal",
		now:    time.Now,
	}
}

// Issue 为指定身份签发 Token。
func (p *JWTIdentityProvider) Issue(identity Identity) (string, error) {
	if len(p.secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	now := p.now()
	claims := identityClaims{
		Email: normalizeEmail(identity.Email),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify 校验签名、签发方与有效期，要求 Token 携带 email。
func (p *JWTIdentityProvider) Verify(token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(p.secret) == 0 {
		return Identity{}, ErrInvalidToken
	}

	var claims identityClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithTimeFunc(p.now))
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	email := normalizeEmail(claims.Email)
	if email == "" {
		return Identity{}, fmt.Errorf("%w: email claim missing", ErrInvalidToken)
	}
	return Identity{Subject: claims.Subject, Email: email}, nil
}
