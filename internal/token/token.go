// Package token 签发与校验访问令牌（HS256）
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"katydid-vehicle-market/internal/config"
	"katydid-vehicle-market/pkg/idgen"
)

var (
	// ErrInvalidToken 令牌无法通过校验（签名、过期、签发者、主体）
	ErrInvalidToken = errors.New("token: invalid token")
	// ErrMissingSecret 未配置签名密钥
	ErrMissingSecret = errors.New("token: missing signing secret")
)

// Issuer 令牌签发与校验，并发安全
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// New 按配置创建
func New(cfg config.AuthConfig) (*Issuer, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue 为用户签发令牌，sub 为十进制用户 ID
func (i *Issuer) Issue(userID int64) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   idgen.ID(userID).String(),
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token: sign: %w", err)
	}
	return signed, nil
}

// Parse 校验令牌并返回用户 ID
func (i *Issuer) Parse(raw string) (int64, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return 0, errors.Join(ErrInvalidToken, err)
	}

	id, err := idgen.ParseID(claims.Subject)
	if err != nil {
		return 0, errors.Join(ErrInvalidToken, err)
	}
	return id.Int64(), nil
}
