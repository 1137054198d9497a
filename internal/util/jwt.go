package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type SubjectKind string

const (
	SubjectWebUser SubjectKind = "web_user"
	SubjectAdmin   SubjectKind = "admin"
)

type Claims struct {
	SubjectID uuid.UUID   `json:"sid"`
	Email     string      `json:"email"`
	Kind      SubjectKind `json:"kind"`
	Role      string      `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithTTL returns a manager sharing the signing key but issuing tokens with a different lifetime.
func (m *JWTManager) WithTTL(ttl time.Duration) *JWTManager {
	return &JWTManager{secret: m.secret, ttl: ttl, now: m.now}
}

func (m *JWTManager) Generate(subjectID uuid.UUID, email string, kind SubjectKind, role string) (string, time.Time, error) {
	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.ttl)
	claims := Claims{
		SubjectID: subjectID,
		Email:     email,
		Kind:      kind,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (m *JWTManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
