package security

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer          = "quizsalon"
	defaultTokenTTL = 24 * time.Hour
)

var ErrTokenInvalido = errors.New("token inválido")

// JWTService implementa TokenService com HS256. O "sub" é o ID da conta.
type JWTService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewJWTService cria uma nova instância de JWTService.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secretKey: []byte(secret),
		ttl:       defaultTokenTTL,
		now:       time.Now,
	}
}

// WithTTL altera a validade dos tokens emitidos.
func (s *JWTService) WithTTL(ttl time.Duration) *JWTService {
	s.ttl = ttl
	return s
}

// GenerateToken gera um token e devolve a validade em segundos.
func (s *JWTService) GenerateToken(userID string) (string, int64, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.ttl / time.Second), nil
}

// ValidateToken valida assinatura, emissor e expiração e devolve o ID da conta.
func (s *JWTService) ValidateToken(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return s.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrTokenInvalido
	}
	return claims.Subject, nil
}

// BearerToken extrai o token de um header "Authorization: Bearer <token>".
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
