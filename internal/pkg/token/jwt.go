package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"goclinic/internal/domain"
)

// TokenService define o contrato para manipulação de JWTs.
type TokenService interface {
	GenerateToken(email string, role domain.Role, name string) (string, error)
	ValidateToken(tokenString string) (*CustomClaims, error)
}

// ErrInvalidToken é o único erro que ValidateToken devolve ao chamador.
// Qualquer falha (parse, assinatura, expiração, claims) colapsa nele:
// a validação falha fechada e nunca devolve sucesso parcial.
var ErrInvalidToken = errors.New("token inválido ou expirado")

// CustomClaims define as informações específicas que armazenamos no JWT:
// o e-mail (sujeito), o papel e o nome de exibição do usuário.
// É obrigatório incorporar jwt.RegisteredClaims.
type CustomClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	Name  string      `json:"name"`
	jwt.RegisteredClaims
}

// Service implementa a interface TokenService
type Service struct {
	secretKey []byte
	expiry    time.Duration
}

// NewService cria uma nova instância do serviço Token.
func NewService(secretKey string, expiry time.Duration) *Service {
	return &Service{
		secretKey: []byte(secretKey),
		expiry:    expiry,
	}
}

// GenerateToken cria um novo JWT assinado contendo e-mail, papel e nome.
func (s *Service) GenerateToken(email string, role domain.Role, name string) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		Email: email,
		Role:  role,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "GoClinic-API",
			Subject:   email,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken valida o token string e retorna as claims se for válido.
func (s *Service) ValidateToken(tokenString string) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verifica se o método de assinatura é o esperado (HS256)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Um token bem assinado mas com papel fora do conjunto fechado também
	// é inválido: ninguém passa do verificador com papel desconhecido.
	if !claims.Role.IsValid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
