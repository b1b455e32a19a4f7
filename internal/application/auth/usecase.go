package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/domain"
	"github.com/VictorDevvs/factory-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Credentials operador único configurado por entorno (AUTH_USERNAME / AUTH_PASSWORD_HASH).
type Credentials struct {
	Username     string
	PasswordHash string // bcrypt
}

// AuthUseCase emite tokens para el operador configurado.
type AuthUseCase struct {
	creds  Credentials
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(creds Credentials, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{creds: creds, jwtCfg: jwtCfg}
}

// Login verifica usuario/password contra el hash bcrypt y genera un JWT.
// Sin hash configurado ningún login es válido.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.creds.PasswordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(in.Username), []byte(uc.creds.Username)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.creds.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, uc.creds.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, TokenType: "Bearer", ExpiresAt: exp}, nil
}
