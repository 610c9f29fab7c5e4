package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/payloop-api/internal/application/dto"
	"github.com/jhoicas/payloop-api/internal/domain"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/internal/domain/repository"
	"github.com/jhoicas/payloop-api/pkg/jwt"
)

const minPasswordLen = 6

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminCredential administrador definido por configuración.
// Si PasswordHash está vacío se hashea Password al construir el caso de uso.
type AdminCredential struct {
	Username     string
	Password     string
	PasswordHash string
}

// AuthUseCase casos de uso de autenticación: registro de operadores y login.
type AuthUseCase struct {
	operators repository.OperatorRepository
	adminUser string
	adminHash []byte
	jwtCfg    JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(operators repository.OperatorRepository, admin AdminCredential, jwtCfg JWTConfig) (*AuthUseCase, error) {
	hash := []byte(admin.PasswordHash)
	if len(hash) == 0 {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost); err != nil {
			return nil, fmt.Errorf("auth: hash admin: %w", err)
		}
	}
	return &AuthUseCase{
		operators: operators,
		adminUser: admin.Username,
		adminHash: hash,
		jwtCfg:    jwtCfg,
	}, nil
}

// Register da de alta un operador de caja. Hashea el password con bcrypt.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.OperatorResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.BusinessName = strings.TrimSpace(in.BusinessName)
	switch {
	case in.BusinessName == "":
		return nil, fmt.Errorf("%w: business_name es obligatorio", domain.ErrInvalidInput)
	case in.Username == "":
		return nil, fmt.Errorf("%w: username es obligatorio", domain.ErrInvalidInput)
	case len(in.Password) < minPasswordLen:
		return nil, fmt.Errorf("%w: el password debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	case in.Password != in.ConfirmPassword:
		return nil, fmt.Errorf("%w: los passwords no coinciden", domain.ErrInvalidInput)
	}
	if strings.EqualFold(in.Username, uc.adminUser) {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	op := &entity.Operator{
		ID:           uuid.New().String(),
		BusinessName: in.BusinessName,
		Username:     in.Username,
		PasswordHash: string(hash),
		Role:         entity.RoleCajero,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uc.operators.Create(ctx, op); err != nil {
		return nil, err
	}
	return toOperatorResponse(op), nil
}

// Login verifica usuario/password (admin de configuración u operador registrado) y genera el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	var op *entity.Operator
	if strings.EqualFold(strings.TrimSpace(in.Username), uc.adminUser) {
		if err := bcrypt.CompareHashAndPassword(uc.adminHash, []byte(in.Password)); err != nil {
			return nil, domain.ErrUnauthorized
		}
		op = &entity.Operator{Username: uc.adminUser, Role: entity.RoleAdmin}
	} else {
		found, err := uc.operators.FindByUsername(ctx, strings.TrimSpace(in.Username))
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, domain.ErrUserNotFound
		}
		if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(in.Password)); err != nil {
			return nil, domain.ErrUnauthorized
		}
		op = found
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, op.Username, op.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		Operator: *toOperatorResponse(op),
	}, nil
}

func toOperatorResponse(op *entity.Operator) *dto.OperatorResponse {
	if op == nil {
		return nil
	}
	return &dto.OperatorResponse{
		ID:           op.ID,
		BusinessName: op.BusinessName,
		Username:     op.Username,
		Role:         op.Role,
		CreatedAt:    op.CreatedAt,
	}
}
