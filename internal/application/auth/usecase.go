package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gearcash-api/internal/application/dto"
	"github.com/jhoicas/gearcash-api/internal/domain"
	"github.com/jhoicas/gearcash-api/internal/domain/entity"
	"github.com/jhoicas/gearcash-api/internal/domain/repository"
	"github.com/jhoicas/gearcash-api/internal/domain/security"
	"github.com/jhoicas/gearcash-api/pkg/jwt"
	"github.com/jhoicas/gearcash-api/pkg/logger"
	"github.com/jhoicas/gearcash-api/pkg/password"
)

const dummyPassword = "gearcash-timing-equalizer"

// AuthUseCase casos de uso de autenticación: setup, registro, login, refresh y logout.
type AuthUseCase struct {
	userRepo  repository.UserRepository
	txRunner  UserTxRunner
	hasher    password.Hasher
	tokens    TokenIssuer
	log       *logger.Logger
	now       func() time.Time
	dummyHash string
}

// NewAuthUseCase construye el caso de uso de auth. txRunner puede ser nil: el setup
// usa entonces userRepo directamente, sin exclusión entre procesos.
func NewAuthUseCase(userRepo repository.UserRepository, txRunner UserTxRunner, hasher password.Hasher, tokens TokenIssuer, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	uc := &AuthUseCase{
		userRepo: userRepo,
		txRunner: txRunner,
		hasher:   hasher,
		tokens:   tokens,
		log:      log.Named("auth"),
		now:      time.Now,
	}
	uc.dummyHash = uc.newDummyHash()
	return uc
}

// newDummyHash hash de relleno: el login de un email inexistente cuesta lo mismo que uno real.
// Si el hasher configurado falla se usa bcrypt con el costo por defecto.
func (uc *AuthUseCase) newDummyHash() string {
	hash, err := uc.hasher.Hash(dummyPassword)
	if err == nil {
		return hash
	}
	uc.log.Error().Err(err).Msg("hash de relleno con el hasher configurado")
	hash, err = password.NewBcryptHasher(password.DefaultCost).Hash(dummyPassword)
	if err != nil {
		uc.log.Error().Err(err).Msg("hash de relleno con bcrypt por defecto")
	}
	return hash
}

// SetupFirstAdmin crea el primer usuario del sistema, siempre con rol admin.
// Solo funciona con la tabla de usuarios vacía; después devuelve ErrSetupNotAllowed sea cual sea la entrada.
func (uc *AuthUseCase) SetupFirstAdmin(ctx context.Context, in dto.SetupAdminRequest) (*dto.UserResponse, error) {
	// El conteo va antes que cualquier validación; se repite bajo el lock antes de insertar.
	if err := uc.ensureNoUsers(ctx, uc.userRepo); err != nil {
		return nil, err
	}
	email, name, err := validateIdentity(in.Email, in.Name)
	if err != nil {
		return nil, err
	}
	if err := security.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := uc.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user, err := uc.newUser(email, hash, name, entity.RoleAdmin)
	if err != nil {
		return nil, err
	}

	create := func(users repository.UserRepository) error {
		if err := uc.ensureNoUsers(ctx, users); err != nil {
			return err
		}
		existing, err := users.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		return users.Create(ctx, user)
	}
	if uc.txRunner != nil {
		err = uc.txRunner.RunLocked(ctx, create)
	} else {
		err = create(uc.userRepo)
	}
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("email", email).Msg("primer administrador creado")
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) ensureNoUsers(ctx context.Context, users repository.UserRepository) error {
	count, err := users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		uc.log.Warn().Int64("users", count).Msg("intento de setup con usuarios existentes")
		return domain.ErrSetupNotAllowed
	}
	return nil
}

// Register crea un usuario (por defecto seller). No inicia sesión.
// La restricción "solo admin" la aplica el control de acceso HTTP.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email, name, err := validateIdentity(in.Email, in.Name)
	if err != nil {
		return nil, err
	}
	if err := security.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	role := entity.RoleSeller
	if in.Role != "" {
		role = entity.Role(in.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrValidation, in.Role)
		}
	}

	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := uc.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user, err := uc.newUser(email, hash, name, role)
	if err != nil {
		return nil, err
	}
	// El índice único resuelve registros concurrentes: Create devuelve ErrEmailAlreadyExists.
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("usuario registrado")
	return toUserResponse(user), nil
}

// ValidateUser devuelve el usuario activo cuyas credenciales coinciden.
// Email inexistente, usuario inactivo y contraseña incorrecta devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) ValidateUser(ctx context.Context, email, plain string) (*entity.User, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		uc.hasher.Verify(plain, uc.dummyHash)
		return nil, domain.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(plain, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// Login verifica email/password, emite el par de tokens y guarda el refresh token
// (invalida el anterior).
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := uc.ValidateUser(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			uc.log.Warn().Str("email", in.Email).Msg("login fallido")
		}
		return nil, err
	}
	out, err := uc.issuePair(user)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.UpdateRefreshToken(ctx, user.ID, &out.RefreshToken); err != nil {
		return nil, err
	}
	uc.log.Debug().Str("user_id", user.ID).Msg("login exitoso")
	return out, nil
}

// RefreshToken rota el par de tokens. El token presentado debe ser un refresh token válido
// y coincidir con el guardado; tras rotar, el anterior deja de servir.
func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := uc.tokens.Verify(refreshToken)
	if err != nil || claims.Type != jwt.TypeRefresh {
		return nil, domain.ErrInvalidRefreshToken
	}
	user, err := uc.userRepo.FindByID(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive || !sameToken(user.RefreshToken, refreshToken) {
		if user != nil {
			uc.log.Warn().Str("user_id", user.ID).Msg("refresh token obsoleto o revocado")
		}
		return nil, domain.ErrInvalidRefreshToken
	}
	out, err := uc.issuePair(user)
	if err != nil {
		return nil, err
	}
	rotated, err := uc.userRepo.RotateRefreshToken(ctx, user.ID, refreshToken, out.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		// Otra petición rotó el mismo token entre la lectura y la escritura.
		uc.log.Warn().Str("user_id", user.ID).Msg("refresh token reutilizado en paralelo")
		return nil, domain.ErrInvalidRefreshToken
	}
	return out, nil
}

// Logout revoca el refresh token guardado del usuario. Idempotente.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	if err := uc.userRepo.UpdateRefreshToken(ctx, userID, nil); err != nil {
		return err
	}
	uc.log.Debug().Str("user_id", userID).Msg("logout")
	return nil
}

// Me arma la respuesta del usuario autenticado a partir de sus claims.
func (uc *AuthUseCase) Me(claims *jwt.Claims) dto.MeResponse {
	return dto.MeResponse{UserID: claims.UserID(), Email: claims.Email, Role: claims.Role}
}

// UpdateUser cambia nombre, rol o estado de un usuario (solo admin). actorID es quien lo solicita:
// un admin no puede quitarse a sí mismo el rol admin ni desactivarse.
// Desactivar un usuario revoca su refresh token.
func (uc *AuthUseCase) UpdateUser(ctx context.Context, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	var patch entity.UserPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede estar vacío", domain.ErrValidation)
		}
		patch.Name = &name
	}
	if in.Role != nil {
		role := entity.Role(*in.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrValidation, *in.Role)
		}
		patch.Role = &role
	}
	patch.IsActive = in.IsActive
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no hay campos para actualizar", domain.ErrValidation)
	}
	if id == actorID {
		if patch.Role != nil && *patch.Role != entity.RoleAdmin {
			return nil, fmt.Errorf("%w: un administrador no puede quitarse su propio rol", domain.ErrValidation)
		}
		if patch.IsActive != nil && !*patch.IsActive {
			return nil, fmt.Errorf("%w: un administrador no puede desactivarse a sí mismo", domain.ErrValidation)
		}
	}

	user, err := uc.userRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		if err := uc.userRepo.UpdateRefreshToken(ctx, user.ID, nil); err != nil {
			return nil, err
		}
	}
	uc.log.Info().Str("user_id", user.ID).Str("actor_id", actorID).Str("role", string(user.Role)).Bool("active", user.IsActive).Msg("usuario actualizado")
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) hashPassword(plain string) (string, error) {
	hash, err := uc.hasher.Hash(plain)
	if err != nil {
		if errors.Is(err, password.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: la contraseña supera 72 bytes", domain.ErrValidation)
		}
		return "", err
	}
	return hash, nil
}

func (uc *AuthUseCase) newUser(email, hash, name string, role entity.Role) (*entity.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generar id: %w", err)
	}
	now := uc.now()
	return &entity.User{
		ID:           id.String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (uc *AuthUseCase) issuePair(user *entity.User) (*dto.TokenResponse, error) {
	sub := jwt.Subject{UserID: user.ID, Email: user.Email, Role: string(user.Role)}
	access, err := uc.tokens.IssueAccessToken(sub)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.tokens.IssueRefreshToken(sub)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User: dto.UserSummary{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  string(user.Role),
		},
	}, nil
}

func validateIdentity(email, name string) (string, string, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	var missing []string
	if email == "" {
		missing = append(missing, "email")
	}
	if name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return "", "", fmt.Errorf("%w: %s requerido", domain.ErrValidation, strings.Join(missing, " y "))
	}
	return email, name, nil
}

func sameToken(stored *string, presented string) bool {
	if stored == nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(*stored), []byte(presented)) == 1
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
