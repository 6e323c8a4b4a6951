// Package services содержит логику бизнес-уровня для жизненного цикла
// учетных записей: регистрация, вход, профиль, смена пароля,
// деактивация и реактивация.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/domain"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/jwt"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/password"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/models"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/session"
)

// UserRepository описывает контракт работы с профилями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет новый профиль и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает профиль по email или domain.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает профиль по UID или domain.ErrNotFound.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateProfile сливает непустые поля в профиль.
	UpdateProfile(ctx context.Context, userUID string, update models.ProfileUpdate) error
	// UpdatePasswordHash заменяет хэш пароля.
	UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error
	// UpdateStatus переключает статус учетной записи.
	UpdateStatus(ctx context.Context, userUID, status string) error
	// FindAccountByEmail возвращает {uid, status} без аутентификации.
	FindAccountByEmail(ctx context.Context, email string) (*models.AccountInfo, error)
}

// PlanRepository читает каталог планов.
type PlanRepository interface {
	// GetDefaultPlan возвращает план с orden=1 или domain.ErrNotFound.
	GetDefaultPlan(ctx context.Context) (*models.Plan, error)
}

// SessionStore хранит снимок профиля текущей сессии.
// Сбои хранилища сессий не прерывают операции сервиса.
type SessionStore interface {
	Save(ctx context.Context, key string, value any)
	Get(ctx context.Context, key string, result any) bool
	Remove(ctx context.Context, key string)
}

// EventPublisher публикует события жизненного цикла учетной записи.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// RegisterInput поля нового профиля вместе с паролем.
type RegisterInput struct {
	FirstNames  string
	LastNames   string
	NationalID  string
	Email       string
	Address     string
	RawPassword string
}

// AccountService реализует операции над учетными записями поверх
// хранилища профилей, каталога планов и хранилища сессий.
type AccountService struct {
	users    UserRepository
	plans    PlanRepository
	sessions SessionStore
	events   EventPublisher
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAccountService создает новый экземпляр AccountService.
func NewAccountService(users UserRepository, plans PlanRepository, sessions SessionStore,
	events EventPublisher, jwtMaker jwt.Maker, log *slog.Logger) *AccountService {
	return &AccountService{
		users:    users,
		plans:    plans,
		sessions: sessions,
		events:   events,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает профиль со статусом activo, встраивая снимок плана
// с orden=1. Отсутствие такого плана не ошибка: профиль создается без
// назначенного плана. Дубликат email транслируется в domain.ErrEmailTaken.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (string, error) {
	const op = "services.account.Register"

	if len(input.RawPassword) < password.MinLength {
		return "", fmt.Errorf("%s: %w", op, domain.ErrWeakPassword)
	}
	hashed, err := password.GetHash(input.RawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var assignment *models.PlanAssignment
	plan, err := s.plans.GetDefaultPlan(ctx)
	switch {
	case err == nil:
		assignment = &models.PlanAssignment{
			PlanName:     plan.Name,
			PlanID:       plan.ID,
			ValidityDays: plan.ValidityDays,
			AssignedAt:   time.Now().UTC(),
		}
	case errors.Is(err, domain.ErrNotFound):
		s.log.Warn("no default plan found, registering without assignment")
	default:
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		FirstNames:   input.FirstNames,
		LastNames:    input.LastNames,
		NationalID:   input.NationalID,
		Email:        input.Email,
		Address:      input.Address,
		Role:         "user", // дефолтная роль при регистрации
		PasswordHash: hashed,
		Status:       models.StatusActive,
		PlanAssigned: assignment,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.publishEvent(models.EventRegistered, uid, input.Email)
	return uid, nil
}

// Login проверяет пару email/пароль и загружает профиль.
// Профиль со статусом eliminado блокирует вход с domain.ErrAccountDisabled,
// и сессия в этом случае не создается. При успехе снимок профиля
// сохраняется в слот сессии и возвращается подписанный токен.
func (s *AccountService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "services.account.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("%s: %w", op, domain.ErrNotFound)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}
	if user.Status == models.StatusDeleted {
		return nil, "", fmt.Errorf("%s: %w", op, domain.ErrAccountDisabled)
	}

	token, err := s.jwtMaker.GenerateToken(user.Email, user.Role, user.UID)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	s.sessions.Save(ctx, session.UserKey(user.UID), user)
	return user, token, nil
}

// ValidateToken проверяет JWT и возвращает явный AuthContext.
func (s *AccountService) ValidateToken(_ context.Context, token string) (domain.AuthContext, error) {
	const op = "services.account.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return domain.AuthContext{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.AuthContext{
		UserUID: claims.UserUID,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}

// GetCurrentUser возвращает профиль аутентифицированного пользователя.
// Сначала пробуется снимок из сессии, затем хранилище. Отсутствующий
// профиль возвращается как nil без ошибки.
func (s *AccountService) GetCurrentUser(ctx context.Context, authCtx domain.AuthContext) (*models.User, error) {
	const op = "services.account.GetCurrentUser"

	if !authCtx.IsAuthenticated() {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}

	var cached models.User
	if s.sessions.Get(ctx, session.UserKey(authCtx.UserUID), &cached) {
		return &cached, nil
	}

	user, err := s.users.GetUser(ctx, authCtx.UserUID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// UpdateProfile сливает переданные поля в профиль, ставит отметку времени
// обновления и освежает снимок сессии.
func (s *AccountService) UpdateProfile(ctx context.Context, authCtx domain.AuthContext, update models.ProfileUpdate) (*models.User, error) {
	const op = "services.account.UpdateProfile"

	if !authCtx.IsAuthenticated() {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}
	if err := s.users.UpdateProfile(ctx, authCtx.UserUID, update); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetUser(ctx, authCtx.UserUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.sessions.Save(ctx, session.UserKey(user.UID), user)
	return user, nil
}

// ChangePassword заново подтверждает идентичность текущим паролем и
// только затем применяет новый. Неверный текущий пароль не меняет
// сохраненные учетные данные.
func (s *AccountService) ChangePassword(ctx context.Context, authCtx domain.AuthContext, currentPassword, newPassword string) error {
	const op = "services.account.ChangePassword"

	if !authCtx.IsAuthenticated() {
		return fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}
	user, err := s.users.GetUser(ctx, authCtx.UserUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, currentPassword); err != nil {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}
	if len(newPassword) < password.MinLength {
		return fmt.Errorf("%s: %w", op, domain.ErrWeakPassword)
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.UID, hashed); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RequestPasswordReset ставит запрос на письмо восстановления в очередь.
// Письмо отправляет воркер mailer; сервис лишь публикует сообщение.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "services.account.RequestPasswordReset"

	if email == "" {
		return fmt.Errorf("%s: %w", op, domain.ErrEmailRequired)
	}
	if _, err := s.users.FindAccountByEmail(ctx, email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	request := models.PasswordResetRequest{
		Email:       email,
		ResetToken:  uuid.New().String(),
		RequestedAt: time.Now().UTC(),
	}
	if err := s.events.Publish("password_reset", request); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeactivateAccount заново подтверждает идентичность, помечает профиль
// как eliminado и удаляет сессию. Мягкое удаление: данные сохраняются,
// вход блокируется до реактивации.
func (s *AccountService) DeactivateAccount(ctx context.Context, authCtx domain.AuthContext, currentPassword string) error {
	const op = "services.account.DeactivateAccount"

	if !authCtx.IsAuthenticated() {
		return fmt.Errorf("%s: %w", op, domain.ErrNotAuthenticated)
	}
	user, err := s.users.GetUser(ctx, authCtx.UserUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, currentPassword); err != nil {
		return fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}

	if err := s.users.UpdateStatus(ctx, user.UID, models.StatusDeleted); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.sessions.Remove(ctx, session.UserKey(user.UID))

	s.publishEvent(models.EventDeactivated, user.UID, user.Email)
	return nil
}

// ReactivateAccount возвращает профиль в статус activo. Операция
// административная: маршрут закрыт проверкой роли, конечному
// пользователю напрямую недоступна.
func (s *AccountService) ReactivateAccount(ctx context.Context, userUID string) error {
	const op = "services.account.ReactivateAccount"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdateStatus(ctx, user.UID, models.StatusActive); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publishEvent(models.EventReactivated, user.UID, user.Email)
	return nil
}

// FindByEmail возвращает {uid, status} профиля без аутентификации.
// Используется для подсказки о реактивации после заблокированного входа.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.AccountInfo, error) {
	const op = "services.account.FindByEmail"

	info, err := s.users.FindAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return info, nil
}

// Logout удаляет слот сессии пользователя.
func (s *AccountService) Logout(ctx context.Context, authCtx domain.AuthContext) {
	if !authCtx.IsAuthenticated() {
		return
	}
	s.sessions.Remove(ctx, session.UserKey(authCtx.UserUID))
}

// publishEvent отправляет событие жизненного цикла. Публикация
// выполняется по принципу наилучших усилий: сбой логируется и не
// откатывает уже сделанную запись.
func (s *AccountService) publishEvent(kind, userUID, email string) {
	event := models.AccountEvent{
		Kind:       kind,
		UserUID:    userUID,
		Email:      email,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish("lifecycle", event); err != nil {
		s.log.Error("failed to publish account event", slog.String("kind", kind), sl.Err(err))
	}
}
