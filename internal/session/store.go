// Package session реализует хранилище пользовательских сессий поверх Redis.
//
// В слоте session:<uid> лежит JSON-снимок профиля, записанный при входе.
// Контракт намеренно мягкий: сбои записи, чтения и удаления логируются
// и не пробрасываются вызывающему, поэтому "нет сессии" и "хранилище
// недоступно" для остального кода неразличимы.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/config"
	"github.com/EdisonSantiago93/carbontracker-backend/internal/lib/sl"
)

// Store инкапсулирует подключение к Redis и время жизни слота сессии.
type Store struct {
	Db  *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// UserKey возвращает имя слота сессии для пользователя.
func UserKey(userUID string) string {
	return "session:" + userUID
}

// InitStore подключается к Redis и проверяет соединение.
func InitStore(ctx context.Context, cfg config.RedisConnection, log *slog.Logger) (*Store, error) {
	const op = "session.InitStore"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db, ttl: cfg.SessionTTL, log: log}, nil
}

// Save сериализует value и кладет его в слот key. Сбой записи логируется
// и не возвращается вызывающему.
func (s *Store) Save(ctx context.Context, key string, value any) {
	const op = "session.Save"
	jsonData, err := json.Marshal(value)
	if err != nil {
		s.log.Error("failed to marshal session value", slog.String("op", op), sl.Err(err))
		return
	}
	if err := s.Db.Set(ctx, key, jsonData, s.ttl).Err(); err != nil {
		s.log.Error("failed to save session", slog.String("op", op), slog.String("key", key), sl.Err(err))
	}
}

// Get читает и десериализует слот key в result. Возвращает false, если
// слота нет либо чтение или разбор не удались; сами сбои только логируются.
func (s *Store) Get(ctx context.Context, key string, result any) bool {
	const op = "session.Get"
	val, err := s.Db.Get(ctx, key).Result()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		s.log.Error("failed to read session", slog.String("op", op), slog.String("key", key), sl.Err(err))
		return false
	}
	if err := json.Unmarshal([]byte(val), result); err != nil {
		s.log.Error("failed to unmarshal session value", slog.String("op", op), slog.String("key", key), sl.Err(err))
		return false
	}
	return true
}

// Remove удаляет слот key. Сбой удаления логируется и не возвращается.
func (s *Store) Remove(ctx context.Context, key string) {
	const op = "session.Remove"
	if err := s.Db.Del(ctx, key).Err(); err != nil {
		s.log.Error("failed to remove session", slog.String("op", op), slog.String("key", key), sl.Err(err))
	}
}
