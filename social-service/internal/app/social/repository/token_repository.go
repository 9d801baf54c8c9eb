package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"signalidea/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

type redisTokenRepository struct {
	client *redis.Client
}

// NewRedisTokenRepository - refresh токены и blacklist access токенов в Redis с TTL
func NewRedisTokenRepository(client *redis.Client) TokenRepository {
	return &redisTokenRepository{client: client}
}

func refreshKey(token string) string     { return fmt.Sprintf("refresh_token:%s", token) }
func userTokensKey(userID string) string { return fmt.Sprintf("user_tokens:%s", userID) }
func blacklistKey(token string) string   { return fmt.Sprintf("blacklist:%s", token) }

// SaveRefreshToken сохраняет userID по ключу токена и добавляет токен в множество токенов пользователя
func (r *redisTokenRepository) SaveRefreshToken(ctx context.Context, userID string, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token already expired")
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	err := r.client.Set(ctx, refreshKey(token), userID, ttl).Err()
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to save refresh token to Redis: %w", err)
	}

	setTimer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSAdd)
	err = r.client.SAdd(ctx, userTokensKey(userID), token).Err()
	setTimer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to add token to user tokens set: %w", err)
	}

	r.client.Expire(ctx, userTokensKey(userID), ttl)

	return nil
}

// GetRefreshToken возвращает владельца refresh токена
func (r *redisTokenRepository) GetRefreshToken(ctx context.Context, token string) (string, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpGet)
	userID, err := r.client.Get(ctx, refreshKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		timer.Done(nil)
		return "", ErrRefreshNotFound
	}
	timer.Done(err)
	if err != nil {
		return "", fmt.Errorf("failed to get refresh token from Redis: %w", err)
	}

	return userID, nil
}

func (r *redisTokenRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	userID, err := r.client.Get(ctx, refreshKey(token)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to get user ID for token: %w", err)
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	err = r.client.Del(ctx, refreshKey(token)).Err()
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token from Redis: %w", err)
	}

	if userID != "" {
		r.client.SRem(ctx, userTokensKey(userID), token)
	}

	return nil
}

// DeleteUserRefreshTokens отзывает все refresh токены пользователя (выход со всех устройств)
func (r *redisTokenRepository) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	tokens, err := r.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to get user tokens: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, refreshKey(token))
	}
	keys = append(keys, userTokensKey(userID))

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpDel)
	err = r.client.Del(ctx, keys...).Err()
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to delete user tokens: %w", err)
	}

	return nil
}

func (r *redisTokenRepository) AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// истекший токен и так не пройдет проверку
		return nil
	}

	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpSet)
	err := r.client.Set(ctx, blacklistKey(token), "1", ttl).Err()
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

func (r *redisTokenRepository) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	timer := metrics.NewRedisTimer(serviceName, metrics.RedisOpExists)
	exists, err := r.client.Exists(ctx, blacklistKey(token)).Result()
	timer.Done(err)
	if err != nil {
		return false, fmt.Errorf("failed to check if token is blacklisted: %w", err)
	}

	return exists > 0, nil
}
