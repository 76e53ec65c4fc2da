package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quizsalon/internal/domain/quiz"
	"quizsalon/internal/infra/logger"
	"quizsalon/internal/ports"

	"github.com/redis/go-redis/v9"
)

// RedisQuestionCache guarda em Redis o conjunto de perguntas de cada nível.
// Só FindByDifficulty é cacheado; as flags de correção sempre vêm do banco.
// Falhas do Redis nunca impedem a partida: o banco é consultado diretamente.
type RedisQuestionCache struct {
	ports.QuestionRepository
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisQuestionCache(inner ports.QuestionRepository, client redis.Cmdable, ttl time.Duration) *RedisQuestionCache {
	return &RedisQuestionCache{QuestionRepository: inner, client: client, ttl: ttl}
}

func questionsKey(difficulty int) string {
	return fmt.Sprintf("quizsalon:questions:%d", difficulty)
}

// FindByDifficulty lê do cache e, em caso de miss, do repositório interno.
func (c *RedisQuestionCache) FindByDifficulty(ctx context.Context, difficulty int) ([]quiz.Question, error) {
	key := questionsKey(difficulty)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []quiz.Question
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		logger.Warn("Cache de perguntas corrompido, ignorando", "chave", key)
	case !errors.Is(err, redis.Nil):
		logger.Warn("Redis indisponível, lendo perguntas do banco", "erro", err)
	}

	questions, err := c.QuestionRepository.FindByDifficulty(ctx, difficulty)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return questions, nil
	}

	payload, err := json.Marshal(questions)
	if err != nil {
		return questions, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warn("Falha ao gravar cache de perguntas", "erro", err)
	}
	return questions, nil
}

// Invalidate remove o conjunto cacheado de um nível.
func (c *RedisQuestionCache) Invalidate(ctx context.Context, difficulty int) error {
	return c.client.Del(ctx, questionsKey(difficulty)).Err()
}
