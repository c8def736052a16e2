package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a quiz's student-facing payload
func (r *CacheKeyStruct) QuizPayloadKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:payload", quizID)
}

// BatchProgressChannel returns the Redis PubSub channel for an image batch
func (r *CacheKeyStruct) BatchProgressChannel(batchID string) string {
	return fmt.Sprintf("batch:%s:progress", batchID)
}

// DailyGenerationLockKey returns the lock key guarding daily task generation for a date
func (r *CacheKeyStruct) DailyGenerationLockKey(date string) string {
	return fmt.Sprintf("daily_tasks:%s:generation_lock", date)
}

var CacheKey = NewCacheKeyStruct()
