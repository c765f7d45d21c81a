package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	postMetaKeyPrefix = "orbis:postmeta:" // Hash of meta values per post: orbis:postmeta:{post_id}
)

// MetaRepository stores post metadata as one Redis hash per post.
type MetaRepository struct {
	client *redis.Client
}

// NewMetaRepository creates a new MetaRepository
func NewMetaRepository(client *redis.Client) *MetaRepository {
	return &MetaRepository{client: client}
}

// Get returns the value of key for a post. found is false when the key is unset.
func (r *MetaRepository) Get(ctx context.Context, postID int64, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.postMetaKey(postID), key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get meta %s for post %d: %w", key, postID, err)
	}
	return v, true, nil
}

// Set upserts a single meta value.
func (r *MetaRepository) Set(ctx context.Context, postID int64, key, value string) error {
	if err := r.client.HSet(ctx, r.postMetaKey(postID), key, value).Err(); err != nil {
		return fmt.Errorf("failed to set meta %s for post %d: %w", key, postID, err)
	}
	return nil
}

// Delete removes a meta value. Deleting an unset key is not an error.
func (r *MetaRepository) Delete(ctx context.Context, postID int64, key string) error {
	if err := r.client.HDel(ctx, r.postMetaKey(postID), key).Err(); err != nil {
		return fmt.Errorf("failed to delete meta %s for post %d: %w", key, postID, err)
	}
	return nil
}

// All returns every meta value of a post.
func (r *MetaRepository) All(ctx context.Context, postID int64) (map[string]string, error) {
	m, err := r.client.HGetAll(ctx, r.postMetaKey(postID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load meta for post %d: %w", postID, err)
	}
	return m, nil
}

func (r *MetaRepository) postMetaKey(postID int64) string {
	return postMetaKeyPrefix + strconv.FormatInt(postID, 10)
}
