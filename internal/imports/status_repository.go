package imports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const runStatusPrefix = "import_run:"

var ErrRunNotFound = errors.New("import run not found")

type StatusRepository interface {
	Save(ctx context.Context, status RunStatus) error
	Get(ctx context.Context, runID string) (*RunStatus, error)
}

type statusRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatusRepository(client *redis.Client, ttl time.Duration) StatusRepository {
	return &statusRepository{client: client, ttl: ttl}
}

func (r *statusRepository) Save(ctx context.Context, status RunStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal run status: %w", err)
	}

	if err := r.client.Set(ctx, runStatusPrefix+status.RunID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store run status: %w", err)
	}
	return nil
}

func (r *statusRepository) Get(ctx context.Context, runID string) (*RunStatus, error) {
	data, err := r.client.Get(ctx, runStatusPrefix+runID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run status: %w", err)
	}

	var status RunStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run status: %w", err)
	}
	return &status, nil
}
