package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/talentvote/backend/internal/dto"
)

const (
	systemTotalKey    = "system:total_votes"
	entrantKeyPattern = "entrant:*:votes"
)

// CounterRepository keeps the fast aggregate tallies: one counter per entrant
// plus the system-wide total. Counters are a cache derived from the ledger;
// only the admission engine increments them and only reconciliation rewrites
// them wholesale.
type CounterRepository interface {
	Increment(ctx context.Context, entrantID string) (entrantTotal int64, systemTotal int64, err error)
	TotalFor(ctx context.Context, entrantID string) (int64, error)
	SystemTotal(ctx context.Context) (int64, error)
	AllTotals(ctx context.Context) (map[string]int64, error)
	SetTotal(ctx context.Context, entrantID string, total int64) error
	SetSystemTotal(ctx context.Context, total int64) error
	ClearAll(ctx context.Context) error
}

type counter struct {
	rdb *redis.Client
}

func newCounterRepository(rdb *redis.Client) CounterRepository {
	return &counter{
		rdb: rdb,
	}
}

func entrantKey(entrantID string) string {
	return fmt.Sprintf("entrant:%s:votes", entrantID)
}

// Increment bumps the entrant counter and the system total in one pipeline.
// Redis INCR is atomic per key, so concurrent admissions never lose updates.
func (c *counter) Increment(ctx context.Context, entrantID string) (int64, int64, error) {
	pipe := c.rdb.TxPipeline()
	entrantCmd := pipe.Incr(ctx, entrantKey(entrantID))
	systemCmd := pipe.Incr(ctx, systemTotalKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}

	return entrantCmd.Val(), systemCmd.Val(), nil
}

func (c *counter) TotalFor(ctx context.Context, entrantID string) (int64, error) {
	total, err := c.rdb.Get(ctx, entrantKey(entrantID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}

	return total, nil
}

func (c *counter) SystemTotal(ctx context.Context) (int64, error) {
	total, err := c.rdb.Get(ctx, systemTotalKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}

	return total, nil
}

func (c *counter) AllTotals(ctx context.Context) (map[string]int64, error) {
	totals := make(map[string]int64)

	iter := c.rdb.Scan(ctx, 0, entrantKeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		entrantID := key[len("entrant:") : len(key)-len(":votes")]

		total, err := c.rdb.Get(ctx, key).Int64()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
		}
		totals[entrantID] = total
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}

	return totals, nil
}

func (c *counter) SetTotal(ctx context.Context, entrantID string, total int64) error {
	if err := c.rdb.Set(ctx, entrantKey(entrantID), total, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
	return nil
}

func (c *counter) SetSystemTotal(ctx context.Context, total int64) error {
	if err := c.rdb.Set(ctx, systemTotalKey, total, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
	return nil
}

// ClearAll deletes every entrant counter and the system total in a single DEL
// so readers never observe a half-cleared state.
func (c *counter) ClearAll(ctx context.Context) error {
	keys := []string{systemTotalKey}

	iter := c.rdb.Scan(ctx, 0, entrantKeyPattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", dto.ErrInternalFailure, err)
	}
	return nil
}
