package relations

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the hash holding the dictionary when no key is configured.
const DefaultRedisKey = "deptreeRelations"

// fieldSep separates the two POS tags inside a hash field name.
const fieldSep = "\t"

// RedisStore keeps the dictionary in one Redis hash: field "headPOS\tdepPOS",
// value a JSON array of labels. Write replaces the whole hash in a transaction.
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps client; an empty key selects DefaultRedisKey.
func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}

	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) String() string { return "redis:" + s.key }

// Write replaces the hash with snap. An empty snapshot only deletes the key,
// so a later Read reports ErrDictionaryMissing.
func (s *RedisStore) Write(ctx context.Context, snap map[Key][]string) error {
	values := make(map[string]any, len(snap))
	for k, labels := range snap {
		raw, err := json.Marshal(labels)
		if err != nil {
			return err
		}
		values[k.Head+fieldSep+k.Dep] = string(raw)
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(values) > 0 {
		pipe.HSet(ctx, s.key, values)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis write %s: %w", s.key, err)
	}

	return nil
}

// Read loads the hash. A missing key is ErrDictionaryMissing.
func (s *RedisStore) Read(ctx context.Context) (map[Key][]string, error) {
	raw, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis read %s: %w", s.key, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: redis key %s", ErrDictionaryMissing, s.key)
	}
	snap := make(map[Key][]string, len(raw))
	for field, val := range raw {
		head, dep, ok := strings.Cut(field, fieldSep)
		if !ok {
			return nil, fmt.Errorf("redis read %s: malformed field %q", s.key, field)
		}
		var labels []string
		if err := json.Unmarshal([]byte(val), &labels); err != nil {
			return nil, fmt.Errorf("redis read %s field %q: %w", s.key, field, err)
		}
		snap[Key{Head: head, Dep: dep}] = labels
	}

	return snap, nil
}
