package vote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// FileSessionStore keeps one JSON file per resume under dir/session.
type FileSessionStore struct {
	dir string
}

func NewFileSessionStore(dir, session string) *FileSessionStore {
	return &FileSessionStore{dir: filepath.Join(dir, filepath.Base(session))}
}

func (s *FileSessionStore) path(resumeID string) string {
	return filepath.Join(s.dir, "interactions-"+filepath.Base(resumeID)+".json")
}

func (s *FileSessionStore) Load(_ context.Context, resumeID string) (map[string]Interaction, error) {
	data, err := os.ReadFile(s.path(resumeID))
	if errors.Is(err, os.ErrNotExist) {
		return map[string]Interaction{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeInteractions(data)
}

// Save overwrites the stored map through a rename so readers never see a
// partial file.
func (s *FileSessionStore) Save(_ context.Context, resumeID string, interactions map[string]Interaction) error {
	data, err := json.Marshal(interactions)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".interactions-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(resumeID))
}

// RedisSessionStore keeps the map under interactions:{session}:{resume}. Keys
// expire ttl after the last save.
type RedisSessionStore struct {
	client  *redis.Client
	session string
	ttl     time.Duration
}

func NewRedisSessionStore(client *redis.Client, session string, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, session: session, ttl: ttl}
}

func (s *RedisSessionStore) key(resumeID string) string {
	return fmt.Sprintf("interactions:%s:%s", s.session, resumeID)
}

func (s *RedisSessionStore) Load(ctx context.Context, resumeID string) (map[string]Interaction, error) {
	data, err := s.client.Get(ctx, s.key(resumeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return map[string]Interaction{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeInteractions(data)
}

func (s *RedisSessionStore) Save(ctx context.Context, resumeID string, interactions map[string]Interaction) error {
	data, err := json.Marshal(interactions)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(resumeID), data, s.ttl).Err()
}

func decodeInteractions(data []byte) (map[string]Interaction, error) {
	out := map[string]Interaction{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode interactions: %w", err)
	}
	if out == nil {
		out = map[string]Interaction{}
	}
	return out, nil
}
