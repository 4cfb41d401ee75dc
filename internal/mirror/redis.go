package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"
)

const replicationTimeout = 5 * time.Second

type redisMirror struct {
	client *redis.Client
	logger logrus.FieldLogger
}

// NewRedis builds redis-backed Mirror, records are replicated
// asynchronously under {collection}/{id} keys in msgpack encoding
func NewRedis(client *redis.Client, logger logrus.FieldLogger) Mirror {
	return &redisMirror{client: client, logger: logger}
}

func (m *redisMirror) Store(collection string, id string, record any) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), replicationTimeout)
		defer cancel()

		encoded, err := msgpack.Marshal(record)
		if err != nil {
			m.logger.Errorf("mirror: failed to encode %s - %v", m.key(collection, id), err)
			return
		}

		if err := m.client.Set(ctx, m.key(collection, id), encoded, 0).Err(); err != nil {
			m.logger.Errorf("mirror: failed to replicate %s - %v", m.key(collection, id), err)
		}
	}()
}

func (m *redisMirror) Remove(collection string, id string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), replicationTimeout)
		defer cancel()

		if err := m.client.Del(ctx, m.key(collection, id)).Err(); err != nil {
			m.logger.Errorf("mirror: failed to remove %s - %v", m.key(collection, id), err)
		}
	}()
}

func (m *redisMirror) key(collection string, id string) string {
	return fmt.Sprintf("%s/%s", collection, id)
}
