// Package progress is the one-way progress bus the core publishes stage
// updates to (spec.md §5, §9). It mirrors the teacher's
// VideoProcessor.sendProgress: a bounded local channel plus, when Redis
// is configured, a best-effort publish to a per-session channel. No
// consumer ever writes back into the core through this package.
package progress

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/alexstoesslein/silence-cutter/internal/model"
)

const channelPrefix = "silencecutter:progress:"

// busCapacity bounds the local channel so a slow or absent consumer
// never blocks the pipeline driver.
const busCapacity = 64

// Bus fans out progress updates to a local channel and, optionally, Redis.
type Bus struct {
	sessionID string
	updates   chan model.ProgressUpdate
	redis     *redis.Client
}

// New builds a progress bus for one session. redisURL may be empty, in
// which case only the local channel is populated.
func New(sessionID, redisURL string) *Bus {
	b := &Bus{
		sessionID: sessionID,
		updates:   make(chan model.ProgressUpdate, busCapacity),
	}
	if redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Printf("⚠️  invalid REDIS_URL, progress updates will stay local: %v", err)
			return b
		}
		b.redis = redis.NewClient(opts)
	}
	return b
}

// Updates returns the channel consumers should range over.
func (b *Bus) Updates() <-chan model.ProgressUpdate {
	return b.updates
}

// Publish sends an update to the local channel (dropping it if the
// channel is full, since progress reporting is best-effort) and, if
// Redis is configured, publishes it on the session's channel.
func (b *Bus) Publish(update model.ProgressUpdate) {
	select {
	case b.updates <- update:
	default:
		log.Printf("⚠️  progress channel full, dropping update for stage %s", update.Stage)
	}

	if b.redis == nil {
		return
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return
	}
	if err := b.redis.Publish(context.Background(), channelPrefix+b.sessionID, payload).Err(); err != nil {
		log.Printf("⚠️  failed to publish progress to redis: %v", err)
	}
}

// Close releases the bus's channel and redis client.
func (b *Bus) Close() {
	close(b.updates)
	if b.redis != nil {
		b.redis.Close()
	}
}
