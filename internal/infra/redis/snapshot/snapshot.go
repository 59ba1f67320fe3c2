package infra_balance_snapshot

import (
	"strconv"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"
)

// Driver keeps the balance a player had when they entered a room. SetNX
// gives the capture-once semantics: the first write per (user, room) wins
// and later observations never refresh it.
type Driver struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func New(
	client *redis.Client,
	key string,
	ttl time.Duration,
) *Driver {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Driver{
		client: client,
		key:    key,
		ttl:    ttl,
	}
}

func (d *Driver) Capture(userID, roomID uuid.UUID, points int) error {
	return d.client.SetNX(d.fullKey(userID, roomID), points, d.ttl).Err()
}

func (d *Driver) Get(userID, roomID uuid.UUID) (int, bool, error) {
	val, err := d.client.Get(d.fullKey(userID, roomID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}

	points, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, err
	}
	return points, true, nil
}

func (d *Driver) Clear(userID, roomID uuid.UUID) error {
	return d.client.Del(d.fullKey(userID, roomID)).Err()
}

func (d *Driver) fullKey(userID, roomID uuid.UUID) string {
	return d.key + ":" + userID.String() + ":" + roomID.String()
}
