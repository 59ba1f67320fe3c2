package infra_play_counter

import (
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"
)

// Driver counts mini-game plays per user per day. Keys carry the date, so
// a counter expires on its own shortly after midnight rolls it out of use.
type Driver struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

func New(
	client *redis.Client,
	key string,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
		now:    time.Now,
	}
}

func (d *Driver) Bump(userID uuid.UUID, game string) (int, error) {
	fullKey := d.fullKey(userID, game)

	count, err := d.client.Incr(fullKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		// First play today sets the expiry.
		if err := d.client.Expire(fullKey, 48*time.Hour).Err(); err != nil {
			return 0, err
		}
	}
	return int(count), nil
}

func (d *Driver) Refund(userID uuid.UUID, game string) error {
	return d.client.Decr(d.fullKey(userID, game)).Err()
}

func (d *Driver) fullKey(userID uuid.UUID, game string) string {
	day := d.now().UTC().Format("2006-01-02")
	return d.key + ":" + day + ":" + userID.String() + ":" + game
}
