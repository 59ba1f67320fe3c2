package infra_session_cache

import (
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/uuid"

	service_checkin "github.com/rankingdocopo/core/internal/service/checkin"
)

// Driver is the check-in session store: token -> user and venue, expiring
// with the visit. Keys share a prefix so sessions can be flushed without
// touching the other caches on the same instance.
type Driver struct {
	client *redis.Client
	key    string
}

func New(
	client *redis.Client,
	key string,
) *Driver {
	return &Driver{
		client: client,
		key:    key,
	}
}

func (d *Driver) Save(token string, session service_checkin.Session, ttl time.Duration) error {
	value := session.UserID.String() + ":" + session.VenueID.String()
	return d.client.Set(d.fullKey(token), value, ttl).Err()
}

func (d *Driver) Lookup(token string) (service_checkin.Session, bool, error) {
	val, err := d.client.Get(d.fullKey(token)).Result()
	if err != nil {
		if err == redis.Nil {
			return service_checkin.Session{}, false, nil
		}
		return service_checkin.Session{}, false, err
	}

	userRaw, venueRaw, found := strings.Cut(val, ":")
	if !found {
		return service_checkin.Session{}, false, errors.New("malformed session entry")
	}
	userID, err := uuid.Parse(userRaw)
	if err != nil {
		return service_checkin.Session{}, false, err
	}
	venueID, err := uuid.Parse(venueRaw)
	if err != nil {
		return service_checkin.Session{}, false, err
	}

	return service_checkin.Session{UserID: userID, VenueID: venueID}, true, nil
}

func (d *Driver) fullKey(token string) string {
	if d.key != "" {
		return d.key + ":" + token
	}
	return token
}
