package clipboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = time.Hour

// Redis keeps one clipboard per owner under clip:<owner> so several editor
// sessions of the same user share copied FEN text.
type Redis struct {
	rdb   *redis.Client
	owner string
	ttl   time.Duration
}

func NewRedis(rdb *redis.Client, owner string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Redis{rdb: rdb, owner: strings.TrimSpace(owner), ttl: ttl}
}

// ForOwner returns a clipboard sharing the same client for another owner.
func (r *Redis) ForOwner(owner string) *Redis {
	return NewRedis(r.rdb, owner, r.ttl)
}

func (r *Redis) key() string { return "clip:" + r.owner }

func (r *Redis) ReadText(ctx context.Context) (string, error) {
	s, err := r.rdb.Get(ctx, r.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return s, nil
}

func (r *Redis) WriteText(ctx context.Context, text string) error {
	if err := r.rdb.Set(ctx, r.key(), text, r.ttl).Err(); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

// ParseRedisURL converts redis://[:password@]host[:port][/db] to client options.
func ParseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("missing redis host")
	}
	port := u.Port()
	if port == "" {
		port = "6379"
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("bad redis db %q", p)
		}
		db = n
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: host + ":" + port, Password: pass, DB: db}, nil
}
