package cache

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

var S *redis.Client

// NewStore connects the redis store. The store is optional: when no address
// is configured every helper below degrades to a miss.
func NewStore() error {
	addr := viper.GetString("redis.addr")
	if len(addr) == 0 {
		return nil
	}

	S = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return S.Ping(ctx).Err()
}

func Set(key string, value any, ttl time.Duration) {
	if S == nil {
		return
	}
	raw, err := jsoniter.Marshal(value)
	if err != nil {
		return
	}
	_ = S.Set(context.Background(), key, raw, ttl).Err()
}

func Get(key string, out any) bool {
	if S == nil {
		return false
	}
	raw, err := S.Get(context.Background(), key).Bytes()
	if err != nil {
		return false
	}
	return jsoniter.Unmarshal(raw, out) == nil
}

func Forget(keys ...string) {
	if S == nil || len(keys) == 0 {
		return
	}
	_ = S.Del(context.Background(), keys...).Err()
}
