package redis

import (
	"context"
	"time"

	"github.com/dom/diary-service/internal/logger"
	goredis "github.com/redis/go-redis/v9"
)

// Connect opens a client and checks the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	logger.Info("Connecting to Redis", logger.Fields{"addr": addr, "db": db})

	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	logger.Info("Connected to Redis")
	return client, nil
}
