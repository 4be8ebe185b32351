package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/boardside/kilterboard-backend/internal/platform/logger"
	"github.com/boardside/kilterboard-backend/internal/realtime"
)

// WallBus fans lighting frames out to LED controllers listening per board.
type WallBus interface {
	Publish(ctx context.Context, frame realtime.WallFrame) error
	StartForwarder(ctx context.Context, boardName string, onFrame func(f realtime.WallFrame)) error
	Close() error
}

type wallBus struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewWallBus wraps an optional Redis client. With a nil client Publish is a
// no-op so a problem can still be lit locally when Redis is down.
func NewWallBus(rdb *goredis.Client, baseLog *logger.Logger) WallBus {
	return &wallBus{
		log: baseLog.With("service", "WallBus"),
		rdb: rdb,
	}
}

func wallChannel(boardName string) string {
	return "wall:" + boardName
}

func (b *wallBus) Publish(ctx context.Context, frame realtime.WallFrame) error {
	if b.rdb == nil {
		return nil
	}
	raw, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, wallChannel(frame.BoardName), raw).Err()
}

func (b *wallBus) StartForwarder(ctx context.Context, boardName string, onFrame func(f realtime.WallFrame)) error {
	if b.rdb == nil {
		return fmt.Errorf("wall bus has no redis client")
	}
	if onFrame == nil {
		return fmt.Errorf("onFrame callback required")
	}

	sub := b.rdb.Subscribe(ctx, wallChannel(boardName))

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var frame realtime.WallFrame
				if err := json.Unmarshal([]byte(m.Payload), &frame); err != nil {
					b.log.Warn("bad wall frame payload", "error", err)
					continue
				}
				onFrame(frame)
			}
		}
	}()

	return nil
}

func (b *wallBus) Close() error {
	if b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
