// Command streamconsumer subscribes to a stream as a named consumer within
// a group, printing and acknowledging every entry it receives. One
// connection is dedicated to the subscription (Subscribe takes it over for
// the subscription's whole lifetime), so acknowledgement uses a second,
// separate connection.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	redistream "github.com/vorakit/redistream"
	"github.com/vorakit/redistream/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "streamconsumer:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Consumer == "" {
		cfg.Consumer = "consumer-" + uuid.NewString()
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	setupConn, err := redistream.Dial(ctx, cfg.RedisAddress, redistream.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	if err := redistream.NewStream(setupConn).TouchGroup(ctx, cfg.Stream, cfg.Group); err != nil {
		setupConn.Close()
		return fmt.Errorf("touch group: %w", err)
	}
	setupConn.Close()

	manager, err := redistream.Dial(ctx, cfg.RedisAddress, redistream.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("dial manager: %w", err)
	}
	defer manager.Close()
	ackStream := redistream.NewStream(manager)

	subConn, err := redistream.Dial(ctx, cfg.RedisAddress, redistream.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("dial subscriber: %w", err)
	}
	subStream := redistream.NewStream(subConn)

	group := &redistream.GroupDescriptor{Group: cfg.Group, Consumer: cfg.Consumer}
	sub, err := subStream.Subscribe(ctx, []string{cfg.Stream}, group)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer sub.Close()

	logger.Info("subscribed", zap.String("stream", cfg.Stream), zap.String("consumer", cfg.Consumer))

	for {
		entries, err := sub.Next(ctx)
		if err != nil {
			return fmt.Errorf("subscription ended: %w", err)
		}
		for _, entry := range entries {
			fmt.Printf("Received %s\n", entry.ID)
			res, err := ackStream.AckEntry(ctx, cfg.Stream, cfg.Group, entry.ID)
			if err != nil {
				logger.Warn("ack failed", zap.String("id", entry.ID.String()), zap.Error(err))
				continue
			}
			if res == redistream.AckOK {
				fmt.Printf("%s is acknowledged\n", entry.ID)
			} else {
				fmt.Printf("Couldn't acknowledge %s\n", entry.ID)
			}
		}
	}
}
