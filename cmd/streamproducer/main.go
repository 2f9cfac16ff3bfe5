// Command streamproducer reads lines from stdin and appends each one as a
// stream entry: it ensures the consumer group exists (ignoring BUSYGROUP),
// then loops, sending one XADD per line of input.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	redistream "github.com/vorakit/redistream"
	"github.com/vorakit/redistream/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "streamproducer:", err)
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

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	groupConn, err := redistream.Dial(ctx, cfg.RedisAddress, redistream.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	// Create the group if it does not exist yet; ignore an error if it does.
	if err := redistream.NewStream(groupConn).TouchGroup(ctx, cfg.Stream, cfg.Group); err != nil {
		logger.Warn("touch_group failed, continuing anyway", zap.Error(err))
	}
	groupConn.Close()

	conn, err := redistream.Dial(ctx, cfg.RedisAddress, redistream.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	stream := redistream.NewStream(conn)

	fmt.Println("Please enter a message")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := map[string]string{"type": "Message", "data": line}
		id, err := stream.SendEntry(ctx, cfg.Stream, nil, fields)
		if err != nil {
			return fmt.Errorf("send entry: %w", err)
		}
		fmt.Printf("%s has sent\n", id)
		fmt.Println("Please enter a message")
	}
	return scanner.Err()
}
