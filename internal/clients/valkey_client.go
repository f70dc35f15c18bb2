package clients

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

var (
	valkeyInstance *ValkeyClient
	valkeyOnce     sync.Once
)

type ValkeyClient struct {
	Client valkey.Client
}

const VALKEY_FLAGGED_KEY = "reddit:flagged_threads"

func InitValkey() *ValkeyClient {
	valkeyOnce.Do(func() {
		opts := valkey.ClientOption{
			InitAddress:      []string{os.Getenv("VALKEY_INIT_ADDRESS")},
			Password:         os.Getenv("VALKEY_PASSWORD"),
			ConnWriteTimeout: 5 * time.Second,
			SelectDB:         0,
		}

		client, err := valkey.NewClient(opts)
		if err != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err))
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
		defer cancel()

		if c := client.Do(ctx, client.B().Ping().Build()); c.Error() != nil {
			panic(fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", c.Error()))
		}

		slog.Info("[ValkeyClient] Successfully connected to valkey")
		valkeyInstance = &ValkeyClient{Client: client}
	})
	return valkeyInstance
}

func GetValkeyClient() *ValkeyClient {
	if valkeyInstance == nil {
		panic("[ValkeyClient] Error: Valkey client is not initialized")
	}
	return valkeyInstance
}

func CloseValkey() {
	if valkeyInstance != nil {
		valkeyInstance.Client.Close()
	}
}

// MarkFlagged records a thread id as already flagged so the stream does not
// emit the same violation twice within a day.
func (vc *ValkeyClient) MarkFlagged(ctx context.Context, threadID string) error {
	completed := []valkey.Completed{
		vc.Client.B().Sadd().Key(VALKEY_FLAGGED_KEY).Member(threadID).Build(),
		vc.Client.B().Expire().Key(VALKEY_FLAGGED_KEY).Seconds(86400).Build(),
	}

	for _, res := range vc.Client.DoMulti(ctx, completed...) {
		if err := res.Error(); err != nil {
			return err
		}
	}
	return nil
}

func (vc *ValkeyClient) IsFlagged(ctx context.Context, threadID string) bool {
	res := vc.doWithRetry(ctx, vc.Client.B().Sismember().Key(VALKEY_FLAGGED_KEY).Member(threadID).Build(), 3)

	ok, err := res.AsBool()
	if err != nil {
		return false
	}
	return ok
}

func (vc *ValkeyClient) doWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}
