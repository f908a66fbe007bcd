package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/spacesedan/sentimeter/internal/models"
)

const (
	valkeyRetries = 3
	valkeyBackoff = 100 * time.Millisecond
)

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
}

func (c ValkeyConfig) Enabled() bool {
	return c.Address != ""
}

// ValkeyClient caches analysis results. Cache failures are logged and reported as misses.
type ValkeyClient struct {
	cfg     ValkeyConfig
	dial    func(ctx context.Context, cfg ValkeyConfig) (valkey.Client, error)
	backoff time.Duration

	mu     sync.Mutex
	client valkey.Client
}

func InitValkey(ctx context.Context, cfg ValkeyConfig) (*ValkeyClient, error) {
	client, err := newValkeyClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey", slog.String("address", cfg.Address))
	return &ValkeyClient{cfg: cfg, dial: newValkeyClient, backoff: valkeyBackoff, client: client}, nil
}

func newValkeyClient(ctx context.Context, cfg ValkeyConfig) (valkey.Client, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) current() valkey.Client {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	return vc.client
}

// recreateClient dials outside the lock and swaps the client in only if nobody else replaced
// the broken one meanwhile.
func (vc *ValkeyClient) recreateClient(ctx context.Context, broken valkey.Client) {
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")
	client, err := vc.dial(ctx, vc.cfg)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}

	vc.mu.Lock()
	if vc.client != broken {
		vc.mu.Unlock()
		client.Close()
		return
	}
	vc.client = client
	vc.mu.Unlock()

	broken.Close()
	slog.Info("[ValkeyClient] Valkey client recreated")
}

func (vc *ValkeyClient) GetResult(ctx context.Context, key string) (models.AnalysisResult, bool) {
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(key).Build()
	}, valkeyRetries)

	raw, err := res.AsBytes()
	if err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ValkeyClient] Cache lookup failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return models.AnalysisResult{}, false
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		slog.Warn("[ValkeyClient] Discarding unreadable cache entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return models.AnalysisResult{}, false
	}
	return result, true
}

func (vc *ValkeyClient) SetResult(ctx context.Context, key string, result models.AnalysisResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		slog.Warn("[ValkeyClient] Failed to marshal result", slog.String("error", err.Error()))
		return
	}

	ttl := int64(vc.cfg.TTL.Seconds())
	res := vc.DoWithRetry(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Set().Key(key).Value(string(payload)).ExSeconds(ttl).Build()
	}, valkeyRetries)
	if err := res.Error(); err != nil {
		slog.Warn("[ValkeyClient] Failed to cache result",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// DoWithRetry builds a fresh command for every attempt, commands are recycled once sent. Only
// connection errors are retried, and never past the caller's context.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		client := vc.current()
		result = client.Do(ctx, build(client))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) || !isConnectionError(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		if i == retries-1 {
			break
		}
		vc.recreateClient(ctx, client)

		select {
		case <-ctx.Done():
			return result
		case <-time.After(vc.backoff):
		}
	}

	return result
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	client := vc.current()
	return client.Do(ctx, client.B().Ping().Build()).Error()
}

func (vc *ValkeyClient) Close() {
	vc.current().Close()
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
