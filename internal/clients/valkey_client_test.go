package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"

	"github.com/spacesedan/sentimeter/internal/models"
)

const cachedPayload = `{"sentiment":"POSITIVE","confidence":0.91}`

func newTestValkeyClient(client valkey.Client, dial func(context.Context, ValkeyConfig) (valkey.Client, error)) *ValkeyClient {
	if dial == nil {
		dial = func(context.Context, ValkeyConfig) (valkey.Client, error) {
			return nil, errors.New("dial disabled")
		}
	}
	return &ValkeyClient{
		cfg:    ValkeyConfig{Address: "localhost:6379", TTL: time.Minute},
		dial:   dial,
		client: client,
	}
}

func TestValkeyGetResult_Hit(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	client.EXPECT().Do(gomock.Any(), mock.Match("GET", "sentiment:result:abc")).
		Return(mock.Result(mock.ValkeyString(cachedPayload)))

	result, ok := newTestValkeyClient(client, nil).GetResult(context.Background(), "sentiment:result:abc")

	require.True(t, ok)
	assert.Equal(t, models.AnalysisResult{Label: models.LabelPositive, Confidence: 0.91}, result)
}

func TestValkeyGetResult_Misses(t *testing.T) {
	tests := []struct {
		name   string
		result valkey.ValkeyResult
	}{
		{"nil reply", mock.Result(mock.ValkeyNil())},
		{"unreadable entry", mock.Result(mock.ValkeyString("not json"))},
		{"server error", mock.ErrorResult(errors.New("WRONGTYPE Operation against a key"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock.NewClient(ctrl)
			client.EXPECT().Do(gomock.Any(), mock.Match("GET", "k")).Return(tt.result).Times(1)

			_, ok := newTestValkeyClient(client, nil).GetResult(context.Background(), "k")

			assert.False(t, ok)
		})
	}
}

func TestValkeySetResult_UsesTTL(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	client.EXPECT().Do(gomock.Any(), mock.Match("SET", "k", cachedPayload, "EX", "60")).
		Return(mock.Result(mock.ValkeyString("OK")))

	newTestValkeyClient(client, nil).SetResult(context.Background(), "k",
		models.AnalysisResult{Label: models.LabelPositive, Confidence: 0.91})
}

func TestValkeyDoWithRetry_RecreatesClientOnConnectionError(t *testing.T) {
	ctrl := gomock.NewController(t)
	broken := mock.NewClient(ctrl)
	healthy := mock.NewClient(ctrl)

	broken.EXPECT().Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.ErrorResult(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
	broken.EXPECT().Close()
	healthy.EXPECT().Do(gomock.Any(), mock.Match("GET", "k")).
		Return(mock.Result(mock.ValkeyString(cachedPayload)))

	dials := 0
	vc := newTestValkeyClient(broken, func(context.Context, ValkeyConfig) (valkey.Client, error) {
		dials++
		return healthy, nil
	})

	result, ok := vc.GetResult(context.Background(), "k")

	require.True(t, ok)
	assert.Equal(t, models.LabelPositive, result.Label)
	assert.Equal(t, 1, dials)
	assert.Same(t, healthy, vc.current())
}

func TestValkeyDoWithRetry_StopsWhenContextDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock.NewClient(ctrl)
	client.EXPECT().Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("read: i/o timeout"))).Times(1)

	vc := newTestValkeyClient(client, nil)
	vc.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, ok := vc.GetResult(ctx, "k")

	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}
