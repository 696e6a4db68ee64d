package scheduler

import (
	"context"
	"errors"
	"time"

	"storefront_backend/platform/config"
	"storefront_backend/platform/redisconn"

	"github.com/hibiken/asynq"
)

// refreshUniqueWindow collapses bursts of admin edits into one refresh.
const refreshUniqueWindow = 30 * time.Second

type Client struct {
	client *asynq.Client
	queue  string
}

// ListingRefresher enqueues a rebuild of the cached storefront listings.
type ListingRefresher interface {
	EnqueueListingRefresh(ctx context.Context, payload ListingRefreshPayload) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	opt, err := redisClientOpt(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queueName(cfg),
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueListingRefresh schedules a refresh. A refresh already pending inside
// the uniqueness window absorbs the request.
func (c *Client) EnqueueListingRefresh(ctx context.Context, payload ListingRefreshPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewListingRefreshTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, refreshOptions(c.queue)...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	return err
}

func refreshOptions(queue string) []asynq.Option {
	return []asynq.Option{
		asynq.Queue(queue),
		asynq.Unique(refreshUniqueWindow),
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
	}
}

func queueName(cfg config.SchedulerConfig) string {
	if queue := cfg.GetAsynqQueueName(); queue != "" {
		return queue
	}
	return "default"
}

func redisClientOpt(cfg config.RedisConfig) (asynq.RedisClientOpt, error) {
	opt, err := redisconn.Options(cfg)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Username:  opt.Username,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
