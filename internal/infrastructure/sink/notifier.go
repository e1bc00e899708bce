package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/planhub-io/planhub/internal/application/subscription/usecases"
	"github.com/planhub-io/planhub/internal/domain/subscription"
	"github.com/planhub-io/planhub/internal/shared/logger"
)

// HookEvent is the wire format published for every triggered hook.
type HookEvent struct {
	Hook      string         `json:"hook"`
	Scope     string         `json:"scope"`
	ScopeID   string         `json:"scope_id"`
	Params    map[string]any `json:"params,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// RedisNotifier publishes hook events on a Redis pub/sub channel so hook
// consumers in other processes can react to lifecycle transitions.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisNotifier(client *redis.Client, channel string, logger logger.Interface) usecases.Notifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (n *RedisNotifier) Trigger(ctx context.Context, hook subscription.Hook, scope subscription.ScopeKind, scopeID string, params map[string]any) {
	event := HookEvent{
		Hook:      string(hook),
		Scope:     string(scope),
		ScopeID:   scopeID,
		Params:    params,
		Timestamp: time.Now().Unix(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warnw("failed to marshal hook event", "error", err, "hook", hook)
		return
	}

	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		n.logger.Warnw("failed to publish hook event",
			"error", err,
			"hook", hook,
			"scope", scope,
			"scope_id", scopeID)
	}
}

// NoopNotifier drops every hook. Used when Redis is disabled.
type NoopNotifier struct{}

func NewNoopNotifier() usecases.Notifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) Trigger(ctx context.Context, hook subscription.Hook, scope subscription.ScopeKind, scopeID string, params map[string]any) {
}
