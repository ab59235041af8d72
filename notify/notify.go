package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	awspkg "catalog-admin/pkg/aws"

	"go.uber.org/zap"
)

// Notice is a toast shown to the user.
type Notice struct {
	Message string `json:"message"`
}

// Notifier delivers notices. Delivery failures are logged, never returned,
// because a notice must not turn a successful mutation into a failure.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Collector keeps the notices raised while handling one request.
type Collector struct {
	mu      sync.Mutex
	notices []Notice
}

func NewCollector() *Collector {
	return &Collector{notices: []Notice{}}
}

func (c *Collector) Notify(ctx context.Context, n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notices = append(c.notices, n)
}

func (c *Collector) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice{}, c.notices...)
}

// SNSNotifier publishes notices to a topic so other consoles can show them.
type SNSNotifier struct {
	publisher awspkg.SNSPublisher
	topicArn  string
	source    string
}

func NewSNSNotifier(publisher awspkg.SNSPublisher, topicArn, source string) *SNSNotifier {
	return &SNSNotifier{publisher: publisher, topicArn: topicArn, source: source}
}

type snsEvent struct {
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *SNSNotifier) Notify(ctx context.Context, n Notice) {
	body, err := json.Marshal(snsEvent{
		Type:      "notify",
		Source:    s.source,
		Message:   n.Message,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		zap.L().Warn("Failed to marshal notice", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, s.topicArn, body); err != nil {
		zap.L().Warn("Failed to publish notice", zap.String("topic", s.topicArn), zap.Error(err))
	}
}

// Fanout sends every notice to each notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notice) {
	for _, target := range f {
		if target != nil {
			target.Notify(ctx, n)
		}
	}
}
