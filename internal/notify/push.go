package notify

import (
	"context"
	"log/slog"
)

// PushMessage is one notification to a stored subscription endpoint.
type PushMessage struct {
	Endpoint string
	Title    string
	Body     string
}

// Pusher delivers push notifications. The wire transport (web push,
// FCM, APNs) is an external collaborator; this interface is all the
// backend knows about it.
type Pusher interface {
	Send(ctx context.Context, msg PushMessage) error
}

// LogPusher records deliveries instead of sending them.
type LogPusher struct {
	Logger *slog.Logger
}

func (p *LogPusher) Send(_ context.Context, msg PushMessage) error {
	p.Logger.Info("push notification (not sent)", "endpoint", msg.Endpoint, "title", msg.Title)
	return nil
}
