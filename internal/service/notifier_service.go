package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Event subjects published to the message broker. Downstream consumers
// (mailers, push gateways) subscribe to these; the API itself never blocks on
// delivery.
const (
	EventGuidanceRequested = "guidance.requested"
	EventGuidanceAccepted  = "guidance.accepted"
	EventGuidanceReplied   = "guidance.replied"
	EventReferralPosted    = "referral.posted"
	EventReferralApplied   = "referral.applied"
	EventReferralDecision  = "referral.decision"
	EventAccountModerated  = "account.moderated"
	EventAnnouncementSent  = "announcement.published"
)

// Notifier fans domain events out to the broker. Every method is best-effort:
// a broker outage is logged and swallowed so the originating transaction's
// outcome stands.
type Notifier interface {
	Notify(ctx context.Context, subject string, accountID uint, payload map[string]interface{})
}

type natsNotifier struct {
	conn        *nats.Conn
	subjectBase string
	nodeID      string
	logger      zerolog.Logger
	tracer      trace.Tracer
}

type domainEvent struct {
	Source    string                 `json:"source"`
	Subject   string                 `json:"subject"`
	AccountID uint                   `json:"account_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	SentAt    time.Time              `json:"sent_at"`
}

// NewNotifier constructs a NATS-backed notifier. A nil connection yields a
// notifier that only logs, which keeps local development broker-free.
func NewNotifier(conn *nats.Conn, subjectBase string, logger zerolog.Logger) Notifier {
	if subjectBase == "" {
		subjectBase = "clubconnect"
	}
	return &natsNotifier{
		conn:        conn,
		subjectBase: subjectBase,
		nodeID:      uuid.NewString(),
		logger:      logger.With().Str("component", "notifier").Logger(),
		tracer:      otel.Tracer("github.com/devcircle/clubconnect-api/internal/service/notifier"),
	}
}

func (n *natsNotifier) Notify(ctx context.Context, subject string, accountID uint, payload map[string]interface{}) {
	_, span := n.tracer.Start(ctx, "notifier.publish", trace.WithAttributes(
		attribute.String("event.subject", subject),
		attribute.Int64("event.account_id", int64(accountID)),
	))
	defer span.End()

	event := domainEvent{
		Source:    n.nodeID,
		Subject:   subject,
		AccountID: accountID,
		Payload:   payload,
		SentAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		n.logger.Warn().Err(err).Str("subject", subject).Msg("failed to encode domain event")
		return
	}

	if n.conn == nil {
		n.logger.Debug().Str("subject", subject).Msg("broker not configured, event dropped")
		return
	}

	if err := n.conn.Publish(n.subjectBase+"."+subject, data); err != nil {
		span.RecordError(err)
		n.logger.Warn().Err(err).Str("subject", subject).Msg("failed to publish domain event")
	}
}
