package securityevents

import (
	"context"
	"encoding/json"
	"time"

	"passreset/internal/core/domain/audit"
	e "passreset/internal/core/domain/errors"
	"passreset/internal/core/domain/logging"
	"passreset/internal/rabbitmq"

	"github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes audit events to a topic exchange, one routing key per
// event kind. Payloads carry provenance only, never token values.
type RabbitMQ struct {
	log      logging.Logger
	channel  *rabbitmq.Channel
	exchange string
}

func NewRabbitMQ(log logging.Logger, channel *rabbitmq.Channel, exchange string) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange}
}

type eventMessage struct {
	Kind             string    `json:"kind"`
	UserID           int64     `json:"userId,omitempty"`
	RequestIP        string    `json:"requestIp,omitempty"`
	RequestUserAgent string    `json:"requestUserAgent,omitempty"`
	At               time.Time `json:"at"`
	PurgedCount      int64     `json:"purgedCount,omitempty"`
}

func (p *RabbitMQ) Record(ctx context.Context, event audit.Event) error {
	body, err := json.Marshal(eventMessage{
		Kind:             string(event.Kind),
		UserID:           int64(event.UserID),
		RequestIP:        event.RequestIP,
		RequestUserAgent: event.RequestUserAgent,
		At:               event.At,
		PurgedCount:      event.PurgedCount,
	})
	if err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, string(event.Kind), false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		p.log.Error(
			ctx,
			"Could not publish AMQP message.",
			logging.Entry("exchange", p.exchange),
			logging.Entry("kind", event.Kind),
			logging.Entry("err", err),
		)
		return err
	}
	p.log.Debug(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", p.exchange),
		logging.Entry("kind", event.Kind),
	)
	return nil
}
