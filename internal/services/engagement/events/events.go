// Package events carries engagement traffic over jetstream
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	perr "quotewall/internal/platform/errors"
	"quotewall/internal/services/engagement/domain"

	"github.com/nats-io/nats.go"
)

// StreamName is the jetstream stream holding engagement events
const StreamName = "ENGAGEMENT"

// Subjects per engagement kind
const (
	SubjectLikes = "engagement.likes"
	SubjectSaves = "engagement.saves"
)

// Subject maps a kind to its stream subject
func Subject(kind domain.Kind) string {
	if kind == domain.KindSave {
		return SubjectSaves
	}
	return SubjectLikes
}

// Durable returns the consumer name the reconciler binds for a kind
func Durable(kind domain.Kind) string { return "feed-reconciler-" + string(kind) }

// EnsureStream creates the engagement stream if it does not exist
// retries a few times so startup races with the nats server settle
func EnsureStream(ctx context.Context, js nats.JetStreamContext) error {
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		_, err = js.StreamInfo(StreamName)
		if err == nil {
			return nil
		}
		if errors.Is(err, nats.ErrStreamNotFound) {
			_, err = js.AddStream(&nats.StreamConfig{
				Name:      StreamName,
				Subjects:  []string{SubjectLikes, SubjectSaves},
				Retention: nats.LimitsPolicy,
				Storage:   nats.FileStorage,
			})
			if err == nil {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 500 * time.Millisecond):
		}
	}
	return perr.Wrap(err, perr.ErrorCodeUnavailable, "ensure engagement stream")
}

// Publisher pushes engagement events onto the stream
type Publisher struct {
	js nats.JetStreamContext
}

// NewPublisher builds a Publisher; a nil context yields nil (queue down)
func NewPublisher(js nats.JetStreamContext) *Publisher {
	if js == nil {
		return nil
	}
	return &Publisher{js: js}
}

// HeaderKey carries the (user, quote) pair on the message for tracing
const HeaderKey = "Engagement-Key"

// Publish marshals and sends one event, waiting for the stream ack
func (p *Publisher) Publish(ctx context.Context, ev domain.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "marshal engagement event")
	}
	msg := &nats.Msg{
		Subject: Subject(ev.Kind),
		Data:    b,
		Header:  nats.Header{HeaderKey: []string{ev.Key()}},
	}
	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "publish engagement event")
	}
	return nil
}

// Decode parses one event off the wire
func Decode(data []byte) (domain.Event, error) {
	var ev domain.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return domain.Event{}, perr.Wrap(err, perr.ErrorCodeJSON, "decode engagement event")
	}
	return ev, nil
}
