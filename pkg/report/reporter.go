// Package report ships classified client errors to Kafka so failures seen by
// users can be aggregated server side.
package report

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Goden-Gun/diary-client/pkg/apierr"
	"github.com/Goden-Gun/diary-client/pkg/codes"
	"github.com/Goden-Gun/diary-client/pkg/logger"
)

// Publisher is satisfied by *Manager.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// Event is the JSON document published for each reported error.
type Event struct {
	ID               string            `json:"id"`
	NodeID           string            `json:"node_id,omitempty"`
	OccurredAt       time.Time         `json:"occurred_at"`
	Context          string            `json:"context"`
	Kind             codes.Kind        `json:"kind"`
	RawCode          string            `json:"raw_code,omitempty"`
	Message          string            `json:"message"`
	Status           int               `json:"status,omitempty"`
	ValidationFields map[string]string `json:"validation_fields,omitempty"`
}

// Reporter classifies errors and publishes them keyed by kind.
type Reporter struct {
	publisher Publisher
	topic     string
	nodeID    string
	now       func() time.Time
}

// NewReporter returns a reporter writing to topic; an empty topic uses the
// publisher's default.
func NewReporter(publisher Publisher, topic string) *Reporter {
	return &Reporter{publisher: publisher, topic: topic, now: time.Now}
}

// SetNodeID tags every event with the reporting host.
func (r *Reporter) SetNodeID(id string) {
	r.nodeID = id
}

// Report publishes err. Nil errors and a nil reporter are ignored.
func (r *Reporter) Report(ctx context.Context, context string, err error) error {
	if r == nil || r.publisher == nil || err == nil {
		return nil
	}
	ce := apierr.Classify(err)
	if context == "" {
		context = "Error"
	}
	event := Event{
		ID:               uuid.NewString(),
		NodeID:           r.nodeID,
		OccurredAt:       r.now().UTC(),
		Context:          context,
		Kind:             ce.Kind,
		RawCode:          ce.RawCode,
		Message:          ce.Message,
		Status:           ce.StatusCode,
		ValidationFields: ce.ValidationFields,
	}
	payload, mErr := json.Marshal(event)
	if mErr != nil {
		return mErr
	}
	if pErr := r.publisher.Publish(ctx, r.topic, []byte(ce.Kind), payload); pErr != nil {
		logger.WithTrace(ctx).WithError(pErr).WithField("kind", ce.Kind).Warn("error report publish failed")
		return errors.Join(errors.New("report: publish failed"), pErr)
	}
	return nil
}
