package github

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/vilaca/activity-feed/internal/domain"
)

// BatchPolicy decides what happens to a feed when one of its events fails to decode.
type BatchPolicy int

const (
	// BatchPolicySkip drops the malformed event, reports it, and keeps the others.
	BatchPolicySkip BatchPolicy = iota
	// BatchPolicyAbort fails the whole feed on the first malformed event.
	BatchPolicyAbort
)

func (p BatchPolicy) String() string {
	switch p {
	case BatchPolicySkip:
		return "skip"
	case BatchPolicyAbort:
		return "abort"
	default:
		return fmt.Sprintf("BatchPolicy(%d)", int(p))
	}
}

// Diagnostics receives non-fatal findings from the Decoder.
type Diagnostics interface {
	UnknownEventType(eventID, rawType string)
	SkippedEvent(index int, err error)
}

// Logger interface for logging operations.
type Logger interface {
	Printf(format string, v ...interface{})
}

// LoggerDiagnostics reports decode diagnostics through a Logger.
type LoggerDiagnostics struct {
	Logger Logger
}

func (d LoggerDiagnostics) UnknownEventType(eventID, rawType string) {
	d.Logger.Printf("[Decoder] unhandled event type %q (event %s)", rawType, eventID)
}

func (d LoggerDiagnostics) SkippedEvent(index int, err error) {
	d.Logger.Printf("[Decoder] skipping event %d: %v", index, err)
}

// Decoder turns a feed document (a JSON array of events) into domain events.
// The zero value skips malformed events and reports nothing.
type Decoder struct {
	Policy      BatchPolicy
	Diagnostics Diagnostics // optional
}

// DecodeEvents decodes every event of body, preserving input order.
// A body that is not a JSON array is always an error, whatever the policy.
func (d Decoder) DecodeEvents(body []byte) ([]domain.Event, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Index: -1, Reason: "invalid JSON"}
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, &DecodeError{Index: -1, Reason: fmt.Sprintf("expected array of events, got %s", describeType(doc))}
	}

	items := doc.Array()
	events := make([]domain.Event, 0, len(items))
	for i, item := range items {
		event, err := decodeEvent(item, i)
		if err != nil {
			if d.Policy == BatchPolicyAbort {
				return nil, err
			}
			if d.Diagnostics != nil {
				d.Diagnostics.SkippedEvent(i, err)
			}
			continue
		}
		if unknown, ok := event.Action.(domain.UnknownAction); ok && d.Diagnostics != nil {
			d.Diagnostics.UnknownEventType(event.ID, unknown.RawType)
		}
		events = append(events, event)
	}

	return events, nil
}
