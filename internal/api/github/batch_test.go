package github

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/vilaca/activity-feed/internal/domain"
)

// recordingDiagnostics is a test double for Diagnostics.
type recordingDiagnostics struct {
	unknown []string
	skipped []int
}

func (r *recordingDiagnostics) UnknownEventType(eventID, rawType string) {
	r.unknown = append(r.unknown, rawType)
}

func (r *recordingDiagnostics) SkippedEvent(index int, err error) {
	r.skipped = append(r.skipped, index)
}

// mockLogger is a test double for Logger.
type mockLogger struct {
	messages []string
}

func (m *mockLogger) Printf(format string, v ...interface{}) {
	m.messages = append(m.messages, fmt.Sprintf(format, v...))
}

func feedJSON(events ...string) []byte {
	return []byte("[" + strings.Join(events, ",") + "]")
}

// TestDecodeEvents_PushAndWatch tests decoding a mixed feed in input order.
func TestDecodeEvents_PushAndWatch(t *testing.T) {
	// Arrange
	body := feedJSON(
		eventJSON("PushEvent", `{"head": "abc123", "commits": [{"sha": "deadbeef"}]}`),
		eventJSON("WatchEvent", `{"action": "started"}`),
	)

	// Act
	events, err := Decoder{}.DecodeEvents(body)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	expectedPush := domain.PushAction{Head: "abc123", Commits: []domain.Commit{{SHA: "deadbeef"}}}
	if !reflect.DeepEqual(events[0].Action, expectedPush) {
		t.Errorf("expected first action %#v, got %#v", expectedPush, events[0].Action)
	}
	if _, ok := events[1].Action.(domain.WatchAction); !ok {
		t.Errorf("expected second action WatchAction, got %T", events[1].Action)
	}
}

// TestDecodeEvents_EmptyArray tests an empty feed.
func TestDecodeEvents_EmptyArray(t *testing.T) {
	events, err := Decoder{}.DecodeEvents([]byte(`[]`))

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", events)
	}
}

// TestDecodeEvents_SkipPolicy tests that malformed events are dropped and reported.
func TestDecodeEvents_SkipPolicy(t *testing.T) {
	// Arrange
	diag := &recordingDiagnostics{}
	decoder := Decoder{Policy: BatchPolicySkip, Diagnostics: diag}
	body := feedJSON(
		eventJSON("WatchEvent", `{}`),
		eventJSON("PushEvent", `{}`),
		eventJSON("GollumEvent", `{}`),
	)

	// Act
	events, err := decoder.DecodeEvents(body)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[1].Action != (domain.UnknownAction{RawType: "GollumEvent"}) {
		t.Errorf("expected GollumEvent to be unknown, got %#v", events[1].Action)
	}
	if !reflect.DeepEqual(diag.skipped, []int{1}) {
		t.Errorf("expected event 1 to be skipped, got %v", diag.skipped)
	}
	if !reflect.DeepEqual(diag.unknown, []string{"GollumEvent"}) {
		t.Errorf("expected GollumEvent to be reported, got %v", diag.unknown)
	}
}

// TestDecodeEvents_AbortPolicy tests all-or-nothing decoding.
func TestDecodeEvents_AbortPolicy(t *testing.T) {
	// Arrange
	decoder := Decoder{Policy: BatchPolicyAbort}
	body := feedJSON(
		eventJSON("WatchEvent", `{}`),
		eventJSON("PushEvent", `{"head": "abc"}`),
	)

	// Act
	events, err := decoder.DecodeEvents(body)

	// Assert
	if events != nil {
		t.Errorf("expected no events, got %d", len(events))
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %v", err)
	}
	if decodeErr.Index != 1 || decodeErr.Path != "payload.commits" {
		t.Errorf("expected event[1] payload.commits, got %v", err)
	}
}

// TestDecodeEvents_NotAnArray tests that a non-array document fails under either policy.
func TestDecodeEvents_NotAnArray(t *testing.T) {
	for _, policy := range []BatchPolicy{BatchPolicySkip, BatchPolicyAbort} {
		t.Run(policy.String(), func(t *testing.T) {
			for _, body := range []string{`{"message": "Not Found"}`, `not json`, ``} {
				_, err := Decoder{Policy: policy}.DecodeEvents([]byte(body))
				if !errors.Is(err, ErrDecode) {
					t.Errorf("DecodeEvents(%q): expected ErrDecode, got %v", body, err)
				}
			}
		})
	}
}

// TestLoggerDiagnostics tests that diagnostics are forwarded to the logger.
func TestLoggerDiagnostics(t *testing.T) {
	// Arrange
	logger := &mockLogger{}
	decoder := Decoder{Diagnostics: LoggerDiagnostics{Logger: logger}}

	// Act
	_, err := decoder.DecodeEvents(feedJSON(eventJSON("DiscussionEvent", `{}`), `{"id": "2"}`))

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(logger.messages) != 2 {
		t.Fatalf("expected 2 log messages, got %v", logger.messages)
	}
	if !strings.Contains(logger.messages[0], "DiscussionEvent") {
		t.Errorf("expected unknown type message, got %q", logger.messages[0])
	}
	if !strings.Contains(logger.messages[1], "skipping event 1") {
		t.Errorf("expected skipped event message, got %q", logger.messages[1])
	}
}
