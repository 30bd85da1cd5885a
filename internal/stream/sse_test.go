package stream

import (
	"strings"
	"testing"
)

func collectEvents(t *testing.T, input string) []Event {
	t.Helper()
	scanner := NewScanner(strings.NewReader(input))
	var events []Event
	for scanner.Next() {
		events = append(events, scanner.Current())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan error: %v", err)
	}
	return events
}

func TestScanner_NamedEvents(t *testing.T) {
	input := "event: chat.token\ndata: {\"token\":\"hi\"}\n\nevent: chat.final\ndata: {\"content\":\"hi there\"}\n\n"
	events := collectEvents(t, input)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Type != "chat.token" || events[0].Data != `{"token":"hi"}` {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].Type != "chat.final" {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}

func TestScanner_SkipsKeepaliveComments(t *testing.T) {
	input := ": keepalive\n\n: keepalive\n\nevent: tool.event\ndata: {}\n\n"
	events := collectEvents(t, input)

	if len(events) != 1 {
		t.Fatalf("keepalive comments must not produce events, got %d", len(events))
	}
	if events[0].Type != "tool.event" {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestScanner_MultiLineData(t *testing.T) {
	input := "data: line one\ndata: line two\n\n"
	events := collectEvents(t, input)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Data != "line one\nline two" {
		t.Errorf("multi-line data must join with newlines, got %q", events[0].Data)
	}
}

func TestScanner_CRLFAndNoSpaceAfterColon(t *testing.T) {
	input := "event:status\r\ndata:{\"ok\":true}\r\n\r\n"
	events := collectEvents(t, input)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Type != "status" || events[0].Data != `{"ok":true}` {
		t.Errorf("unexpected event: %+v", events[0])
	}
}

func TestScanner_FinalEventWithoutTrailingBlank(t *testing.T) {
	input := "event: chat.final\ndata: {\"content\":\"done\"}"
	events := collectEvents(t, input)

	if len(events) != 1 {
		t.Fatalf("unterminated final event must still be emitted, got %d", len(events))
	}
	if events[0].Data != `{"content":"done"}` {
		t.Errorf("unexpected data: %q", events[0].Data)
	}
}

func TestScanner_IgnoresUnknownFields(t *testing.T) {
	input := "id: 42\nretry: 1000\nevent: tick\ndata: {}\n\n"
	events := collectEvents(t, input)

	if len(events) != 1 || events[0].Type != "tick" {
		t.Fatalf("unexpected events: %+v", events)
	}
}
