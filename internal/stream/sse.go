package stream

import (
	"bufio"
	"io"
	"strings"
)

// Event is a single server-sent event parsed from a push connection.
type Event struct {
	// Type is the event type tag from the "event:" field. Empty when the
	// server sent none.
	Type string

	// Data is the JSON payload, assembled from one or more "data:" lines
	// joined with newlines per the SSE specification.
	Data string
}

// Scanner reads server-sent events from an io.Reader. Events are
// delimited by blank lines; "data:" lines carry the payload and
// "event:" lines the type tag. Comment lines (starting with ":") are
// the backend's keepalives and are skipped.
type Scanner struct {
	reader  *bufio.Reader
	current Event
	err     error
}

// NewScanner creates a scanner over an open event-stream body.
func NewScanner(reader io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReaderSize(reader, 64*1024),
	}
}

// Next advances to the next event. Returns false when the stream ends
// or a read fails; Err distinguishes clean EOF from transport errors.
func (s *Scanner) Next() bool {
	s.current = Event{}

	var dataLines []string
	var eventType string
	hasData := false

	for {
		line, err := s.reader.ReadString('\n')

		// Partial last line with no trailing newline before EOF.
		if err != nil && line == "" {
			if err == io.EOF {
				if hasData {
					s.current = Event{Type: eventType, Data: strings.Join(dataLines, "\n")}
					s.err = io.EOF
					return true
				}
				return false
			}
			s.err = err
			return false
		}

		line = strings.TrimRight(line, "\r\n")

		// Blank line = event boundary.
		if line == "" {
			if hasData {
				s.current = Event{Type: eventType, Data: strings.Join(dataLines, "\n")}
				return true
			}
			eventType = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, hasColon := strings.Cut(line, ":")
		if !hasColon {
			field = line
			value = ""
		} else {
			// Per spec: a single leading space in the value is stripped.
			value = strings.TrimPrefix(value, " ")
		}

		switch field {
		case "data":
			dataLines = append(dataLines, value)
			hasData = true
		case "event":
			eventType = value
		default:
			// "id", "retry", and unknown fields are ignored.
		}
	}
}

// Current returns the most recently parsed event. Only valid after Next
// returns true.
func (s *Scanner) Current() Event {
	return s.current
}

// Err returns the first read error, or nil when scanning ended at a
// clean EOF.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
