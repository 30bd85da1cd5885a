// Package console holds the view controllers, one per monitored
// subsystem. Each controller composes the API client, the stream
// factory, the timeline reconciler, and the action dispatcher for its
// topic, and owns nothing cross-cutting beyond that composition.
package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkoukk/tiktoken-go"

	"github.com/kifhan/grumpyclaw/internal/timeline"
	"github.com/kifhan/grumpyclaw/internal/types"
)

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	toolStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Renderer formats models and timeline entries for the terminal.
type Renderer struct {
	tokenizer *tiktoken.Tiktoken
}

// NewRenderer creates a Renderer. The tokenizer loads lazily on first
// use; token counts render as "-" until it is available.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// TokenCount approximates the token count of text. Returns -1 when no
// tokenizer could be loaded.
func (r *Renderer) TokenCount(text string) int {
	if r.tokenizer == nil {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return -1
		}
		r.tokenizer = enc
	}
	return len(r.tokenizer.Encode(text, nil, nil))
}

// Content normalizes message content for display. HTML fragments from
// the assistant are converted to terminal-friendly markdown; everything
// else passes through untouched.
func (r *Renderer) Content(content string) string {
	if !looksLikeHTML(content) {
		return content
	}
	md, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(md)
}

func looksLikeHTML(s string) bool {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "<") {
		return false
	}
	return strings.Contains(trimmed, "</") || strings.Contains(trimmed, "/>")
}

// RoleLabel renders a colored role prefix for a transcript line.
func (r *Renderer) RoleLabel(role string) string {
	switch role {
	case "user":
		return userStyle.Render(role)
	case "assistant":
		return assistantStyle.Render(role)
	default:
		return dimStyle.Render(role)
	}
}

// LevelLabel renders a colored log level.
func (r *Renderer) LevelLabel(level string) string {
	switch strings.ToUpper(level) {
	case "ERROR", "CRITICAL":
		return errorStyle.Render(level)
	case "WARNING", "WARN":
		return warnStyle.Render(level)
	default:
		return level
	}
}

// SessionTable writes a session listing. tokenCounts may be nil; known
// counts render in the last column.
func (r *Renderer) SessionTable(w io.Writer, sessions []types.Session, tokenCounts map[types.SessionID]int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODE\tTITLE\tUPDATED\tTOKENS")
	for _, s := range sessions {
		tokens := "-"
		if n, ok := tokenCounts[s.ID]; ok && n >= 0 {
			tokens = fmt.Sprintf("%d", n)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Mode, s.Title, s.UpdatedAt, tokens)
	}
	tw.Flush()
}

// Message writes one transcript message.
func (r *Renderer) Message(w io.Writer, msg types.Message) {
	status := ""
	if msg.Status != "" && msg.Status != "final" {
		status = dimStyle.Render(" [" + msg.Status + "]")
	}
	fmt.Fprintf(w, "%s%s: %s\n", r.RoleLabel(msg.Role), status, r.Content(msg.Content))
}

// Entry writes one timeline entry with kind-appropriate coloring.
func (r *Renderer) Entry(w io.Writer, e timeline.Entry) {
	label := e.Label
	switch e.Kind {
	case timeline.KindTool:
		label = toolStyle.Render(label)
	case timeline.KindStatus:
		label = statusStyle.Render(label)
	default:
		label = r.RoleLabel(label)
	}
	fmt.Fprintf(w, "%s %s %s\n", dimStyle.Render(e.Timestamp), label, e.Content)
}

// Timeline writes all entries of a timeline in rendered order.
func (r *Renderer) Timeline(w io.Writer, entries []timeline.Entry) {
	for _, e := range entries {
		r.Entry(w, e)
	}
}

// LogTable writes structured log records.
func (r *Renderer) LogTable(w io.Writer, items []types.LogRecord) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TS\tLEVEL\tSOURCE\tPROCESS\tEVENT\tPAYLOAD")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			item.Timestamp, r.LevelLabel(item.Level), item.Source,
			item.ProcessName, item.EventType, compactPayload(item.Payload))
	}
	tw.Flush()
}

// StatusBlob renders a backend-owned status blob as stable compact
// JSON. The console never interprets its internal fields.
func (r *Renderer) StatusBlob(raw json.RawMessage) string {
	return compactPayload(raw)
}

func compactPayload(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
