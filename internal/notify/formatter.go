// Package notify delivers plant reminders to webhooks and Telegram.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/manav03panchal/plantcare/internal/errors"
	"github.com/manav03panchal/plantcare/internal/model"
)

// Webhook payload formats.
const (
	FormatGeneric = "generic"
	FormatSlack   = "slack"
	FormatDiscord = "discord"
)

// Formatter turns a notification into a request body.
type Formatter interface {
	Format(n *model.Notification) ([]byte, error)
	ContentType() string
}

// GetFormatter returns the formatter for a webhook format. A non-empty
// template always selects the generic formatter.
func GetFormatter(format, tmpl string) (Formatter, error) {
	if tmpl != "" {
		return NewGenericFormatter(tmpl)
	}
	switch format {
	case FormatSlack:
		return &SlackFormatter{}, nil
	case FormatDiscord:
		return &DiscordFormatter{}, nil
	case FormatGeneric, "":
		return &GenericFormatter{}, nil
	default:
		return nil, errors.NewUserErrorWithField("webhook_format", format,
			fmt.Sprintf("Unknown webhook format '%s'", format),
			"Use one of: generic, slack, discord")
	}
}

// colorFor picks an embed colour by notification type.
func colorFor(t model.NotificationType) int {
	switch t {
	case model.NotifyThirsty:
		return 0x3B82F6
	case model.NotifyCritical:
		return 0xEF4444
	case model.NotifyTest:
		return 0x22C55E
	default:
		return 0x15803D
	}
}

// sortedFields returns field keys in a stable order.
func sortedFields(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// PlainText renders a notification as a short multi-line message.
func PlainText(n *model.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n%s", n.Icon(), n.Title, n.Message)
	for _, k := range sortedFields(n.Fields) {
		fmt.Fprintf(&b, "\n%s: %s", k, n.Fields[k])
	}
	return b.String()
}

// =============================================================================
// Generic
// =============================================================================

// GenericFormatter emits a flat JSON object, or the output of a Go template.
type GenericFormatter struct {
	tmpl *template.Template
}

// NewGenericFormatter parses tmpl. An empty template selects the default JSON body.
func NewGenericFormatter(tmpl string) (*GenericFormatter, error) {
	if tmpl == "" {
		return &GenericFormatter{}, nil
	}
	t, err := template.New("webhook").Parse(tmpl)
	if err != nil {
		return nil, errors.NewUserError(
			"Webhook template does not parse: "+err.Error(),
			"Check the reminder.webhook_template setting",
		).WithCause(err)
	}
	return &GenericFormatter{tmpl: t}, nil
}

type genericPayload struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	PlantID   string            `json:"plant_id,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// Format implements Formatter.
func (f *GenericFormatter) Format(n *model.Notification) ([]byte, error) {
	if f.tmpl != nil {
		var buf bytes.Buffer
		if err := f.tmpl.Execute(&buf, n); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	return json.Marshal(genericPayload{
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		PlantID:   n.PlantID,
		Fields:    n.Fields,
		Timestamp: n.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// ContentType implements Formatter.
func (f *GenericFormatter) ContentType() string {
	return "application/json"
}

// =============================================================================
// Slack
// =============================================================================

// SlackFormatter builds a Block Kit message.
type SlackFormatter struct{}

type slackPayload struct {
	Text        string        `json:"text,omitempty"`
	Blocks      []slackBlock  `json:"blocks,omitempty"`
	Attachments []slackAttach `json:"attachments,omitempty"`
}

type slackBlock struct {
	Type   string           `json:"type"`
	Text   *slackBlockText  `json:"text,omitempty"`
	Fields []slackBlockText `json:"fields,omitempty"`
}

type slackBlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackAttach struct {
	Color    string `json:"color,omitempty"`
	Fallback string `json:"fallback,omitempty"`
}

// Format implements Formatter.
func (f *SlackFormatter) Format(n *model.Notification) ([]byte, error) {
	blocks := []slackBlock{
		{Type: "header", Text: &slackBlockText{Type: "plain_text", Text: n.Icon() + " " + n.Title}},
		{Type: "section", Text: &slackBlockText{Type: "mrkdwn", Text: slackEscape(n.Message)}},
	}

	if len(n.Fields) > 0 {
		fields := make([]slackBlockText, 0, len(n.Fields))
		for _, k := range sortedFields(n.Fields) {
			fields = append(fields, slackBlockText{
				Type: "mrkdwn",
				Text: fmt.Sprintf("*%s*\n%s", slackEscape(k), slackEscape(n.Fields[k])),
			})
		}
		blocks = append(blocks, slackBlock{Type: "section", Fields: fields})
	}

	return json.Marshal(slackPayload{
		Text:        n.Title,
		Blocks:      blocks,
		Attachments: []slackAttach{{Color: fmt.Sprintf("#%06X", colorFor(n.Type)), Fallback: n.Title}},
	})
}

// ContentType implements Formatter.
func (f *SlackFormatter) ContentType() string {
	return "application/json"
}

func slackEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

// =============================================================================
// Discord
// =============================================================================

// DiscordFormatter builds a single-embed message.
type DiscordFormatter struct{}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Footer      *discordFooter      `json:"footer,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordFooter struct {
	Text string `json:"text"`
}

// Format implements Formatter.
func (f *DiscordFormatter) Format(n *model.Notification) ([]byte, error) {
	embed := discordEmbed{
		Title:       n.Icon() + " " + n.Title,
		Description: n.Message,
		Color:       colorFor(n.Type),
		Timestamp:   n.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		Footer:      &discordFooter{Text: "plantcare · " + n.TypeLabel()},
	}
	for _, k := range sortedFields(n.Fields) {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: k, Value: n.Fields[k], Inline: true})
	}
	return json.Marshal(discordPayload{Embeds: []discordEmbed{embed}})
}

// ContentType implements Formatter.
func (f *DiscordFormatter) ContentType() string {
	return "application/json"
}
