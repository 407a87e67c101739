package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DumpSource reads channel history from a Telegram Desktop JSON export
// (result.json). The Bot API cannot list old channel posts, so the export
// file stands in for live history access.
type DumpSource struct {
	path string
}

// NewDumpSource points the source at an export file.
func NewDumpSource(path string) *DumpSource {
	return &DumpSource{path: path}
}

// dumpFile mirrors the export layout: a channel header plus its messages.
type dumpFile struct {
	Name     string        `json:"name"`
	ID       int64         `json:"id"`
	Messages []dumpMessage `json:"messages"`
}

type dumpMessage struct {
	ID       int64           `json:"id"`
	Type     string          `json:"type"`
	DateUnix string          `json:"date_unixtime"`
	Text     json.RawMessage `json:"text"`
}

// History loads the export and returns up to limit listing messages. The
// channel argument must match the export's channel id or name; a mismatch is
// an error rather than a silent empty import.
func (d *DumpSource) History(_ context.Context, channel string, limit int) ([]ArchivedMessage, error) {
	raw, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump file: %w", err)
	}

	var dump dumpFile
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, fmt.Errorf("failed to parse dump file: %w", err)
	}

	chatID := -1_000_000_000_000 - dump.ID
	if !matchesChannel(channel, dump.Name, chatID) {
		return nil, fmt.Errorf("dump file holds %q (id %d), not %q", dump.Name, chatID, channel)
	}

	var out []ArchivedMessage
	for _, m := range dump.Messages {
		if m.Type != "message" {
			continue
		}
		text := flattenDumpText(m.Text)
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, ArchivedMessage{
			ID:     m.ID,
			ChatID: chatID,
			Date:   parseUnix(m.DateUnix),
			Text:   text,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func matchesChannel(ref, name string, chatID int64) bool {
	if ref == strconv.FormatInt(chatID, 10) {
		return true
	}
	return strings.EqualFold(ref, name)
}

// flattenDumpText joins the export's text field, which is either a plain
// string or an array of strings and entity objects.
func flattenDumpText(raw json.RawMessage) string {
	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	var b strings.Builder
	for _, p := range parts {
		var s string
		if err := json.Unmarshal(p, &s); err == nil {
			b.WriteString(s)
			continue
		}
		var entity struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(p, &entity); err == nil {
			b.WriteString(entity.Text)
		}
	}
	return b.String()
}

func parseUnix(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return time.Now().UTC()
	}
	return time.Unix(n, 0).UTC()
}
