package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// privateChatPrefix is the marker Telegram prepends to channel ids; the
// private t.me/c/ form drops it.
const privateChatPrefix = "-100"

// MessageLink builds the canonical viewer URL for a channel message. Public
// channels use the username form; channels without a username fall back to
// the private t.me/c/ form with the -100 prefix stripped from the chat id.
func MessageLink(chatID int64, username string, messageID int64) string {
	if username != "" {
		return fmt.Sprintf("https://t.me/%s/%d", username, messageID)
	}
	id := fmt.Sprintf("%d", chatID)
	id = strings.TrimPrefix(id, privateChatPrefix)
	return fmt.Sprintf("https://t.me/c/%s/%d", id, messageID)
}

var (
	tmeURLRe      = regexp.MustCompile(`(?i)^(?:https?://)?t\.me/`)
	privatePathRe = regexp.MustCompile(`(?i)^c/(\d+)(?:/.*)?$`)
)

// NormalizeChannelRefs accepts a comma-separated list of channel references
// (@name, https://t.me/name, t.me/c/123, -100123…) and returns bare usernames
// or -100-prefixed numeric ids.
func NormalizeChannelRefs(raw string) []string {
	var out []string
	for _, piece := range strings.Split(raw, ",") {
		s := strings.TrimSpace(piece)
		if s == "" {
			continue
		}
		s = tmeURLRe.ReplaceAllString(s, "")
		if m := privatePathRe.FindStringSubmatch(s); m != nil {
			out = append(out, privateChatPrefix+m[1])
			continue
		}
		out = append(out, strings.TrimPrefix(s, "@"))
	}
	return out
}
