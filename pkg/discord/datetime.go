package discord

import (
	"fmt"
	"time"
)

// Timestamp styles understood by Discord clients.
const (
	TimestampShortDateTime = "f"
	TimestampLongDateTime  = "F"
	TimestampRelative      = "R"
)

// FormatTimestamp renders t as a Discord timestamp tag, shown in each
// reader's own time zone. The zero time renders as "".
func FormatTimestamp(t time.Time, style string) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}
