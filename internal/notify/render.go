package notify

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/edupi-school/edupi-client/pkg/model"
)

// Render produces the terminal panel for one notification.
func Render(ev *model.NotificationEvent) string {
	styles := StylesFor(ev.Priority)

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n",
		TypeIcon(ev.Type),
		titleStyle.Render("New Announcement"),
		styles.Badge.Render(string(ev.Priority.Normalize())),
	)
	fmt.Fprintf(&b, "%s\n\n", metaStyle.Render("From: "+ev.CreatedBy))
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(ev.Title))
	fmt.Fprintf(&b, "%s\n\n", ev.Content)
	fmt.Fprintf(&b, "%s", metaStyle.Render(fmt.Sprintf("Type: %s · %s", ev.Type, humanize.Time(ev.Timestamp))))
	if ev.ActionURL != "" {
		fmt.Fprintf(&b, "\n%s", metaStyle.Render("Details: "+ev.ActionURL))
	}

	return styles.Panel.Render(b.String()) + "\n"
}
