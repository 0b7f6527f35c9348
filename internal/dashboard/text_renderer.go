package dashboard

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vilaca/activity-feed/internal/domain"
)

// TextRenderer renders a feed as an aligned plain-text table for terminals.
type TextRenderer struct {
	// Bold wraps actor names in ANSI bold escapes
	Bold bool
}

// RenderFeed writes one line per event, then any failures.
func (r TextRenderer) RenderFeed(w io.Writer, feed domain.Feed) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tACTOR\tACTIVITY\tREPO")
	for _, e := range feed.Events {
		actor := e.Actor.DisplayLogin
		if r.Bold {
			actor = "\x1b[1m" + actor + "\x1b[0m"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", formatCreatedAt(e.CreatedAt), actor, Describe(e.Action), e.Repo.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, f := range feed.Failures {
		if _, err := fmt.Fprintf(w, "could not load %s\n", describeFailure(f)); err != nil {
			return err
		}
	}
	return nil
}
