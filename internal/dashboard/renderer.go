package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vilaca/activity-feed/internal/domain"
)

// Renderer handles rendering responses to HTTP clients.
// This interface follows Interface Segregation Principle (SOLID-I).
type Renderer interface {
	RenderHealth(w io.Writer) error
	RenderFeed(w io.Writer, feed domain.Feed, usernames []string) error
	RenderFeedJSON(w io.Writer, feed domain.Feed) error
}

// HTMLRenderer implements Renderer for HTML responses.
type HTMLRenderer struct {
	// All HTML is embedded in methods, no external templates needed
}

// NewHTMLRenderer creates a new HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) RenderHealth(w io.Writer) error {
	_, err := w.Write([]byte(`{"status":"ok"}`))
	return err
}

// RenderFeed renders the merged feed page.
func (r *HTMLRenderer) RenderFeed(w io.Writer, feed domain.Feed, usernames []string) error {
	_, err := io.WriteString(w, r.buildFeedHTML(feed, usernames))
	return err
}

// feedJSON is the wire shape of /api/feed.
type feedJSON struct {
	Events   []domain.Event    `json:"events"`
	Count    int               `json:"count"`
	Failures []userFailureJSON `json:"failures"`
}

type userFailureJSON struct {
	Username string `json:"username"`
	Error    string `json:"error"`
}

func (r *HTMLRenderer) RenderFeedJSON(w io.Writer, feed domain.Feed) error {
	return WriteFeedJSON(w, feed, "")
}

// WriteFeedJSON encodes feed in the /api/feed envelope, with events and
// per-user failures, indenting each level by indent when it is non-empty.
func WriteFeedJSON(w io.Writer, feed domain.Feed, indent string) error {
	enc := json.NewEncoder(w)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(toFeedJSON(feed))
}

func toFeedJSON(feed domain.Feed) feedJSON {
	out := feedJSON{
		Events:   feed.Events,
		Count:    len(feed.Events),
		Failures: make([]userFailureJSON, 0, len(feed.Failures)),
	}
	if out.Events == nil {
		out.Events = []domain.Event{}
	}
	for _, f := range feed.Failures {
		out.Failures = append(out.Failures, userFailureJSON{Username: f.Username, Error: f.Err.Error()})
	}
	return out
}

// buildFeedHTML constructs the HTML for displaying the feed.
// Follows SLAP - operates at single level of abstraction.
func (r *HTMLRenderer) buildFeedHTML(feed domain.Feed, usernames []string) string {
	var sb strings.Builder

	sb.WriteString(htmlHead("Feed", ""))
	sb.WriteString(`
<body>
	<div class="container">
		<h1>Activity Feed</h1>
		`)
	sb.WriteString(buildNavigation())

	if len(usernames) > 0 {
		sb.WriteString(fmt.Sprintf(`
		<p class="meta">Following: %s</p>`, escapeHTML(strings.Join(usernames, ", "))))
	}

	if len(feed.Failures) > 0 {
		sb.WriteString(`
		<div class="failures"><strong>Could not load:</strong><ul>`)
		for _, f := range feed.Failures {
			sb.WriteString("<li>" + escapeHTML(describeFailure(f)) + "</li>")
		}
		sb.WriteString(`</ul></div>`)
	}

	if len(feed.Events) == 0 {
		sb.WriteString(`
		<div class="empty">No activity to show.</div>`)
	} else {
		sb.WriteString(`
		<ul class="feed">`)
		for _, e := range feed.Events {
			r.writeEventItem(&sb, e)
		}
		sb.WriteString(`
		</ul>`)
	}

	sb.WriteString(`
	</div>
`)
	sb.WriteString(htmlFooter())
	return sb.String()
}

func (r *HTMLRenderer) writeEventItem(sb *strings.Builder, e domain.Event) {
	class := "event"
	if e.Action != nil && e.Action.Kind() == domain.KindUnknown {
		class += " unknown"
	}

	summary := escapeHTML(Describe(e.Action))
	if link := ActionURL(e.Action); link != "" {
		summary = fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, escapeHTML(link), summary)
	}

	sb.WriteString(fmt.Sprintf(`
			<li class="%s" data-kind="%s">
				<img class="avatar" src="%s" alt="%s" loading="lazy">
				<div>
					<div>%s <span class="summary">%s</span> in %s</div>
					<div class="meta" title="%s">%s</div>
				</div>
			</li>`,
		class,
		escapeHTML(string(actionKind(e.Action))),
		escapeHTML(e.Actor.AvatarURL),
		escapeHTML(e.Actor.DisplayLogin),
		externalLink(e.Actor.URL, e.Actor.DisplayLogin),
		summary,
		externalLink(e.Repo.URL, e.Repo.Name),
		escapeHTML(e.CreatedAt),
		escapeHTML(formatCreatedAt(e.CreatedAt)),
	))
}

func actionKind(action domain.EventAction) domain.ActionKind {
	if action == nil {
		return domain.KindUnknown
	}
	return action.Kind()
}
