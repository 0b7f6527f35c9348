package dashboard

import (
	"fmt"

	"github.com/vilaca/activity-feed/internal/domain"
)

const shortSHALength = 7

// Describe returns a short human-readable phrase for an action, e.g. "pushed 2 commits".
func Describe(action domain.EventAction) string {
	switch a := action.(type) {
	case domain.PushAction:
		phrase := pluralize(len(a.Commits), "commit", "commits")
		if a.Head != "" {
			phrase += " (head " + shortSHA(a.Head) + ")"
		}
		return "pushed " + phrase
	case domain.ForkAction:
		return "forked"
	case domain.PullRequestReviewCommentAction:
		return fmt.Sprintf("commented on pull request #%d: %s", a.PullRequest.Number, a.PullRequest.Title)
	case domain.PullRequestAction:
		return fmt.Sprintf("%s pull request #%d: %s", a.Action, a.Number, a.Title)
	case domain.IssueCommentAction:
		return fmt.Sprintf("commented on issue #%d: %s", a.Issue.Number, a.Issue.Title)
	case domain.IssueAction:
		return fmt.Sprintf("%s issue #%d: %s", a.Action, a.Issue.Number, a.Issue.Title)
	case domain.CommitCommentAction:
		return "commented on a commit"
	case domain.WatchAction:
		return "starred"
	case domain.DeleteAction:
		return fmt.Sprintf("deleted %s %s", a.RefType, a.Ref)
	case domain.MemberAction:
		return fmt.Sprintf("%s member %s", a.Action, a.MemberLogin)
	case domain.CreateAction:
		if a.Ref == nil {
			return "created " + a.RefType
		}
		return fmt.Sprintf("created %s %s", a.RefType, *a.Ref)
	case domain.UnknownAction:
		return "did " + a.RawType
	default:
		return "did something"
	}
}

// ActionURL returns the most specific web link for an action, or "" if it has none.
func ActionURL(action domain.EventAction) string {
	switch a := action.(type) {
	case domain.PullRequestReviewCommentAction:
		return a.Comment.URL
	case domain.PullRequestAction:
		return a.URL
	case domain.IssueCommentAction:
		return a.Comment.URL
	case domain.IssueAction:
		return a.Issue.URL
	case domain.CommitCommentAction:
		return a.URL
	default:
		return ""
	}
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALength {
		return sha[:shortSHALength]
	}
	return sha
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// describeFailure renders a user failure for display.
func describeFailure(f domain.UserFailure) string {
	return fmt.Sprintf("%s: %v", f.Username, f.Err)
}
