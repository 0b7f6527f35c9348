package domain

// ActionKind identifies which EventAction variant an event carries.
type ActionKind string

const (
	KindPush                     ActionKind = "push"
	KindFork                     ActionKind = "fork"
	KindPullRequestReviewComment ActionKind = "pull_request_review_comment"
	KindPullRequest              ActionKind = "pull_request"
	KindIssueComment             ActionKind = "issue_comment"
	KindIssue                    ActionKind = "issue"
	KindCommitComment            ActionKind = "commit_comment"
	KindWatch                    ActionKind = "watch"
	KindDelete                   ActionKind = "delete"
	KindMember                   ActionKind = "member"
	KindCreate                   ActionKind = "create"
	KindUnknown                  ActionKind = "unknown"
)
