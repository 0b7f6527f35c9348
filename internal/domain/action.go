package domain

// EventAction is the closed set of things an Event can describe.
// Only types in this package implement it.
type EventAction interface {
	Kind() ActionKind
	isEventAction()
}

// Commit is a single commit referenced by a push.
type Commit struct {
	SHA string `json:"sha"`
}

// Comment references a comment by its web URL.
type Comment struct {
	URL string `json:"url"`
}

// PullRequest is the subset of pull request data shown in the feed.
type PullRequest struct {
	Action string `json:"action"`
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// Issue is the subset of issue data shown in the feed.
type Issue struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

type PushAction struct {
	Head    string   `json:"head"`
	Commits []Commit `json:"commits"`
}

type ForkAction struct{}

type PullRequestReviewCommentAction struct {
	Comment     Comment     `json:"comment"`
	PullRequest PullRequest `json:"pullRequest"`
}

type PullRequestAction struct {
	PullRequest
}

type IssueCommentAction struct {
	Issue   Issue   `json:"issue"`
	Comment Comment `json:"comment"`
}

type IssueAction struct {
	Action string `json:"action"`
	Issue  Issue  `json:"issue"`
}

type CommitCommentAction struct {
	URL string `json:"url"`
}

type WatchAction struct{}

type DeleteAction struct {
	Ref     string `json:"ref"`
	RefType string `json:"refType"`
}

type MemberAction struct {
	Action      string `json:"action"`
	MemberLogin string `json:"memberLogin"`
}

// CreateAction describes a created repository, branch or tag.
// Ref is nil when a repository was created.
type CreateAction struct {
	Ref         *string `json:"ref"`
	RefType     string  `json:"refType"`
	Description *string `json:"description"`
}

// UnknownAction carries the upstream type tag of an event this version does not understand.
type UnknownAction struct {
	RawType string `json:"rawType"`
}

func (PushAction) Kind() ActionKind                     { return KindPush }
func (ForkAction) Kind() ActionKind                     { return KindFork }
func (PullRequestReviewCommentAction) Kind() ActionKind { return KindPullRequestReviewComment }
func (PullRequestAction) Kind() ActionKind              { return KindPullRequest }
func (IssueCommentAction) Kind() ActionKind             { return KindIssueComment }
func (IssueAction) Kind() ActionKind                    { return KindIssue }
func (CommitCommentAction) Kind() ActionKind            { return KindCommitComment }
func (WatchAction) Kind() ActionKind                    { return KindWatch }
func (DeleteAction) Kind() ActionKind                   { return KindDelete }
func (MemberAction) Kind() ActionKind                   { return KindMember }
func (CreateAction) Kind() ActionKind                   { return KindCreate }
func (UnknownAction) Kind() ActionKind                  { return KindUnknown }

func (PushAction) isEventAction()                     {}
func (ForkAction) isEventAction()                     {}
func (PullRequestReviewCommentAction) isEventAction() {}
func (PullRequestAction) isEventAction()              {}
func (IssueCommentAction) isEventAction()             {}
func (IssueAction) isEventAction()                    {}
func (CommitCommentAction) isEventAction()            {}
func (WatchAction) isEventAction()                    {}
func (DeleteAction) isEventAction()                   {}
func (MemberAction) isEventAction()                   {}
func (CreateAction) isEventAction()                   {}
func (UnknownAction) isEventAction()                  {}
