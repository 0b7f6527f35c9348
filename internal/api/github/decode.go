package github

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/vilaca/activity-feed/internal/domain"
)

// ErrDecode is matched by every *DecodeError via errors.Is.
var ErrDecode = errors.New("decode error")

// DecodeError reports a malformed or missing required field in an event.
type DecodeError struct {
	Index   int    // position in the batch, -1 for a single event
	RawType string // upstream "type" tag, empty if it could not be read
	Path    string // gjson path of the offending field, empty for the whole document
	Reason  string
}

func (e *DecodeError) Error() string {
	where := "event"
	if e.Index >= 0 {
		where = fmt.Sprintf("event[%d]", e.Index)
	}
	if e.RawType != "" {
		where += " (" + e.RawType + ")"
	}
	if e.Path == "" {
		return fmt.Sprintf("decode %s: %s", where, e.Reason)
	}
	return fmt.Sprintf("decode %s: %s: %s", where, e.Path, e.Reason)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// actionDecoder reads one event type's payload from the event object.
type actionDecoder func(r *fieldReader) domain.EventAction

// actionDecoders maps upstream type tags to payload readers. Tags missing here decode as UnknownAction.
var actionDecoders = map[string]actionDecoder{
	"PushEvent":                     decodePush,
	"ForkEvent":                     func(*fieldReader) domain.EventAction { return domain.ForkAction{} },
	"PullRequestReviewCommentEvent": decodePullRequestReviewComment,
	"PullRequestEvent":              decodePullRequestEvent,
	"IssueCommentEvent":             decodeIssueComment,
	"IssuesEvent":                   decodeIssues,
	"CommitCommentEvent":            decodeCommitComment,
	"WatchEvent":                    func(*fieldReader) domain.EventAction { return domain.WatchAction{} },
	"DeleteEvent":                   decodeDelete,
	"MemberEvent":                   decodeMember,
	"CreateEvent":                   decodeCreate,
}

// DecodeEvent parses a single raw event object. It has no side effects;
// unrecognized type tags yield domain.UnknownAction rather than an error.
func DecodeEvent(raw []byte) (domain.Event, error) {
	if !gjson.ValidBytes(raw) {
		return domain.Event{}, &DecodeError{Index: -1, Reason: "invalid JSON"}
	}
	return decodeEvent(gjson.ParseBytes(raw), -1)
}

func decodeEvent(obj gjson.Result, index int) (domain.Event, error) {
	if !obj.IsObject() {
		return domain.Event{}, &DecodeError{Index: index, Reason: fmt.Sprintf("expected object, got %s", describeType(obj))}
	}

	// Read the tag up front only to label errors; it is validated in order below.
	r := &fieldReader{obj: obj, index: index, rawType: obj.Get("type").Str}

	// gjson resolves a repeated key to its first occurrence while most
	// decoders keep the last, so such documents are ambiguous.
	if path, dup := duplicateKey(obj, ""); dup {
		r.fail(path, "duplicate key")
		return domain.Event{}, r.err
	}

	event := domain.Event{
		ID:        r.str("id"),
		CreatedAt: r.str("created_at"),
		Actor: domain.Actor{
			DisplayLogin: r.str("actor.display_login"),
			URL:          NormalizeURL(r.str("actor.url")),
			AvatarURL:    NormalizeURL(r.str("actor.avatar_url")),
		},
		Repo: domain.Repo{
			Name: r.str("repo.name"),
			URL:  NormalizeURL(r.str("repo.url")),
		},
	}
	rawType := r.str("type")
	if r.err != nil {
		return domain.Event{}, r.err
	}

	decode, ok := actionDecoders[rawType]
	if !ok {
		event.Action = domain.UnknownAction{RawType: rawType}
		return event, nil
	}

	action := decode(r)
	if r.err != nil {
		return domain.Event{}, r.err
	}
	event.Action = action
	return event, nil
}

func decodePush(r *fieldReader) domain.EventAction {
	head := r.str("payload.head")
	n := r.array("payload.commits")
	commits := make([]domain.Commit, 0, n)
	for i := 0; i < n; i++ {
		commits = append(commits, domain.Commit{SHA: r.str("payload.commits." + strconv.Itoa(i) + ".sha")})
	}
	return domain.PushAction{Head: head, Commits: commits}
}

func decodePullRequestReviewComment(r *fieldReader) domain.EventAction {
	return domain.PullRequestReviewCommentAction{
		Comment:     domain.Comment{URL: r.str("payload.comment.html_url")},
		PullRequest: readPullRequest(r),
	}
}

func decodePullRequestEvent(r *fieldReader) domain.EventAction {
	return domain.PullRequestAction{PullRequest: readPullRequest(r)}
}

func decodeIssueComment(r *fieldReader) domain.EventAction {
	return domain.IssueCommentAction{
		Issue:   readIssue(r),
		Comment: domain.Comment{URL: r.str("payload.comment.html_url")},
	}
}

func decodeIssues(r *fieldReader) domain.EventAction {
	return domain.IssueAction{
		Action: r.str("payload.action"),
		Issue:  readIssue(r),
	}
}

func decodeCommitComment(r *fieldReader) domain.EventAction {
	return domain.CommitCommentAction{URL: r.str("payload.comment.html_url")}
}

func decodeDelete(r *fieldReader) domain.EventAction {
	return domain.DeleteAction{
		Ref:     r.str("payload.ref"),
		RefType: r.str("payload.ref_type"),
	}
}

func decodeMember(r *fieldReader) domain.EventAction {
	return domain.MemberAction{
		Action:      r.str("payload.action"),
		MemberLogin: r.str("payload.member.login"),
	}
}

func decodeCreate(r *fieldReader) domain.EventAction {
	return domain.CreateAction{
		Ref:         r.optStr("payload.ref"),
		RefType:     r.str("payload.ref_type"),
		Description: r.optStr("payload.description"),
	}
}

func readPullRequest(r *fieldReader) domain.PullRequest {
	return domain.PullRequest{
		Action: r.str("payload.action"),
		Number: r.integer("payload.pull_request.number"),
		URL:    r.str("payload.pull_request.html_url"),
		Title:  r.str("payload.pull_request.title"),
	}
}

func readIssue(r *fieldReader) domain.Issue {
	return domain.Issue{
		Number: r.integer("payload.issue.number"),
		URL:    r.str("payload.issue.html_url"),
		Title:  r.str("payload.issue.title"),
	}
}

// fieldReader performs path lookups on one event and keeps the first failure.
// Once err is set every read returns the zero value.
type fieldReader struct {
	obj     gjson.Result
	index   int
	rawType string
	err     *DecodeError
}

func (r *fieldReader) fail(path, reason string) {
	if r.err == nil {
		r.err = &DecodeError{Index: r.index, RawType: r.rawType, Path: path, Reason: reason}
	}
}

// lookup returns the value at path, or false after recording a missing field.
func (r *fieldReader) lookup(path string) (gjson.Result, bool) {
	if r.err != nil {
		return gjson.Result{}, false
	}
	v := r.obj.Get(path)
	if !v.Exists() {
		r.fail(path, "missing field")
		return gjson.Result{}, false
	}
	return v, true
}

func (r *fieldReader) str(path string) string {
	v, ok := r.lookup(path)
	if !ok {
		return ""
	}
	if v.Type != gjson.String {
		r.fail(path, "expected string, got "+describeType(v))
		return ""
	}
	return v.Str
}

func (r *fieldReader) integer(path string) int {
	v, ok := r.lookup(path)
	if !ok {
		return 0
	}
	if v.Type != gjson.Number {
		r.fail(path, "expected integer, got "+describeType(v))
		return 0
	}
	if n, err := strconv.ParseInt(v.Raw, 10, 64); err == nil {
		return int(n)
	}
	// Integral floats such as 7.0 or 1e3 are accepted if they fit in an int64.
	if v.Num != math.Trunc(v.Num) || v.Num < math.MinInt64 || v.Num >= math.MaxInt64 {
		r.fail(path, "expected integer, got number "+v.Raw)
		return 0
	}
	return int(v.Num)
}

// array returns the length of the array at path.
func (r *fieldReader) array(path string) int {
	v, ok := r.lookup(path)
	if !ok {
		return 0
	}
	if !v.IsArray() {
		r.fail(path, "expected array, got "+describeType(v))
		return 0
	}
	return len(v.Array())
}

// optStr returns nil when the field is absent or null.
func (r *fieldReader) optStr(path string) *string {
	if r.err != nil {
		return nil
	}
	v := r.obj.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	if v.Type != gjson.String {
		r.fail(path, "expected string or null, got "+describeType(v))
		return nil
	}
	s := v.Str
	return &s
}

// duplicateKey reports the path of the first key that repeats within
// a single object anywhere below v.
func duplicateKey(v gjson.Result, prefix string) (string, bool) {
	var (
		found string
		dup   bool
	)
	switch {
	case v.IsObject():
		seen := make(map[string]struct{})
		v.ForEach(func(key, value gjson.Result) bool {
			path := joinPath(prefix, key.Str)
			if _, ok := seen[key.Str]; ok {
				found, dup = path, true
				return false
			}
			seen[key.Str] = struct{}{}
			found, dup = duplicateKey(value, path)
			return !dup
		})
	case v.IsArray():
		i := 0
		v.ForEach(func(_, value gjson.Result) bool {
			found, dup = duplicateKey(value, joinPath(prefix, strconv.Itoa(i)))
			i++
			return !dup
		})
	}
	return found, dup
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func describeType(v gjson.Result) string {
	switch {
	case v.IsArray():
		return "array"
	case v.IsObject():
		return "object"
	case v.Type == gjson.Number && v.Num != math.Trunc(v.Num):
		return "number " + v.Raw
	default:
		return v.Type.String()
	}
}
