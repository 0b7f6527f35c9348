package domain

// Feed is the merged activity of several users, newest first.
type Feed struct {
	Events   []Event
	Failures []UserFailure // users whose fetch or decode failed; absent from Events
}

// UserFailure records why a user's events are missing from a Feed.
type UserFailure struct {
	Username string
	Err      error
}
