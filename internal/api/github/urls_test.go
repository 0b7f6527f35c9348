package github

import "testing"

// TestNormalizeURL tests the api-host to website rewrite.
func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"user", "https://api.github.com/users/octocat", "https://github.com/octocat"},
		{"repo", "https://api.github.com/repos/octocat/Hello-World", "https://github.com/octocat/Hello-World"},
		{"already normalized", "https://github.com/octocat", "https://github.com/octocat"},
		{"avatar untouched", "https://avatars.githubusercontent.com/u/583231?", "https://avatars.githubusercontent.com/u/583231?"},
		{"no segment slash", "https://api.github.com/users", "https://api.github.com/users"},
		{"no path", "https://api.github.com", "https://api.github.com"},
		{"empty", "", ""},
		{"enterprise host", "https://api.ghe.example.com/users/alice", "https://ghe.example.com/alice"},
		{"single rewrite only", "https://api.github.com/repos/api.x/y/z", "https://github.com/api.x/y/z"},
		{"first candidate fails", "api./x/https://api.github.com/users/bob", "api./x/https://github.com/bob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange & Act
			got := NormalizeURL(tt.input)

			// Assert
			if got != tt.expected {
				t.Errorf("NormalizeURL(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestNormalizeURL_Idempotent tests that normalizing twice changes nothing further
// for URLs whose result no longer carries an api. host.
func TestNormalizeURL_Idempotent(t *testing.T) {
	inputs := []string{
		"https://api.github.com/users/octocat",
		"https://api.github.com/repos/octocat/Hello-World",
		"https://github.com/octocat",
	}

	for _, in := range inputs {
		once := NormalizeURL(in)
		if twice := NormalizeURL(once); twice != once {
			t.Errorf("NormalizeURL not stable for %q: %q then %q", in, once, twice)
		}
	}
}
