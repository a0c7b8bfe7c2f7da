package util

import "testing"

func TestParseGitHubRepo(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"ssh", "git@github.com:acme/widgets.git", "acme/widgets"},
		{"https", "https://github.com/acme/widgets.git", "acme/widgets"},
		{"https no suffix", "https://github.com/acme/widgets", "acme/widgets"},
		{"ssh url form", "ssh://git@github.com/acme/widgets.git", "acme/widgets"},
		{"gitlab", "git@gitlab.com:acme/widgets.git", ""},
		{"missing repo", "https://github.com/acme", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseGitHubRepo(tt.url); got != tt.want {
				t.Fatalf("ParseGitHubRepo(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
