package services

import (
	"testing"
	"time"

	"codefest/internal/models"
)

func TestDeriveStatus(t *testing.T) {
	mergedAt := time.Now()

	cases := []struct {
		name string
		pr   GithubPR
		want string
	}{
		{"merged", GithubPR{State: "closed", MergedAt: &mergedAt}, models.PRStatusMerged},
		{"merged_wins_over_draft", GithubPR{State: "open", Draft: true, MergedAt: &mergedAt}, models.PRStatusMerged},
		{"open_draft", GithubPR{State: "open", Draft: true}, models.PRStatusDraft},
		{"open", GithubPR{State: "open"}, models.PRStatusOpen},
		{"closed", GithubPR{State: "closed"}, models.PRStatusClosed},
		{"closed_draft", GithubPR{State: "closed", Draft: true}, models.PRStatusClosed},
		{"unknown_state", GithubPR{State: "weird"}, models.PRStatusDraft},
	}

	for _, tc := range cases {
		if got := deriveStatus(&tc.pr); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
