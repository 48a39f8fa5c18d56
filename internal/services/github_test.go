package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

func TestGithubClientListPullRequests(t *testing.T) {
	// 模拟 GitHub API：第一页整页 100 条，第二页 2 条
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("unexpected accept header %q", got)
		}
		if r.URL.Path != "/repos/octo/demo/pulls" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("state") != "all" {
			t.Errorf("expected state=all, got %s", r.URL.Query().Get("state"))
		}

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		count := 100
		if page >= 2 {
			count = 2
		}

		prs := make([]GithubPR, count)
		for i := range prs {
			prs[i].ID = int64((page-1)*100 + i + 1)
			prs[i].Number = (page-1)*100 + i + 1
			prs[i].State = "open"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prs)
	}))
	defer server.Close()

	client := NewGithubClient("test-token")
	client.BaseURL = server.URL

	prs, err := client.ListPullRequests("octo", "demo")
	if err != nil {
		t.Fatalf("ListPullRequests failed: %v", err)
	}
	if len(prs) != 102 {
		t.Errorf("expected 102 PRs across two pages, got %d", len(prs))
	}
	if prs[101].Number != 102 {
		t.Errorf("expected last PR number 102, got %d", prs[101].Number)
	}
}

func TestGithubClientListSinglePage(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `[{"id": 1, "number": 1, "state": "closed"}]`)
	}))
	defer server.Close()

	client := NewGithubClient("")
	client.BaseURL = server.URL

	prs, err := client.ListPullRequests("octo", "demo")
	if err != nil {
		t.Fatalf("ListPullRequests failed: %v", err)
	}
	if len(prs) != 1 {
		t.Errorf("expected 1 PR, got %d", len(prs))
	}
	// 不足一页应立即停止，不再翻页
	if requests != 1 {
		t.Errorf("expected exactly 1 request, got %d", requests)
	}
}

func TestGithubClientGetPullRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/octo/demo/pulls/42" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		// 匿名调用不应带 Authorization 头
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("expected no auth header, got %q", got)
		}
		fmt.Fprint(w, `{
			"id": 9001,
			"number": 42,
			"title": "修复同步逻辑",
			"state": "closed",
			"merged_at": "2025-11-01T12:00:00Z",
			"user": {"login": "octocat"},
			"additions": 120,
			"deletions": 30,
			"changed_files": 6,
			"commits": 3
		}`)
	}))
	defer server.Close()

	client := NewGithubClient("")
	client.BaseURL = server.URL

	pr, err := client.GetPullRequest("octo", "demo", 42)
	if err != nil {
		t.Fatalf("GetPullRequest failed: %v", err)
	}
	if pr.ID != 9001 || pr.Number != 42 {
		t.Errorf("unexpected PR identity: id=%d number=%d", pr.ID, pr.Number)
	}
	if pr.User.Login != "octocat" {
		t.Errorf("expected author octocat, got %s", pr.User.Login)
	}
	if pr.MergedAt == nil {
		t.Error("expected merged_at to be parsed")
	}
	if pr.Additions != 120 || pr.Deletions != 30 || pr.ChangedFiles != 6 || pr.Commits != 3 {
		t.Errorf("diff metrics not parsed: %+v", pr)
	}
}

func TestGithubClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	}))
	defer server.Close()

	client := NewGithubClient("")
	client.BaseURL = server.URL

	if _, err := client.ListPullRequests("octo", "gone"); err == nil {
		t.Error("expected error on 404 response")
	}
	if _, err := client.GetPullRequest("octo", "gone", 1); err == nil {
		t.Error("expected error on 404 response")
	}
}
