package services

import (
	"testing"

	"codefest/internal/models"
)

func TestCalculatePointsBaseStatus(t *testing.T) {
	cases := []struct {
		status string
		want   int
	}{
		{models.PRStatusMerged, 10},
		{models.PRStatusOpen, 5},
		{models.PRStatusClosed, 2},
		{models.PRStatusDraft, 0},
		{"unknown", 0},
	}

	for _, tc := range cases {
		pr := &models.PullRequest{Status: tc.status}
		if got := CalculatePoints(pr); got != tc.want {
			t.Errorf("status %s: expected %d, got %d", tc.status, tc.want, got)
		}
	}
}

func TestCalculatePointsSizeBonus(t *testing.T) {
	// 合并 + 110 行变更：10 + 3
	pr := &models.PullRequest{
		Status:       models.PRStatusMerged,
		Additions:    80,
		Deletions:    30,
		ChangedFiles: 3,
	}
	if got := CalculatePoints(pr); got != 13 {
		t.Errorf("expected 13, got %d", got)
	}

	// 恰好 100 行不触发加成
	pr = &models.PullRequest{Status: models.PRStatusMerged, Additions: 100}
	if got := CalculatePoints(pr); got != 10 {
		t.Errorf("expected 10 at exactly 100 changes, got %d", got)
	}

	// 两档加成独立叠加：600 行变更 = +3 +5
	pr = &models.PullRequest{Status: models.PRStatusMerged, Additions: 600}
	if got := CalculatePoints(pr); got != 18 {
		t.Errorf("expected 18 at 600 changes, got %d", got)
	}
}

func TestCalculatePointsFullBonus(t *testing.T) {
	// 合并 + 600 行 + 8 个文件 + 审核通过 = 10+3+5+2+5
	pr := &models.PullRequest{
		Status:           models.PRStatusMerged,
		Additions:        400,
		Deletions:        200,
		ChangedFiles:     8,
		Commits:          4,
		IsValidated:      true,
		ValidationStatus: models.ValidationApproved,
	}
	if got := CalculatePoints(pr); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
}

func TestCalculatePointsValidationBonus(t *testing.T) {
	// 审核未通过不加分
	pr := &models.PullRequest{
		Status:           models.PRStatusOpen,
		IsValidated:      true,
		ValidationStatus: models.ValidationRejected,
	}
	if got := CalculatePoints(pr); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}

	// 标记通过但未审核也不加分
	pr = &models.PullRequest{
		Status:           models.PRStatusOpen,
		IsValidated:      false,
		ValidationStatus: models.ValidationApproved,
	}
	if got := CalculatePoints(pr); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
}

func TestCalculatePointsDeterministic(t *testing.T) {
	// 纯函数：同样输入多次计算结果一致
	pr := &models.PullRequest{
		Status:       models.PRStatusMerged,
		Additions:    250,
		Deletions:    100,
		ChangedFiles: 12,
	}
	first := CalculatePoints(pr)
	for i := 0; i < 10; i++ {
		if got := CalculatePoints(pr); got != first {
			t.Fatalf("expected deterministic result %d, got %d", first, got)
		}
	}
}
