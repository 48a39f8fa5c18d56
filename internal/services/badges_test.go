package services

import (
	"testing"

	"codefest/internal/models"
)

func TestQualifiesPRCount(t *testing.T) {
	badge := &models.Badge{CriteriaType: models.CriteriaPRCount, Threshold: 5}

	user := &models.User{TotalPRs: 4}
	if Qualifies(badge, user, 0) {
		t.Error("4 PRs should not qualify for threshold 5")
	}

	user.TotalPRs = 5
	if !Qualifies(badge, user, 0) {
		t.Error("5 PRs should qualify for threshold 5")
	}
}

func TestQualifiesMergedPRs(t *testing.T) {
	badge := &models.Badge{CriteriaType: models.CriteriaMergedPRs, Threshold: 1}

	user := &models.User{TotalPRs: 10, MergedPRs: 0}
	if Qualifies(badge, user, 0) {
		t.Error("no merged PRs should not qualify")
	}

	user.MergedPRs = 1
	if !Qualifies(badge, user, 0) {
		t.Error("1 merged PR should qualify for threshold 1")
	}
}

func TestQualifiesPoints(t *testing.T) {
	badge := &models.Badge{CriteriaType: models.CriteriaPoints, Threshold: 100}

	user := &models.User{Points: 99}
	if Qualifies(badge, user, 0) {
		t.Error("99 points should not qualify for threshold 100")
	}

	user.Points = 100
	if !Qualifies(badge, user, 0) {
		t.Error("100 points should qualify for threshold 100")
	}
}

func TestQualifiesStreak(t *testing.T) {
	badge := &models.Badge{CriteriaType: models.CriteriaStreak, Threshold: 7}
	user := &models.User{}

	if Qualifies(badge, user, 6) {
		t.Error("6 recent PRs should not qualify for streak 7")
	}
	if !Qualifies(badge, user, 7) {
		t.Error("7 recent PRs should qualify for streak 7")
	}
}

func TestQualifiesSpecialNeverAuto(t *testing.T) {
	badge := &models.Badge{CriteriaType: models.CriteriaSpecial, Threshold: 0}

	// 无论统计多高，special 都不自动授予
	user := &models.User{TotalPRs: 1000, MergedPRs: 1000, Points: 100000}
	if Qualifies(badge, user, 1000) {
		t.Error("special badges must never auto-qualify")
	}
}
