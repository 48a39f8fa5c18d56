package services

import (
	"testing"

	"codefest/internal/models"
)

func TestAssignRanks(t *testing.T) {
	// 已按积分降序排好的活跃用户
	users := []models.User{
		{ID: 3, Points: 120},
		{ID: 1, Points: 80},
		{ID: 5, Points: 40},
		{ID: 2, Points: 10},
	}

	AssignRanks(users)

	// 名次是 1..N 的排列，首位是最高分
	seen := make(map[int]bool)
	for i := range users {
		if users[i].Rank < 1 || users[i].Rank > len(users) {
			t.Fatalf("rank %d out of range", users[i].Rank)
		}
		if seen[users[i].Rank] {
			t.Fatalf("duplicate rank %d", users[i].Rank)
		}
		seen[users[i].Rank] = true
	}

	if users[0].Rank != 1 || users[0].ID != 3 {
		t.Errorf("highest points should be rank 1, got rank %d for user %d", users[0].Rank, users[0].ID)
	}
	if users[3].Rank != 4 {
		t.Errorf("lowest points should be rank 4, got %d", users[3].Rank)
	}
}

func TestAssignRanksEmpty(t *testing.T) {
	AssignRanks(nil) // 不应 panic
	AssignRanks([]models.User{})
}
