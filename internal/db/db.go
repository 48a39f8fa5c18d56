package db

import (
	"log"
	"os"

	"codefest/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=codefest port=5432 sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.PullRequest{},
		&models.Badge{},
		&models.UserBadge{},
		&models.PointLog{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed default badges
	seedBadges()
}

func seedBadges() {
	// 检查是否已有徽章数据
	var count int64
	DB.Model(&models.Badge{}).Count(&count)
	if count > 0 {
		log.Println("Badges already seeded, skipping")
		return
	}

	// 创建预设徽章
	badges := []models.Badge{
		{Name: "初来乍到", Description: "提交第一个 PR", Icon: "🌱", Rarity: models.RarityCommon, CriteriaType: models.CriteriaPRCount, Threshold: 1, PointsReward: 5, IsActive: true, AutoAward: true},
		{Name: "渐入佳境", Description: "累计提交 5 个 PR", Icon: "🌿", Rarity: models.RarityCommon, CriteriaType: models.CriteriaPRCount, Threshold: 5, PointsReward: 10, IsActive: true, AutoAward: true},
		{Name: "首次合并", Description: "第一个 PR 被合并", Icon: "🎉", Rarity: models.RarityCommon, CriteriaType: models.CriteriaMergedPRs, Threshold: 1, PointsReward: 10, IsActive: true, AutoAward: true},
		{Name: "合并达人", Description: "累计 10 个 PR 被合并", Icon: "🚀", Rarity: models.RarityRare, CriteriaType: models.CriteriaMergedPRs, Threshold: 10, PointsReward: 30, IsActive: true, AutoAward: true},
		{Name: "百分选手", Description: "积分达到 100", Icon: "💯", Rarity: models.RarityRare, CriteriaType: models.CriteriaPoints, Threshold: 100, PointsReward: 20, IsActive: true, AutoAward: true},
		{Name: "积分大师", Description: "积分达到 500", Icon: "🏆", Rarity: models.RarityEpic, CriteriaType: models.CriteriaPoints, Threshold: 500, PointsReward: 50, IsActive: true, AutoAward: true},
		{Name: "七日冲刺", Description: "7 天内提交 7 个 PR", Icon: "🔥", Rarity: models.RarityEpic, CriteriaType: models.CriteriaStreak, Threshold: 7, PointsReward: 40, IsActive: true, AutoAward: true},
		{Name: "组委会之选", Description: "组委会特别表彰", Icon: "⭐", Rarity: models.RarityLegendary, CriteriaType: models.CriteriaSpecial, PointsReward: 100, IsActive: true, AutoAward: false},
	}

	for _, badge := range badges {
		if err := DB.Create(&badge).Error; err != nil {
			log.Printf("Failed to create badge %s: %v", badge.Name, err)
		}
	}
	log.Println("Initial badges created successfully")
}
