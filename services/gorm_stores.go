package services

import (
	"context"
	"errors"
	"time"

	"github.com/Dxrie/skictf/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStores 基于 GORM/MySQL 的存储实现
type GormStores struct {
	db *gorm.DB
}

func NewGormStores(db *gorm.DB) *GormStores {
	return &GormStores{db: db}
}

func (s *GormStores) Atomic(ctx context.Context, fn func(tx SubmissionStores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStores{db: tx})
	})
}

func (s *GormStores) GetUserByID(ctx context.Context, id uint32) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStores) GetChallengeByID(ctx context.Context, id uint32) (*models.Challenge, error) {
	var challenge models.Challenge
	if err := s.db.WithContext(ctx).First(&challenge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// ConditionallyAddSolve 必须在 Atomic 事务内调用。
// 先对题目行加 FOR UPDATE 锁，锁内读到的 solve_count 即"更新前计数"；
// 再以 (challenge_id, team_id) 唯一索引做条件插入，撞索引说明该队已解出，
// 同队并发提交在这里串行化，恰好只有一个观察到 WasNew。
func (s *GormStores) ConditionallyAddSolve(ctx context.Context, challengeID, teamID uint32, at time.Time) (AddSolveResult, error) {
	db := s.db.WithContext(ctx)

	var challenge models.Challenge
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&challenge, challengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AddSolveResult{}, ErrChallengeNotFound
		}
		return AddSolveResult{}, err
	}

	solve := models.Solve{
		ChallengeID: challengeID,
		TeamID:      teamID,
		SolvedAt:    at,
	}
	insert := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&solve)
	if insert.Error != nil {
		return AddSolveResult{}, insert.Error
	}
	if insert.RowsAffected == 0 {
		// 该队已在台账中，计数不动
		return AddSolveResult{
			WasNew:        false,
			NewSolveCount: challenge.SolveCount,
			Points:        challenge.Points,
		}, nil
	}

	if err := db.Model(&models.Challenge{}).
		Where("id = ?", challengeID).
		UpdateColumn("solve_count", gorm.Expr("solve_count + 1")).Error; err != nil {
		return AddSolveResult{}, err
	}

	return AddSolveResult{
		WasNew:        true,
		WasFirst:      challenge.SolveCount == 0,
		NewSolveCount: challenge.SolveCount + 1,
		Points:        challenge.Points,
	}, nil
}

// IncrementScore 必须在 Atomic 事务内调用。
// MySQL 默认上报 changed rows 而非 matched rows，amount 为 0 时
// UPDATE 的 RowsAffected 恒为 0，不能据此判断队伍是否存在，
// 所以先加锁读确认队伍行再做累加。
func (s *GormStores) IncrementScore(ctx context.Context, teamID uint32, amount uint) error {
	db := s.db.WithContext(ctx)

	var team models.Team
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return err
	}

	return db.Model(&models.Team{}).
		Where("id = ?", teamID).
		UpdateColumn("score", gorm.Expr("score + ?", amount)).Error
}

func (s *GormStores) CreateFirstBlood(ctx context.Context, challengeID, teamID uint32, at time.Time) error {
	fb := models.FirstBlood{
		ChallengeID: challengeID,
		TeamID:      teamID,
		CreatedAt:   at,
	}
	return s.db.WithContext(ctx).Create(&fb).Error
}

func (s *GormStores) AppendSolveLog(ctx context.Context, userID, challengeID uint32, at time.Time) error {
	entry := models.SolveLog{
		UserID:      userID,
		ChallengeID: challengeID,
		SolvedAt:    at,
	}
	return s.db.WithContext(ctx).Create(&entry).Error
}
