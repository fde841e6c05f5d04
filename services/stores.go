package services

import (
	"context"
	"errors"
	"time"

	"github.com/Dxrie/skictf/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrTeamNotFound      = errors.New("team not found")
)

// AddSolveResult 是条件记账的结果。WasFirst 以同一次原子更新中观察到的
// 更新前计数为准，而不是事后另查一次。
type AddSolveResult struct {
	WasNew        bool
	WasFirst      bool
	NewSolveCount uint
	Points        uint
}

type UserStore interface {
	GetUserByID(ctx context.Context, id uint32) (*models.User, error)
}

type ChallengeStore interface {
	GetChallengeByID(ctx context.Context, id uint32) (*models.Challenge, error)
	// ConditionallyAddSolve 执行"队伍不在 solves 中才记账"的单次条件更新：
	// 对题目行加锁、条件插入解题行、递增 solve_count，三步不可分割。
	ConditionallyAddSolve(ctx context.Context, challengeID, teamID uint32, at time.Time) (AddSolveResult, error)
}

type TeamStore interface {
	IncrementScore(ctx context.Context, teamID uint32, amount uint) error
}

type FirstBloodStore interface {
	CreateFirstBlood(ctx context.Context, challengeID, teamID uint32, at time.Time) error
}

type SolveLogStore interface {
	AppendSolveLog(ctx context.Context, userID, challengeID uint32, at time.Time) error
}

// SubmissionStores 聚合提交核心依赖的全部存储契约。
// Atomic 内拿到的 stores 共享同一个事务，记账、计分、一血、审计
// 要么一起提交要么一起回滚。
type SubmissionStores interface {
	UserStore
	ChallengeStore
	TeamStore
	FirstBloodStore
	SolveLogStore

	Atomic(ctx context.Context, fn func(tx SubmissionStores) error) error
}
