package services

import (
	"context"
	"errors"
	"log"
	"time"
)

// Outcome 是一次 Flag 提交的最终裁决
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeUnauthorized  Outcome = "unauthorized"
	OutcomeNoTeam        Outcome = "no_team"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeInvalidFormat Outcome = "invalid_format"
	OutcomeIncorrectFlag Outcome = "incorrect_flag"
	OutcomeInternal      Outcome = "internal"
)

// SubmitResult 对外只暴露 Outcome；NewSolve / FirstBlood / Points
// 供内部调用方（缓存失效、日志）使用，响应文案不区分首次与重复提交。
type SubmitResult struct {
	Outcome    Outcome
	NewSolve   bool
	FirstBlood bool
	Points     uint
}

// SubmissionService 提交编排器：按固定顺序走完
// 鉴权 → 题目存在 → 格式 → 内容 → 记账 → 计分/一血/审计 各道闸门。
type SubmissionService struct {
	stores SubmissionStores

	// maxRetries 是记账事务因内部错误失败后的最大重试次数，
	// 校验类失败一律不重试
	maxRetries int

	// logRepeatSolves 控制队友对已解出题目再次提交正确 Flag 时
	// 是否仍写入审计日志（原始系统不写，默认保持原样）
	logRepeatSolves bool

	now func() time.Time
}

type SubmissionOption func(*SubmissionService)

func WithMaxRetries(n int) SubmissionOption {
	return func(s *SubmissionService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

func WithRepeatSolveLogging(enabled bool) SubmissionOption {
	return func(s *SubmissionService) { s.logRepeatSolves = enabled }
}

func WithClock(now func() time.Time) SubmissionOption {
	return func(s *SubmissionService) { s.now = now }
}

func NewSubmissionService(stores SubmissionStores, opts ...SubmissionOption) *SubmissionService {
	s := &SubmissionService{
		stores:     stores,
		maxRetries: 3,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitFlag 处理一次 Flag 提交。
// 正确的 Flag 无论是否首次提交都返回 Success，外部契约不区分两者；
// 管理员提交只做校验，完全不参与记账、计分、一血和审计。
func (s *SubmissionService) SubmitFlag(ctx context.Context, callerID, challengeID uint32, flag string) SubmitResult {
	if callerID == 0 {
		return SubmitResult{Outcome: OutcomeUnauthorized}
	}

	user, err := s.stores.GetUserByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return SubmitResult{Outcome: OutcomeUnauthorized}
		}
		return SubmitResult{Outcome: OutcomeInternal}
	}

	if user.TeamID == nil && !user.IsAdmin {
		return SubmitResult{Outcome: OutcomeNoTeam}
	}

	challenge, err := s.stores.GetChallengeByID(ctx, challengeID)
	if err != nil {
		if errors.Is(err, ErrChallengeNotFound) {
			return SubmitResult{Outcome: OutcomeNotFound}
		}
		return SubmitResult{Outcome: OutcomeInternal}
	}

	if flag == "" {
		return SubmitResult{Outcome: OutcomeInvalidFormat}
	}
	switch err := MatchFlag(flag, challenge.Flag); {
	case errors.Is(err, ErrInvalidFlagFormat):
		log.Printf("Invalid flag format submitted by user %d for challenge %d", callerID, challengeID)
		return SubmitResult{Outcome: OutcomeInvalidFormat}
	case errors.Is(err, ErrIncorrectFlag):
		log.Printf("Incorrect flag submitted by user %d for challenge %d", callerID, challengeID)
		return SubmitResult{Outcome: OutcomeIncorrectFlag}
	}

	// 管理员（出题人/测试）提交正确 Flag 直接放行，不改任何状态
	if user.IsAdmin {
		return SubmitResult{Outcome: OutcomeSuccess}
	}

	teamID := *user.TeamID
	result, err := s.scoreWithRetry(ctx, callerID, teamID, challengeID)
	if err != nil {
		log.Printf("Scoring failed for user %d, challenge %d: %v", callerID, challengeID, err)
		return SubmitResult{Outcome: OutcomeInternal}
	}

	if result.WasNew {
		log.Printf("Challenge %d solved by team %d (+%d points, first blood: %v)",
			challengeID, teamID, result.Points, result.WasFirst)
	}

	return SubmitResult{
		Outcome:    OutcomeSuccess,
		NewSolve:   result.WasNew,
		FirstBlood: result.WasFirst,
		Points:     result.Points,
	}
}

// scoreWithRetry 在单个事务里完成记账、计分、一血和审计，
// 失败后整体重试，保证不会出现"记了账没加分"的半截状态。
func (s *SubmissionService) scoreWithRetry(ctx context.Context, userID, teamID, challengeID uint32) (AddSolveResult, error) {
	var result AddSolveResult
	var lastErr error

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		lastErr = s.stores.Atomic(ctx, func(tx SubmissionStores) error {
			at := s.now()

			res, err := tx.ConditionallyAddSolve(ctx, challengeID, teamID, at)
			if err != nil {
				return err
			}
			result = res

			if !res.WasNew {
				if s.logRepeatSolves {
					return tx.AppendSolveLog(ctx, userID, challengeID, at)
				}
				return nil
			}

			if err := tx.IncrementScore(ctx, teamID, res.Points); err != nil {
				return err
			}
			if res.WasFirst {
				if err := tx.CreateFirstBlood(ctx, challengeID, teamID, at); err != nil {
					return err
				}
			}
			return tx.AppendSolveLog(ctx, userID, challengeID, at)
		})
		if lastErr == nil {
			return result, nil
		}
		// 题目在校验后被删除属于明确失败，重试无意义
		if errors.Is(lastErr, ErrChallengeNotFound) || errors.Is(lastErr, ErrTeamNotFound) {
			return AddSolveResult{}, lastErr
		}
	}

	return AddSolveResult{}, lastErr
}
