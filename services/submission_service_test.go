package services

import (
	"context"
	"sync"
	"testing"

	"github.com/Dxrie/skictf/models"
)

const (
	teamAlpha uint32 = 1
	teamBeta  uint32 = 2

	alphaLeader uint32 = 10
	alphaMate   uint32 = 11
	betaLeader  uint32 = 20
	lonelyUser  uint32 = 30
	adminUser   uint32 = 99

	challWelcome uint32 = 1
	challCrypto  uint32 = 2
	challIntro   uint32 = 3
)

func ref(id uint32) *uint32 { return &id }

func newTestEnv(opts ...SubmissionOption) (*memStores, *SubmissionService) {
	stores := newMemStores()

	stores.state.teams[teamAlpha] = models.Team{ID: teamAlpha, Name: "Alpha", LeaderID: alphaLeader}
	stores.state.teams[teamBeta] = models.Team{ID: teamBeta, Name: "Beta", LeaderID: betaLeader}

	stores.state.users[alphaLeader] = models.User{ID: alphaLeader, Username: "alice", TeamID: ref(teamAlpha)}
	stores.state.users[alphaMate] = models.User{ID: alphaMate, Username: "bob", TeamID: ref(teamAlpha)}
	stores.state.users[betaLeader] = models.User{ID: betaLeader, Username: "carol", TeamID: ref(teamBeta)}
	stores.state.users[lonelyUser] = models.User{ID: lonelyUser, Username: "dave"}
	stores.state.users[adminUser] = models.User{ID: adminUser, Username: "root", IsAdmin: true}

	stores.state.challenges[challWelcome] = models.Challenge{
		ID: challWelcome, Title: "Welcome", Points: 100, Flag: "SKICTF{flag1}",
	}
	stores.state.challenges[challCrypto] = models.Challenge{
		ID: challCrypto, Title: "RSA 101", Points: 250, Flag: "SKICTF{Choose_Better_Primes}",
	}
	stores.state.challenges[challIntro] = models.Challenge{
		ID: challIntro, Title: "Read The Rules", Points: 0, Flag: "SKICTF{i_read_them}",
	}

	return stores, NewSubmissionService(stores, opts...)
}

func (m *memStores) teamScore(id uint32) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.teams[id].Score
}

func (m *memStores) solveCount(id uint32) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.challenges[id].SolveCount
}

func TestSubmitFlagScoresFirstSolve(t *testing.T) {
	stores, svc := newTestEnv()

	result := svc.SubmitFlag(context.Background(), alphaLeader, challWelcome, "SKICTF{flag1}")
	if result.Outcome != OutcomeSuccess {
		t.Fatalf("expected success, got %v", result.Outcome)
	}
	if !result.NewSolve || !result.FirstBlood {
		t.Errorf("expected new solve with first blood, got %+v", result)
	}

	if got := stores.teamScore(teamAlpha); got != 100 {
		t.Errorf("expected Alpha score 100, got %d", got)
	}
	if got := stores.solveCount(challWelcome); got != 1 {
		t.Errorf("expected solve count 1, got %d", got)
	}
	if len(stores.state.firstBloods) != 1 {
		t.Fatalf("expected 1 first blood record, got %d", len(stores.state.firstBloods))
	}
	fb := stores.state.firstBloods[0]
	if fb.ChallengeID != challWelcome || fb.TeamID != teamAlpha {
		t.Errorf("first blood references wrong challenge/team: %+v", fb)
	}
	if len(stores.state.solveLogs) != 1 || stores.state.solveLogs[0].UserID != alphaLeader {
		t.Errorf("expected exactly one solve log for the submitting member, got %+v", stores.state.solveLogs)
	}
}

// 0 分题是合法题目，加 0 分的 UPDATE 在 MySQL 下不改动任何行，
// 不能把它误判成队伍不存在；解题记录、一血、日志照常落库。
func TestSubmitFlagZeroPointChallenge(t *testing.T) {
	stores, svc := newTestEnv()

	result := svc.SubmitFlag(context.Background(), alphaLeader, challIntro, "SKICTF{i_read_them}")
	if result.Outcome != OutcomeSuccess {
		t.Fatalf("expected success, got %v", result.Outcome)
	}
	if !result.NewSolve || !result.FirstBlood {
		t.Errorf("expected new solve with first blood, got %+v", result)
	}
	if result.Points != 0 {
		t.Errorf("expected 0 points awarded, got %d", result.Points)
	}

	if got := stores.teamScore(teamAlpha); got != 0 {
		t.Errorf("expected Alpha score to stay 0, got %d", got)
	}
	if got := stores.solveCount(challIntro); got != 1 {
		t.Errorf("expected solve count 1, got %d", got)
	}
	if len(stores.state.firstBloods) != 1 {
		t.Errorf("expected 1 first blood record, got %d", len(stores.state.firstBloods))
	}
	if len(stores.state.solveLogs) != 1 {
		t.Errorf("expected 1 solve log, got %d", len(stores.state.solveLogs))
	}
}

func TestSubmitFlagTeammateRepeatDoesNotRescore(t *testing.T) {
	stores, svc := newTestEnv()
	ctx := context.Background()

	if r := svc.SubmitFlag(ctx, alphaLeader, challWelcome, "SKICTF{flag1}"); r.Outcome != OutcomeSuccess {
		t.Fatalf("first submission failed: %v", r.Outcome)
	}
	r := svc.SubmitFlag(ctx, alphaMate, challWelcome, "SKICTF{flag1}")

	// 对外契约：重复正确提交同样报告成功
	if r.Outcome != OutcomeSuccess {
		t.Fatalf("repeat submission should still report success, got %v", r.Outcome)
	}
	if r.NewSolve {
		t.Error("repeat submission must not count as a new solve")
	}
	if got := stores.teamScore(teamAlpha); got != 100 {
		t.Errorf("score must be awarded exactly once, got %d", got)
	}
	if got := stores.solveCount(challWelcome); got != 1 {
		t.Errorf("solve count must stay at 1, got %d", got)
	}
	if len(stores.state.firstBloods) != 1 {
		t.Errorf("expected 1 first blood record, got %d", len(stores.state.firstBloods))
	}
	// 原始契约：队友的重复正确提交不产生审计日志
	if len(stores.state.solveLogs) != 1 {
		t.Errorf("expected 1 solve log, got %d", len(stores.state.solveLogs))
	}
}

func TestSubmitFlagRepeatSolveLoggingOption(t *testing.T) {
	stores, svc := newTestEnv(WithRepeatSolveLogging(true))
	ctx := context.Background()

	svc.SubmitFlag(ctx, alphaLeader, challWelcome, "SKICTF{flag1}")
	svc.SubmitFlag(ctx, alphaMate, challWelcome, "SKICTF{flag1}")

	if got := stores.teamScore(teamAlpha); got != 100 {
		t.Errorf("score must still be awarded once, got %d", got)
	}
	if len(stores.state.solveLogs) != 2 {
		t.Errorf("expected both members logged, got %d entries", len(stores.state.solveLogs))
	}
}

func TestSubmitFlagIncorrect(t *testing.T) {
	stores, svc := newTestEnv()

	r := svc.SubmitFlag(context.Background(), betaLeader, challWelcome, "SKICTF{WRONG}")
	if r.Outcome != OutcomeIncorrectFlag {
		t.Fatalf("expected incorrect flag, got %v", r.Outcome)
	}
	if stores.teamScore(teamBeta) != 0 || stores.solveCount(challWelcome) != 0 {
		t.Error("incorrect submission must not mutate any state")
	}
	if len(stores.state.firstBloods) != 0 || len(stores.state.solveLogs) != 0 {
		t.Error("incorrect submission must not create records")
	}
}

func TestSubmitFlagFormat(t *testing.T) {
	_, svc := newTestEnv()
	ctx := context.Background()

	if r := svc.SubmitFlag(ctx, alphaLeader, challWelcome, "FLAG{flag1}"); r.Outcome != OutcomeInvalidFormat {
		t.Errorf("wrong prefix: expected invalid format, got %v", r.Outcome)
	}
	if r := svc.SubmitFlag(ctx, alphaLeader, challWelcome, ""); r.Outcome != OutcomeInvalidFormat {
		t.Errorf("empty flag: expected invalid format, got %v", r.Outcome)
	}
	// 前缀大小写不敏感
	if r := svc.SubmitFlag(ctx, alphaLeader, challWelcome, "skictf{flag1}"); r.Outcome != OutcomeSuccess {
		t.Errorf("lowercase prefix must be accepted, got %v", r.Outcome)
	}
	// 内容大小写敏感
	if r := svc.SubmitFlag(ctx, betaLeader, challCrypto, "SKICTF{choose_better_primes}"); r.Outcome != OutcomeIncorrectFlag {
		t.Errorf("content is case-sensitive, got %v", r.Outcome)
	}
}

func TestSubmitFlagAuthGates(t *testing.T) {
	_, svc := newTestEnv()
	ctx := context.Background()

	if r := svc.SubmitFlag(ctx, 0, challWelcome, "SKICTF{flag1}"); r.Outcome != OutcomeUnauthorized {
		t.Errorf("caller id 0: expected unauthorized, got %v", r.Outcome)
	}
	if r := svc.SubmitFlag(ctx, 777, challWelcome, "SKICTF{flag1}"); r.Outcome != OutcomeUnauthorized {
		t.Errorf("unknown caller: expected unauthorized, got %v", r.Outcome)
	}
	if r := svc.SubmitFlag(ctx, lonelyUser, challWelcome, "SKICTF{flag1}"); r.Outcome != OutcomeNoTeam {
		t.Errorf("user without team: expected no team, got %v", r.Outcome)
	}
	if r := svc.SubmitFlag(ctx, alphaLeader, 404, "SKICTF{flag1}"); r.Outcome != OutcomeNotFound {
		t.Errorf("missing challenge: expected not found, got %v", r.Outcome)
	}
}

func TestSubmitFlagAdminExemption(t *testing.T) {
	stores, svc := newTestEnv()

	r := svc.SubmitFlag(context.Background(), adminUser, challWelcome, "SKICTF{flag1}")
	if r.Outcome != OutcomeSuccess {
		t.Fatalf("admin with correct flag must get success, got %v", r.Outcome)
	}
	if r.NewSolve || r.FirstBlood {
		t.Error("admin submission must not enter the ledger")
	}
	if stores.solveCount(challWelcome) != 0 {
		t.Error("admin submission must not increment solve count")
	}
	if len(stores.state.firstBloods) != 0 || len(stores.state.solveLogs) != 0 {
		t.Error("admin submission must not create first blood or log entries")
	}
}

func TestSubmitFlagFirstBloodOnlyForFirstTeam(t *testing.T) {
	stores, svc := newTestEnv()
	ctx := context.Background()

	if r := svc.SubmitFlag(ctx, alphaLeader, challWelcome, "SKICTF{flag1}"); !r.FirstBlood {
		t.Fatal("first team must take first blood")
	}
	r := svc.SubmitFlag(ctx, betaLeader, challWelcome, "SKICTF{flag1}")
	if r.Outcome != OutcomeSuccess || !r.NewSolve {
		t.Fatalf("second team solve failed: %+v", r)
	}
	if r.FirstBlood {
		t.Error("second team must not take first blood")
	}

	if len(stores.state.firstBloods) != 1 || stores.state.firstBloods[0].TeamID != teamAlpha {
		t.Errorf("expected exactly one first blood for Alpha, got %+v", stores.state.firstBloods)
	}
	if stores.teamScore(teamBeta) != 100 {
		t.Errorf("Beta must still score, got %d", stores.teamScore(teamBeta))
	}
	if stores.solveCount(challWelcome) != 2 {
		t.Errorf("expected solve count 2, got %d", stores.solveCount(challWelcome))
	}
}

func TestSubmitFlagScoresAtCurrentPointValue(t *testing.T) {
	stores, svc := newTestEnv()
	ctx := context.Background()

	svc.SubmitFlag(ctx, alphaLeader, challWelcome, "SKICTF{flag1}")

	// 管理员赛中改分，之后的解题按新分值计
	stores.mu.Lock()
	ch := stores.state.challenges[challWelcome]
	ch.Points = 50
	stores.state.challenges[challWelcome] = ch
	stores.mu.Unlock()

	svc.SubmitFlag(ctx, betaLeader, challWelcome, "SKICTF{flag1}")

	if got := stores.teamScore(teamAlpha); got != 100 {
		t.Errorf("Alpha solved at 100 points, got %d", got)
	}
	if got := stores.teamScore(teamBeta); got != 50 {
		t.Errorf("Beta solved after the edit and must score 50, got %d", got)
	}
}

func TestSubmitFlagConcurrentSameTeam(t *testing.T) {
	stores, svc := newTestEnv()

	const attempts = 20
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		member := alphaLeader
		if i%2 == 1 {
			member = alphaMate
		}
		go func(userID uint32) {
			defer wg.Done()
			r := svc.SubmitFlag(context.Background(), userID, challWelcome, "SKICTF{flag1}")
			if r.Outcome != OutcomeSuccess {
				t.Errorf("concurrent submission failed: %v", r.Outcome)
			}
		}(member)
	}
	wg.Wait()

	if got := stores.teamScore(teamAlpha); got != 100 {
		t.Errorf("expected exactly one score award, got score %d", got)
	}
	if got := stores.solveCount(challWelcome); got != 1 {
		t.Errorf("expected solve count 1, got %d", got)
	}
	if len(stores.state.firstBloods) != 1 {
		t.Errorf("expected exactly one first blood, got %d", len(stores.state.firstBloods))
	}
	if len(stores.state.solveLogs) != 1 {
		t.Errorf("expected exactly one solve log, got %d", len(stores.state.solveLogs))
	}
}

func TestSubmitFlagRetriesTransientFailures(t *testing.T) {
	stores, svc := newTestEnv(WithMaxRetries(3))
	stores.failNextAtomic = 2

	r := svc.SubmitFlag(context.Background(), alphaLeader, challWelcome, "SKICTF{flag1}")
	if r.Outcome != OutcomeSuccess {
		t.Fatalf("expected success after retries, got %v", r.Outcome)
	}
	if stores.atomicCalls != 3 {
		t.Errorf("expected 3 transaction attempts, got %d", stores.atomicCalls)
	}
	if stores.teamScore(teamAlpha) != 100 || stores.solveCount(challWelcome) != 1 {
		t.Error("state must be fully applied exactly once after retry")
	}
}

func TestSubmitFlagRetriesExhausted(t *testing.T) {
	stores, svc := newTestEnv(WithMaxRetries(3))
	stores.failNextAtomic = 3

	r := svc.SubmitFlag(context.Background(), alphaLeader, challWelcome, "SKICTF{flag1}")
	if r.Outcome != OutcomeInternal {
		t.Fatalf("expected internal failure, got %v", r.Outcome)
	}
	// 失败后不能留下半截状态
	if stores.teamScore(teamAlpha) != 0 || stores.solveCount(challWelcome) != 0 {
		t.Error("failed submission must leave no partial state")
	}
	if len(stores.state.solves) != 0 || len(stores.state.solveLogs) != 0 {
		t.Error("failed submission must leave no ledger or log rows")
	}
}

// 不变量：任意提交序列后 solveCount 等于台账行数，
// 队伍分数等于其解出题目的分值之和
func TestLedgerAndScoreInvariants(t *testing.T) {
	stores, svc := newTestEnv()
	ctx := context.Background()

	submissions := []struct {
		user      uint32
		challenge uint32
		flag      string
	}{
		{alphaLeader, challWelcome, "SKICTF{flag1}"},
		{betaLeader, challWelcome, "SKICTF{flag1}"},
		{alphaMate, challWelcome, "SKICTF{flag1}"},
		{alphaLeader, challCrypto, "SKICTF{Choose_Better_Primes}"},
		{betaLeader, challCrypto, "SKICTF{wrong}"},
		{adminUser, challCrypto, "SKICTF{Choose_Better_Primes}"},
	}
	for _, sub := range submissions {
		svc.SubmitFlag(ctx, sub.user, sub.challenge, sub.flag)
	}

	stores.mu.Lock()
	defer stores.mu.Unlock()

	for id, ch := range stores.state.challenges {
		var rows uint
		for key := range stores.state.solves {
			if key.challengeID == id {
				rows++
			}
		}
		if ch.SolveCount != rows {
			t.Errorf("challenge %d: solveCount %d != %d ledger rows", id, ch.SolveCount, rows)
		}
	}

	for teamID, team := range stores.state.teams {
		var want uint
		for key := range stores.state.solves {
			if key.teamID == teamID {
				want += stores.state.challenges[key.challengeID].Points
			}
		}
		if team.Score != want {
			t.Errorf("team %d: score %d != sum of solved points %d", teamID, team.Score, want)
		}
	}
}
