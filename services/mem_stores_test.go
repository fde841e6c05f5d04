package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Dxrie/skictf/models"
)

// 测试用内存实现。Atomic 以全局互斥锁串行化"事务"，
// 失败时回滚到进入事务前的快照，语义上与数据库事务等价。

type solveKey struct {
	challengeID uint32
	teamID      uint32
}

type memState struct {
	users       map[uint32]models.User
	challenges  map[uint32]models.Challenge
	teams       map[uint32]models.Team
	solves      map[solveKey]time.Time
	firstBloods []models.FirstBlood
	solveLogs   []models.SolveLog
}

func newMemState() *memState {
	return &memState{
		users:      map[uint32]models.User{},
		challenges: map[uint32]models.Challenge{},
		teams:      map[uint32]models.Team{},
		solves:     map[solveKey]time.Time{},
	}
}

func (s *memState) clone() *memState {
	c := newMemState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.challenges {
		c.challenges[k] = v
	}
	for k, v := range s.teams {
		c.teams[k] = v
	}
	for k, v := range s.solves {
		c.solves[k] = v
	}
	c.firstBloods = append(c.firstBloods, s.firstBloods...)
	c.solveLogs = append(c.solveLogs, s.solveLogs...)
	return c
}

type memStores struct {
	mu    sync.Mutex
	state *memState

	// failNextAtomic > 0 时，接下来的 N 次事务直接失败（模拟数据库抖动）
	failNextAtomic int
	atomicCalls    int
}

func newMemStores() *memStores {
	return &memStores{state: newMemState()}
}

func (m *memStores) Atomic(ctx context.Context, fn func(tx SubmissionStores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.atomicCalls++
	if m.failNextAtomic > 0 {
		m.failNextAtomic--
		return errors.New("simulated transaction failure")
	}

	snapshot := m.state.clone()
	if err := fn(&memTx{state: m.state}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *memStores) GetUserByID(ctx context.Context, id uint32) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{state: m.state}).GetUserByID(ctx, id)
}

func (m *memStores) GetChallengeByID(ctx context.Context, id uint32) (*models.Challenge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{state: m.state}).GetChallengeByID(ctx, id)
}

func (m *memStores) ConditionallyAddSolve(ctx context.Context, challengeID, teamID uint32, at time.Time) (AddSolveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{state: m.state}).ConditionallyAddSolve(ctx, challengeID, teamID, at)
}

func (m *memStores) IncrementScore(ctx context.Context, teamID uint32, amount uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{state: m.state}).IncrementScore(ctx, teamID, amount)
}

func (m *memStores) CreateFirstBlood(ctx context.Context, challengeID, teamID uint32, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{state: m.state}).CreateFirstBlood(ctx, challengeID, teamID, at)
}

func (m *memStores) AppendSolveLog(ctx context.Context, userID, challengeID uint32, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&memTx{state: m.state}).AppendSolveLog(ctx, userID, challengeID, at)
}

// memTx 在已持锁的事务内操作同一份状态
type memTx struct {
	state *memState
}

func (t *memTx) Atomic(ctx context.Context, fn func(tx SubmissionStores) error) error {
	return fn(t)
}

func (t *memTx) GetUserByID(ctx context.Context, id uint32) (*models.User, error) {
	u, ok := t.state.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (t *memTx) GetChallengeByID(ctx context.Context, id uint32) (*models.Challenge, error) {
	c, ok := t.state.challenges[id]
	if !ok {
		return nil, ErrChallengeNotFound
	}
	return &c, nil
}

func (t *memTx) ConditionallyAddSolve(ctx context.Context, challengeID, teamID uint32, at time.Time) (AddSolveResult, error) {
	challenge, ok := t.state.challenges[challengeID]
	if !ok {
		return AddSolveResult{}, ErrChallengeNotFound
	}

	key := solveKey{challengeID: challengeID, teamID: teamID}
	if _, exists := t.state.solves[key]; exists {
		return AddSolveResult{
			WasNew:        false,
			NewSolveCount: challenge.SolveCount,
			Points:        challenge.Points,
		}, nil
	}

	t.state.solves[key] = at
	wasFirst := challenge.SolveCount == 0
	challenge.SolveCount++
	t.state.challenges[challengeID] = challenge

	return AddSolveResult{
		WasNew:        true,
		WasFirst:      wasFirst,
		NewSolveCount: challenge.SolveCount,
		Points:        challenge.Points,
	}, nil
}

func (t *memTx) IncrementScore(ctx context.Context, teamID uint32, amount uint) error {
	team, ok := t.state.teams[teamID]
	if !ok {
		return ErrTeamNotFound
	}
	team.Score += amount
	t.state.teams[teamID] = team
	return nil
}

func (t *memTx) CreateFirstBlood(ctx context.Context, challengeID, teamID uint32, at time.Time) error {
	t.state.firstBloods = append(t.state.firstBloods, models.FirstBlood{
		ChallengeID: challengeID,
		TeamID:      teamID,
		CreatedAt:   at,
	})
	return nil
}

func (t *memTx) AppendSolveLog(ctx context.Context, userID, challengeID uint32, at time.Time) error {
	t.state.solveLogs = append(t.state.solveLogs, models.SolveLog{
		UserID:      userID,
		ChallengeID: challengeID,
		SolvedAt:    at,
	})
	return nil
}
