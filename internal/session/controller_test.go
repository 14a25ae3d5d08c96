package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tic_tac_chec/internal/game"
)

type result struct {
	winner      *game.Color
	perspective game.Color
	mode        game.Mode
	difficulty  game.Difficulty
}

type fakeRecorder struct {
	mu      sync.Mutex
	results []result
}

func (f *fakeRecorder) RecordGameResult(winner *game.Color, perspective game.Color, mode game.Mode, difficulty game.Difficulty) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, result{winner, perspective, mode, difficulty})
}

func (f *fakeRecorder) all() []result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]result(nil), f.results...)
}

func localConfig() Config {
	cfg := DefaultConfig()
	cfg.Mode = game.ModeLocal
	return cfg
}

func manualAIConfig() Config {
	cfg := DefaultConfig()
	cfg.AutoPlay = false
	return cfg
}

func instantAIConfig() Config {
	cfg := DefaultConfig()
	cfg.AIDelayMin = 0
	cfg.AIDelayMax = 0
	return cfg
}

func at(row, col int) game.Position { return game.Position{Row: row, Col: col} }

func place(t *testing.T, c *Controller, id string, to game.Position) game.MoveResult {
	t.Helper()
	_, err := c.Select(id, game.FromReserve())
	require.NoError(t, err)
	res, err := c.Move(to)
	require.NoError(t, err)
	require.True(t, res.Accepted, "place %s at %s: %v", id, to, res.Reason)
	return res
}

func TestLocalTurnOwnership(t *testing.T) {
	c := NewController(localConfig(), game.NewSeededRand(1), nil)

	_, err := c.Select("black-rook", game.FromReserve())
	require.ErrorIs(t, err, game.ErrNotYourPiece)

	_, err = c.Select("white-queen", game.FromReserve())
	require.ErrorIs(t, err, game.ErrUnknownPiece)

	_, err = c.Select("white-rook", game.OnBoard(at(0, 0)))
	require.ErrorIs(t, err, game.ErrUnknownPiece)

	dests, err := c.Select("white-rook", game.FromReserve())
	require.NoError(t, err)
	assert.Len(t, dests, 16)

	place(t, c, "white-rook", at(0, 0))
	assert.Equal(t, game.Black, c.Status().CurrentPlayer)

	_, err = c.Select("white-rook", game.OnBoard(at(0, 0)))
	require.ErrorIs(t, err, game.ErrNotYourPiece)
}

func TestRejectedMoveIsNotAnError(t *testing.T) {
	c := NewController(localConfig(), game.NewSeededRand(1), nil)
	res, err := c.Move(at(1, 1))
	require.NoError(t, err)
	assert.False(t, res.Accepted)
	assert.ErrorIs(t, res.Reason, game.ErrNoSelection)
	assert.Equal(t, game.EventInvalid, res.Event)
}

func TestPublisherReceivesEvents(t *testing.T) {
	c := NewController(localConfig(), game.NewSeededRand(1), nil)
	var updates []Update
	c.SetPublisher(func(u Update) { updates = append(updates, u) })

	place(t, c, "white-knight", at(1, 2))
	require.Len(t, updates, 2)
	assert.Equal(t, []game.Event{game.EventSelect}, updates[0].Events)
	assert.Equal(t, []game.Event{game.EventPlace}, updates[1].Events)
	assert.Equal(t, game.Black, updates[1].Status.CurrentPlayer)

	c.Deselect()
	require.Len(t, updates, 3)
	assert.Empty(t, updates[2].Events)
}

func TestWinIsRecordedOnce(t *testing.T) {
	rec := &fakeRecorder{}
	c := NewController(localConfig(), game.NewSeededRand(1), rec)

	place(t, c, "white-rook", at(0, 0))
	place(t, c, "black-rook", at(3, 0))
	place(t, c, "white-bishop", at(0, 1))
	place(t, c, "black-bishop", at(3, 1))
	place(t, c, "white-knight", at(0, 2))
	place(t, c, "black-knight", at(3, 2))
	res := place(t, c, "white-pawn", at(0, 3))
	require.NotNil(t, res.Win)

	_, err := c.Select("black-pawn", game.FromReserve())
	require.ErrorIs(t, err, game.ErrGameOver)
	_, err = c.Move(at(3, 3))
	require.ErrorIs(t, err, game.ErrGameOver)

	got := rec.all()
	require.Len(t, got, 1)
	require.NotNil(t, got[0].winner)
	assert.Equal(t, game.White, *got[0].winner)
	assert.Equal(t, game.White, got[0].perspective)
	assert.Equal(t, game.ModeLocal, got[0].mode)

	c.Reset(game.ModeAI, game.Hard)
	st := c.Status()
	assert.False(t, st.HasWinner)
	assert.Equal(t, game.ModeAI, st.Mode)
	assert.Equal(t, game.Hard, st.Difficulty)
	assert.Len(t, rec.all(), 1)
}

func TestComputerTurnBlocksHuman(t *testing.T) {
	c := NewController(manualAIConfig(), game.NewSeededRand(5), nil)
	place(t, c, "white-rook", at(1, 1))

	_, err := c.Select("black-rook", game.FromReserve())
	require.ErrorIs(t, err, ErrNotYourTurn)
	_, err = c.Move(at(2, 2))
	require.ErrorIs(t, err, ErrNotYourTurn)
	assert.False(t, c.Status().AIThinking)
}

func TestPlayAIEmitsSelectThenAction(t *testing.T) {
	c := NewController(manualAIConfig(), game.NewSeededRand(5), nil)
	place(t, c, "white-rook", at(1, 1))

	var updates []Update
	c.SetPublisher(func(u Update) { updates = append(updates, u) })
	m, err := c.PlayAI()
	require.NoError(t, err)
	assert.Equal(t, game.Black, m.Piece.Owner)

	require.Len(t, updates, 1)
	require.GreaterOrEqual(t, len(updates[0].Events), 2)
	assert.Equal(t, game.EventSelect, updates[0].Events[0])
	assert.Equal(t, game.White, updates[0].Status.CurrentPlayer)
	assert.Len(t, updates[0].Status.MoveHistory, 2)
}

func TestAutoPlayAnswersHumanMove(t *testing.T) {
	c := NewController(instantAIConfig(), game.NewSeededRand(9), nil)
	defer c.Close()
	place(t, c, "white-rook", at(0, 0))

	require.Eventually(t, func() bool {
		st := c.Status()
		return len(st.MoveHistory) == 2 && !st.AIThinking
	}, 2*time.Second, 5*time.Millisecond)
	st := c.Status()
	assert.Equal(t, game.White, st.CurrentPlayer)
	assert.Equal(t, game.Black, st.MoveHistory[1].Piece.Owner)
}

func TestResetDiscardsPendingComputerTurn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AIDelayMin = 50 * time.Millisecond
	cfg.AIDelayMax = 50 * time.Millisecond
	c := NewController(cfg, game.NewSeededRand(9), nil)
	defer c.Close()

	place(t, c, "white-rook", at(0, 0))
	require.True(t, c.Status().AIThinking)
	c.Reset(game.ModeAI, game.Medium)

	time.Sleep(150 * time.Millisecond)
	st := c.Status()
	assert.Empty(t, st.MoveHistory)
	assert.False(t, st.AIThinking)
	assert.Equal(t, game.White, st.CurrentPlayer)
}

func TestComputerMovesFirstWhenPlayingWhite(t *testing.T) {
	cfg := instantAIConfig()
	cfg.Perspective = game.Black
	c := NewController(cfg, game.NewSeededRand(2), nil)
	defer c.Close()

	require.Eventually(t, func() bool {
		return len(c.Status().MoveHistory) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, game.Black, c.Status().CurrentPlayer)
}

func TestCloseRejectsActions(t *testing.T) {
	c := NewController(localConfig(), game.NewSeededRand(1), nil)
	c.Close()
	_, err := c.Select("white-rook", game.FromReserve())
	require.ErrorIs(t, err, ErrClosed)
	_, err = c.PlayAI()
	require.ErrorIs(t, err, ErrClosed)
}

func TestStalemateRecordsDraw(t *testing.T) {
	rec := &fakeRecorder{}
	c := NewController(localConfig(), game.NewSeededRand(1), rec)
	c.mu.Lock()
	c.declareStalemateLocked()
	c.declareStalemateLocked()
	c.mu.Unlock()

	assert.True(t, c.Status().Stalemate)
	got := rec.all()
	require.Len(t, got, 1)
	assert.Nil(t, got[0].winner)

	_, err := c.PlayAI()
	require.ErrorIs(t, err, game.ErrGameOver)
}

func TestThinkDelay(t *testing.T) {
	c := NewController(manualAIConfig(), game.NewSeededRand(4), nil)
	c.mu.Lock()
	defer c.mu.Unlock()

	c.turnStart = time.Now()
	for i := 0; i < 100; i++ {
		d := c.thinkDelayLocked()
		require.GreaterOrEqual(t, d, 500*time.Millisecond)
		require.LessOrEqual(t, d, time.Second)
	}

	c.turnStart = time.Now().Add(-9800 * time.Millisecond)
	assert.LessOrEqual(t, c.thinkDelayLocked(), 200*time.Millisecond)

	c.turnStart = time.Now().Add(-time.Minute)
	assert.Zero(t, c.thinkDelayLocked())
}

func TestConfigNormalized(t *testing.T) {
	cfg := Config{AIDelayMin: -time.Second, AIDelayMax: -2 * time.Second}.normalized()
	assert.Zero(t, cfg.AIDelayMin)
	assert.Zero(t, cfg.AIDelayMax)
	assert.Equal(t, 10*time.Second, cfg.ForceAfter)
	assert.Equal(t, game.Black, DefaultConfig().ComputerColor())
}

func shift(t *testing.T, c *Controller, id string, from, to game.Position) game.MoveResult {
	t.Helper()
	_, err := c.Select(id, game.OnBoard(from))
	require.NoError(t, err)
	res, err := c.Move(to)
	require.NoError(t, err)
	require.True(t, res.Accepted, "move %s %s->%s: %v", id, from, to, res.Reason)
	return res
}

// stuckBlack leaves black to move in the movement phase with both board pieces blocked
// and the rook and knight still in reserve.
func stuckBlack(t *testing.T, c *Controller) {
	t.Helper()
	place(t, c, "white-rook", at(0, 0))
	place(t, c, "black-bishop", at(3, 0))
	place(t, c, "white-bishop", at(3, 1))
	place(t, c, "black-pawn", at(1, 1))
	place(t, c, "white-knight", at(0, 3))
	place(t, c, "black-knight", at(2, 2))
	res := shift(t, c, "white-knight", at(0, 3), at(2, 2))
	require.NotNil(t, res.Captured)
	shift(t, c, "black-pawn", at(1, 1), at(2, 1))
	place(t, c, "white-pawn", at(0, 1))

	st := c.Status()
	require.Equal(t, game.PhaseMovement, st.Phase)
	require.Equal(t, game.Black, st.CurrentPlayer)
	require.Len(t, st.BlackReserve, 2)
}

func TestReserveDropsAvoidStalemate(t *testing.T) {
	rec := &fakeRecorder{}
	c := NewController(localConfig(), game.NewSeededRand(1), rec)
	stuckBlack(t, c)

	st := c.Status()
	assert.False(t, st.Stalemate)
	assert.False(t, st.HasWinner)
	assert.Empty(t, rec.all())

	dests, err := c.Select("black-rook", game.FromReserve())
	require.NoError(t, err)
	assert.Len(t, dests, 16-6)
	res, err := c.Move(at(3, 3))
	require.NoError(t, err)
	assert.True(t, res.Accepted)
}

func TestComputerDropsWhenBoardPiecesAreStuck(t *testing.T) {
	rec := &fakeRecorder{}
	c := NewController(localConfig(), game.NewSeededRand(1), rec)
	stuckBlack(t, c)

	m, err := c.PlayAI()
	require.NoError(t, err)
	assert.True(t, m.IsPlacement())
	assert.Equal(t, game.Black, m.Piece.Owner)
	assert.False(t, c.Status().Stalemate)
	assert.Empty(t, rec.all())
}

func TestUpdatesArePublishedInOrder(t *testing.T) {
	c := NewController(instantAIConfig(), game.NewSeededRand(3), nil)
	defer c.Close()

	var (
		mu   sync.Mutex
		seqs []uint64
		last Update
	)
	c.SetPublisher(func(u Update) {
		mu.Lock()
		defer mu.Unlock()
		seqs = append(seqs, u.Seq)
		last = u
	})

	ids := []string{"white-rook", "white-bishop", "white-knight"}
	for i, id := range ids {
		require.Eventually(t, func() bool {
			st := c.Status()
			return st.CurrentPlayer == game.White && !st.AIThinking && len(st.MoveHistory) == 2*i
		}, 2*time.Second, 5*time.Millisecond)
		empty := c.Status().Board.EmptyCells()
		require.NotEmpty(t, empty)
		place(t, c, id, empty[0])
	}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(last.Status.MoveHistory) == 2*len(ids) && !last.Status.AIThinking
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seqs)
	for i, s := range seqs {
		assert.Equal(t, uint64(i+1), s, "update %d out of order", i)
	}
	assert.Equal(t, c.Status().MoveHistory, last.Status.MoveHistory)
}
