package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tactics/game"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start()

	c.AddAction(game.Action{Type: game.MoveAction}, []game.Event{{Type: game.UnitMoved}})
	c.AddAction(game.Action{Type: game.MeleeAttackAction}, []game.Event{
		{Type: game.UnitAttacked, Damage: 6},
		{Type: game.UnitDestroyed},
	})
	c.AddAction(game.Action{Type: game.RangedAttackAction}, []game.Event{{Type: game.UnitAttacked, Damage: 3}})
	c.AddAction(game.Action{Type: game.EndTurnAction}, nil)
	c.AddRejected()

	got := c.Complete()
	assert.Equal(t, 1, got.Moves)
	assert.Equal(t, 1, got.MeleeAttacks)
	assert.Equal(t, 1, got.RangedAttacks)
	assert.Equal(t, 1, got.EndTurns)
	assert.Equal(t, 1, got.Rejected)
	assert.Equal(t, 9, got.Damage)
	assert.Equal(t, 1, got.Destroyed)
	assert.Positive(t, got.Duration)

	assert.Equal(t, Counts{}, NewDummyCollector().Complete(), "Dummy collector records nothing")
}

func sampleRecords() (GameRecord, []ActionRecord) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	g := GameRecord{
		ID:       1,
		Scenario: "skirmish",
		Seed:     42,
		Counts:   Counts{Moves: 2, MeleeAttacks: 1, Damage: 4},
		GameMetric: GameMetric{
			StartingPlayer: 1,
			Winner:         2,
			StartTime:      start,
			EndTime:        start.Add(time.Second),
			Duration:       time.Second,
			Turns:          3,
			TotalActions:   3,
		},
	}
	actions := []ActionRecord{
		{ActionMetric: ActionMetric{Step: 1, Turn: 1, Player: 1, Action: game.MoveAction}},
		{ActionMetric: ActionMetric{Step: 2, Turn: 1, Player: 1, Action: game.MeleeAttackAction, Damage: 4}},
		{ActionMetric: ActionMetric{Step: 3, Turn: 2, Player: 2, Action: game.EndTurnAction}},
	}
	return g, actions
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	g, actions := sampleRecords()
	for i := range actions {
		actions[i].Game = g.ID
	}
	require.NoError(t, w.WriteGameRecords([]GameRecord{g}))
	require.NoError(t, w.WriteActionRecords(actions))

	games := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Len(t, games, 2, "Header plus one row")
	assert.Equal(t, "id", games[0][0])
	assert.Equal(t, []string{"1", "skirmish", "42", "1", "2"}, games[1][:5])

	rows := readCSV(t, filepath.Join(w.Dir(), "action_records.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"1", "2", "1", "1", "melee_attack", "0s", "4", "0", "false"}, rows[2])
}

func TestStore(t *testing.T) {
	s, err := OpenStore("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	next, err := s.NextGameID()
	require.NoError(t, err)
	assert.Equal(t, 1, next, "Empty store starts at 1")

	g, actions := sampleRecords()
	require.NoError(t, s.SaveGame(g, actions))

	games, err := s.Games()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "skirmish", games[0].Scenario)
	assert.Equal(t, int64(42), games[0].Seed)
	assert.Equal(t, game.PlayerID(2), games[0].Winner)
	assert.Equal(t, 4, games[0].Counts.Damage)
	assert.Equal(t, time.Second, games[0].GameMetric.Duration)

	stored, err := s.Actions(g.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, game.MeleeAttackAction, stored[1].Action)
	assert.Equal(t, g.ID, stored[1].Game)

	next, err = s.NextGameID()
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	require.Error(t, s.SaveGame(g, nil), "Game IDs are unique")
}

func TestStore_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")
	s, err := OpenStore(path)
	require.NoError(t, err)
	g, actions := sampleRecords()
	require.NoError(t, s.SaveGame(g, actions))
	require.NoError(t, s.Close())

	reopened, err := OpenStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { reopened.Close() })
	games, err := reopened.Games()
	require.NoError(t, err)
	assert.Len(t, games, 1, "Records survive reopening")
}
