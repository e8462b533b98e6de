package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type GameRecord struct {
	ID         int    `gorm:"primaryKey;autoIncrement:false"`
	Scenario   string `gorm:"index"`
	Seed       int64
	Counts     `gorm:"embedded;embeddedPrefix:count_"`
	GameMetric `gorm:"embedded"`
}

type ActionRecord struct {
	ID           uint `gorm:"primaryKey"`
	Game         int  `gorm:"index"` // GameRecord.ID
	ActionMetric `gorm:"embedded"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped folder under dir for one batch of games.
func NewWriter(dir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{
		"id", "scenario", "seed", "starting_player", "winner", "start_time", "end_time", "duration",
		"turns", "actions", "moves", "ranged_attacks", "melee_attacks", "rejected", "damage", "destroyed",
	}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.ID),
			record.Scenario,
			strconv.FormatInt(record.Seed, 10),
			strconv.Itoa(int(record.StartingPlayer)),
			strconv.Itoa(int(record.Winner)),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.GameMetric.Duration.String(),
			strconv.Itoa(record.Turns),
			strconv.Itoa(record.TotalActions),
			strconv.Itoa(record.Moves),
			strconv.Itoa(record.RangedAttacks),
			strconv.Itoa(record.MeleeAttacks),
			strconv.Itoa(record.Rejected),
			strconv.Itoa(record.Damage),
			strconv.Itoa(record.Destroyed),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (w *Writer) WriteActionRecords(records []ActionRecord) error {
	path := filepath.Join(w.baseDir, "action_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create action records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	header := []string{"game", "step", "turn", "player", "action", "duration", "damage", "killed", "rejected"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write action records header: %w", err)
	}

	for _, record := range records {
		row := []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			strconv.Itoa(record.Turn),
			strconv.Itoa(int(record.Player)),
			record.Action.String(),
			record.Duration.String(),
			strconv.Itoa(record.Damage),
			strconv.Itoa(record.Killed),
			strconv.FormatBool(record.Rejected),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write action record row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
