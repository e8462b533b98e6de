package metrics

import (
	"database/sql"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists game and action records in a SQLite database.
type Store struct {
	DB *gorm.DB
}

// OpenStore opens (creating if needed) the database at path and migrates the
// schema. An empty path opens a private in-memory database.
func OpenStore(path string) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %q: %w", path, err)
	}

	if path == "" {
		// every pooled connection would get its own empty memory db
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&GameRecord{}, &ActionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("opened records db")
	return &Store{DB: db}, nil
}

// SaveGame writes a game and its actions in one transaction.
func (s *Store) SaveGame(game GameRecord, actions []ActionRecord) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return fmt.Errorf("failed to write game record %d: %w", game.ID, err)
		}
		if len(actions) == 0 {
			return nil
		}
		for i := range actions {
			actions[i].Game = game.ID
		}
		if err := tx.Create(&actions).Error; err != nil {
			return fmt.Errorf("failed to write action records of game %d: %w", game.ID, err)
		}
		return nil
	})
}

func (s *Store) Games() ([]GameRecord, error) {
	var games []GameRecord
	if err := s.DB.Order("id").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to read game records: %w", err)
	}
	return games, nil
}

func (s *Store) Actions(gameID int) ([]ActionRecord, error) {
	var actions []ActionRecord
	if err := s.DB.Where("game = ?", gameID).Order("step").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("failed to read action records of game %d: %w", gameID, err)
	}
	return actions, nil
}

// NextGameID returns one past the highest stored game ID, so several runs
// can share a database.
func (s *Store) NextGameID() (int, error) {
	var maxID sql.NullInt64
	if err := s.DB.Model(&GameRecord{}).Select("MAX(id)").Row().Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to read last game id: %w", err)
	}
	if !maxID.Valid {
		return 1, nil
	}
	return int(maxID.Int64) + 1, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
