package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TNRProtography/questoot/internal/engine"
)

// GameRecord is the persisted row for one game: the code as primary key and
// the whole snapshot as a JSON blob. No history is kept.
type GameRecord struct {
	Code     string `gorm:"primaryKey;size:4"`
	Snapshot []byte `gorm:"type:jsonb"`
}

type Postgres struct {
	db *gorm.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := db.AutoMigrate(&GameRecord{}); err != nil {
		return nil, fmt.Errorf("migrate game table: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) SaveGame(ctx context.Context, code string, s engine.State) error {
	snap, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	rec := GameRecord{Code: code, Snapshot: snap}
	err = p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"snapshot"}),
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save game %s: %w", code, err)
	}
	return nil
}

func (p *Postgres) LoadGame(ctx context.Context, code string) (engine.State, bool, error) {
	var rec GameRecord
	err := p.db.WithContext(ctx).First(&rec, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.State{}, false, nil
	}
	if err != nil {
		return engine.State{}, false, fmt.Errorf("load game %s: %w", code, err)
	}
	var s engine.State
	if err := json.Unmarshal(rec.Snapshot, &s); err != nil {
		return engine.State{}, false, fmt.Errorf("unmarshal game %s: %w", code, err)
	}
	return s, true, nil
}

func (p *Postgres) DeleteGame(ctx context.Context, code string) error {
	if err := p.db.WithContext(ctx).Delete(&GameRecord{}, "code = ?", code).Error; err != nil {
		return fmt.Errorf("delete game %s: %w", code, err)
	}
	return nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
