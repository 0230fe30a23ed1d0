package db

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"prompt-arena/internal/game"
)

// SnapshotStore implements game.Persistence on top of Postgres.
type SnapshotStore struct {
	conn *gorm.DB
}

func NewSnapshotStore(conn *gorm.DB) *SnapshotStore {
	return &SnapshotStore{conn: conn}
}

func (s *SnapshotStore) Load(id string) (*game.Session, error) {
	var record SessionSnapshot
	if err := s.conn.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: snapshot %s", game.ErrNotFound, id)
		}
		return nil, err
	}
	return decodeSnapshot(&record)
}

func (s *SnapshotStore) LoadAll() ([]*game.Session, error) {
	var records []SessionSnapshot
	if err := s.conn.Order("created_at").Find(&records).Error; err != nil {
		return nil, err
	}
	sessions := make([]*game.Session, 0, len(records))
	for i := range records {
		session, err := decodeSnapshot(&records[i])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func (s *SnapshotStore) Save(session *game.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	record := SessionSnapshot{
		ID:      session.ID,
		Phase:   string(session.Phase),
		Payload: datatypes.JSON(payload),
	}
	err = s.conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"phase", "payload", "updated_at"}),
	}).Create(&record).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: snapshot %s", game.ErrConflict, session.ID)
	}
	return err
}

func decodeSnapshot(record *SessionSnapshot) (*game.Session, error) {
	var session game.Session
	if err := json.Unmarshal(record.Payload, &session); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", record.ID, err)
	}
	if session.ID == "" {
		session.ID = record.ID
	}
	return &session, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
