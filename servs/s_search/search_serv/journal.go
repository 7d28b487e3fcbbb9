package search_serv

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rskv-p/searchlab/pkg/x_db"
	"gorm.io/gorm"
)

// Errors
var ErrInitDatabase = errors.New("search: error initializing db")

// Operation is one journaled event.
type Operation struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement" json:"seq"`
	EventID   string    `gorm:"uniqueIndex;size:32" json:"id"`
	Kind      string    `gorm:"index;size:32" json:"kind"`
	Op        string    `gorm:"size:32" json:"op"`
	Key       string    `gorm:"size:64" json:"key"`
	Positions string    `json:"positions"` // comma separated
	Error     string    `json:"error,omitempty"`
	ErrorKind string    `gorm:"size:32" json:"error_kind,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal stores operation history in the database.
// History lives only as long as the database; the default is in memory.
type Journal struct {
	db *gorm.DB
}

// NewJournal migrates the operation and user tables.
func NewJournal(db *gorm.DB) (*Journal, error) {
	if err := db.AutoMigrate(&Operation{}, &User{}); err != nil {
		return nil, errors.Join(ErrInitDatabase, err)
	}
	return &Journal{db: db}, nil
}

// DB access
func (j *Journal) DB() *gorm.DB {
	return j.db
}

// Record stores ev.
func (j *Journal) Record(ev Event) error {
	pos := make([]string, len(ev.Positions))
	for i, p := range ev.Positions {
		pos[i] = strconv.Itoa(p)
	}
	ctx := x_db.WithTags(context.Background(), "kind", string(ev.Kind), "op", ev.Op)
	return j.db.WithContext(ctx).Create(&Operation{
		EventID:   ev.ID,
		Kind:      string(ev.Kind),
		Op:        ev.Op,
		Key:       ev.Key,
		Positions: strings.Join(pos, ","),
		Error:     ev.Error,
		ErrorKind: ev.ErrorKind,
		CreatedAt: ev.At,
	}).Error
}

// Hook returns a HookFunc recording every event; failures are passed to onErr.
func (j *Journal) Hook(onErr func(error)) HookFunc {
	return func(ev Event) {
		if err := j.Record(ev); err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// History returns up to limit operations, newest first. An empty kind
// matches every kind.
func (j *Journal) History(kind string, limit int) ([]Operation, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	q := j.db.Order("seq desc").Limit(limit)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	var ops []Operation
	if err := q.Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}
