package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Slot keys. Each slot holds the JSON array of one collection.
const (
	KeyStudents      = "students"
	KeyGrades        = "grades"
	KeyAttendance    = "attendance"
	KeyKelompokKelas = "kelompokKelas"
)

// Slots is a text key-value store holding one serialized collection per key.
type Slots interface {
	// Get returns the stored value; ok is false when the key was never written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Options selects and configures a Slots backend.
type Options struct {
	Backend     string // sqlite, postgres, redis, memory
	DBPath      string
	DatabaseURL string
	RedisAddr   string
	RedisPrefix string
}

// Open builds the backend named in opts.
func Open(ctx context.Context, opts Options) (Slots, error) {
	switch opts.Backend {
	case "", "sqlite":
		return NewSQLite(opts.DBPath)
	case "postgres":
		db, err := NewDB(opts.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "postgres")
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "postgres migrate")
		}
		return db, nil
	case "redis":
		r := NewRedis(opts.RedisAddr, opts.RedisPrefix)
		if !r.Healthy(ctx) {
			_ = r.Close()
			return nil, fmt.Errorf("redis not reachable at %s", opts.RedisAddr)
		}
		return r, nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
