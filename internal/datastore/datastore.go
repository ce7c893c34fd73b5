// Package datastore owns the student, grade, attendance and class-group
// collections. Every mutation rewrites the affected collection in full to its
// slot before returning; reads hand out copies.
package datastore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"siswa/internal/metrics"
	"siswa/internal/model"
	"siswa/internal/queue"
	"siswa/internal/store"
)

const publishTimeout = 250 * time.Millisecond

// Store is the DataStore. A single RWMutex guards all four collections, so a
// mutation and its slot write are atomic with respect to other callers.
type Store struct {
	mu         sync.RWMutex
	students   []model.Student
	grades     []model.GradeEntry
	attendance []model.AttendanceRecord
	kelas      []model.KelompokKelas

	slots    store.Slots
	validate *validator.Validate
	queue    queue.Queue
	metrics  *metrics.Metrics
	log      zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithQueue publishes an outcome notification after every successful mutation.
func WithQueue(q queue.Queue) Option { return func(s *Store) { s.queue = q } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Store) { s.metrics = m } }

func WithLogger(l zerolog.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock overrides the clock used to stamp grade dates.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// WithIDGenerator overrides uuid-based identifiers.
func WithIDGenerator(gen func() string) Option { return func(s *Store) { s.newID = gen } }

// Open loads every collection from slots. Missing slots start empty, except
// class groups which start from the seed set.
func Open(ctx context.Context, slots store.Slots, opts ...Option) (*Store, error) {
	s := &Store{
		slots:    slots,
		validate: newValidator(),
		log:      zerolog.Nop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := load(ctx, slots, store.KeyStudents, &s.students); err != nil {
		return nil, err
	}
	if _, err := load(ctx, slots, store.KeyGrades, &s.grades); err != nil {
		return nil, err
	}
	if _, err := load(ctx, slots, store.KeyAttendance, &s.attendance); err != nil {
		return nil, err
	}
	found, err := load(ctx, slots, store.KeyKelompokKelas, &s.kelas)
	if err != nil {
		return nil, err
	}
	if !found {
		s.kelas = model.SeedKelompokKelas()
		if err := s.persist(ctx, store.KeyKelompokKelas, s.kelas); err != nil {
			return nil, errors.Wrap(err, "seed class groups")
		}
		s.log.Info().Int("count", len(s.kelas)).Msg("seeded class groups")
	}

	if s.students == nil {
		s.students = []model.Student{}
	}
	if s.grades == nil {
		s.grades = []model.GradeEntry{}
	}
	if s.attendance == nil {
		s.attendance = []model.AttendanceRecord{}
	}
	for i := range s.attendance {
		if s.attendance[i].Hadir == nil {
			s.attendance[i].Hadir = []model.Presence{}
		}
	}

	if err := s.migrateKelasNames(ctx); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("students", len(s.students)).
		Int("grades", len(s.grades)).
		Int("attendance", len(s.attendance)).
		Int("kelompok_kelas", len(s.kelas)).
		Msg("datastore loaded")
	return s, nil
}

func load(ctx context.Context, slots store.Slots, key string, dst interface{}) (bool, error) {
	raw, ok, err := slots.Get(ctx, key)
	if err != nil {
		return false, errors.Wrapf(err, "read slot %s", key)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, errors.Wrapf(err, "decode slot %s", key)
	}
	return true, nil
}

// migrateKelasNames rewrites students whose class group was saved as a
// display name to the matching class group id.
func (s *Store) migrateKelasNames(ctx context.Context) error {
	byName := make(map[string]string, len(s.kelas))
	for _, k := range s.kelas {
		if _, dup := byName[k.Nama]; !dup {
			byName[k.Nama] = k.ID
		}
	}

	next := cloneStudents(s.students)
	migrated := 0
	for i, st := range next {
		if s.hasKelas(st.KelompokKelas) {
			continue
		}
		if id, ok := byName[st.KelompokKelas]; ok {
			next[i].KelompokKelas = id
			migrated++
		}
	}
	if migrated == 0 {
		return nil
	}
	if err := s.persist(ctx, store.KeyStudents, next); err != nil {
		return errors.Wrap(err, "migrate class group references")
	}
	s.students = next
	s.log.Info().Int("students", migrated).Msg("migrated class group names to ids")
	return nil
}

// persist writes one collection in full. Callers hold s.mu.
func (s *Store) persist(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode slot %s", key)
	}
	start := time.Now()
	err = s.slots.Set(ctx, key, string(data))
	s.metrics.SlotWrite(key, collectionLen(v), time.Since(start), err)
	if err != nil {
		return errors.Wrapf(err, "write slot %s", key)
	}
	return nil
}

func collectionLen(v interface{}) int {
	switch c := v.(type) {
	case []model.Student:
		return len(c)
	case []model.GradeEntry:
		return len(c)
	case []model.AttendanceRecord:
		return len(c)
	case []model.KelompokKelas:
		return len(c)
	}
	return 0
}

// Flush rewrites all four slots from memory.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.persist(ctx, store.KeyStudents, s.students); err != nil {
		return err
	}
	if err := s.persist(ctx, store.KeyGrades, s.grades); err != nil {
		return err
	}
	if err := s.persist(ctx, store.KeyAttendance, s.attendance); err != nil {
		return err
	}
	return s.persist(ctx, store.KeyKelompokKelas, s.kelas)
}

// Close flushes and releases the slot store.
func (s *Store) Close(ctx context.Context) error {
	flushErr := s.Flush(ctx)
	closeErr := s.slots.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// done records the outcome of a store call and, for calls that changed
// something, publishes the user-facing notification. An empty event
// publishes nothing.
func (s *Store) done(ctx context.Context, op string, changed bool, err error, event, text string) {
	s.metrics.Operation(op, err)
	if err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("store operation failed")
		return
	}
	if !changed {
		s.log.Debug().Str("op", op).Msg("no matching record")
		return
	}
	s.log.Debug().Str("op", op).Msg("store operation done")
	if s.queue == nil || event == "" {
		return
	}
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if perr := s.queue.Publish(pubCtx, queue.Message{Type: event, Body: []byte(text)}); perr != nil {
		s.log.Warn().Err(perr).Str("event", event).Msg("notification publish failed")
	}
}
