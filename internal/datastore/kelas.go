package datastore

import (
	"context"

	"siswa/internal/model"
	"siswa/internal/store"
)

// AddKelompokKelas stores a new class group. Class groups cannot be updated
// or deleted. No notification is published for them.
func (s *Store) AddKelompokKelas(ctx context.Context, fields model.KelompokKelasFields) (model.KelompokKelas, error) {
	k, err := s.addKelompokKelas(ctx, fields)
	s.done(ctx, "add_kelompok_kelas", true, err, "", "")
	return k, err
}

func (s *Store) addKelompokKelas(ctx context.Context, fields model.KelompokKelasFields) (model.KelompokKelas, error) {
	if err := s.check(fields); err != nil {
		return model.KelompokKelas{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := model.KelompokKelas{ID: s.newID(), Nama: fields.Nama}
	next := make([]model.KelompokKelas, len(s.kelas), len(s.kelas)+1)
	copy(next, s.kelas)
	next = append(next, k)
	if err := s.persist(ctx, store.KeyKelompokKelas, next); err != nil {
		return model.KelompokKelas{}, err
	}
	s.kelas = next
	return k, nil
}

// KelompokKelas returns every class group in insertion order.
func (s *Store) KelompokKelas() []model.KelompokKelas {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.KelompokKelas, len(s.kelas))
	copy(out, s.kelas)
	return out
}

// KelasName resolves a class group id to its display name.
func (s *Store) KelasName(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kelasName(id)
}

func (s *Store) kelasName(id string) (string, bool) {
	for _, k := range s.kelas {
		if k.ID == id {
			return k.Nama, true
		}
	}
	return "", false
}

func (s *Store) hasKelas(id string) bool {
	_, ok := s.kelasName(id)
	return ok
}
