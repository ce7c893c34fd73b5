package datastore

import (
	"context"

	"siswa/internal/model"
	"siswa/internal/store"
)

// AddGrade stores a grade and stamps it with today's date.
func (s *Store) AddGrade(ctx context.Context, fields model.GradeFields) (model.GradeEntry, error) {
	g, err := s.addGrade(ctx, fields)
	s.done(ctx, "add_grade", true, err, "grade.created", "Nilai berhasil ditambahkan")
	return g, err
}

func (s *Store) addGrade(ctx context.Context, fields model.GradeFields) (model.GradeEntry, error) {
	if err := s.check(fields); err != nil {
		return model.GradeEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g := model.GradeEntry{
		ID:            s.newID(),
		StudentID:     fields.StudentID,
		JenisTes:      fields.JenisTes,
		MataPelajaran: fields.MataPelajaran,
		Nilai:         fields.Nilai,
		Tanggal:       s.now().UTC().Format(model.DateLayout),
	}
	next := append(cloneGrades(s.grades), g)
	if err := s.persist(ctx, store.KeyGrades, next); err != nil {
		return model.GradeEntry{}, err
	}
	s.grades = next
	return g, nil
}

// UpdateGrade replaces the grade with the same id. The stored date is kept.
func (s *Store) UpdateGrade(ctx context.Context, grade model.GradeEntry) (bool, error) {
	ok, err := s.updateGrade(ctx, grade)
	s.done(ctx, "update_grade", ok, err, "grade.updated", "Nilai berhasil diperbarui")
	return ok, err
}

func (s *Store) updateGrade(ctx context.Context, grade model.GradeEntry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.gradeIndex(grade.ID)
	if i < 0 {
		return false, nil
	}
	if err := s.check(grade.Fields()); err != nil {
		return false, err
	}
	next := cloneGrades(s.grades)
	grade.Tanggal = next[i].Tanggal
	next[i] = grade
	if err := s.persist(ctx, store.KeyGrades, next); err != nil {
		return false, err
	}
	s.grades = next
	return true, nil
}

// DeleteGrade removes the grade with the given id.
func (s *Store) DeleteGrade(ctx context.Context, id string) (bool, error) {
	ok, err := s.deleteGrade(ctx, id)
	s.done(ctx, "delete_grade", ok, err, "grade.deleted", "Nilai berhasil dihapus")
	return ok, err
}

func (s *Store) deleteGrade(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.gradeIndex(id)
	if i < 0 {
		return false, nil
	}
	next := make([]model.GradeEntry, 0, len(s.grades)-1)
	next = append(next, s.grades[:i]...)
	next = append(next, s.grades[i+1:]...)
	if err := s.persist(ctx, store.KeyGrades, next); err != nil {
		return false, err
	}
	s.grades = next
	return true, nil
}

// GetGradesByStudentID returns one student's grades in insertion order.
func (s *Store) GetGradesByStudentID(studentID string) []model.GradeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.GradeEntry{}
	for _, g := range s.grades {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out
}

// GetGradeByID looks a grade up by id.
func (s *Store) GetGradeByID(id string) (model.GradeEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.gradeIndex(id); i >= 0 {
		return s.grades[i], true
	}
	return model.GradeEntry{}, false
}

// Grades returns every grade in insertion order.
func (s *Store) Grades() []model.GradeEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGrades(s.grades)
}

func (s *Store) gradeIndex(id string) int {
	for i, g := range s.grades {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func cloneGrades(in []model.GradeEntry) []model.GradeEntry {
	out := make([]model.GradeEntry, len(in), len(in)+1)
	copy(out, in)
	return out
}
