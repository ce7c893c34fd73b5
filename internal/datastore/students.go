package datastore

import (
	"context"
	"strings"

	"siswa/internal/model"
	"siswa/internal/store"
)

// AddStudent stores a new student under a fresh id.
func (s *Store) AddStudent(ctx context.Context, fields model.StudentFields) (model.Student, error) {
	st, err := s.addStudent(ctx, fields)
	s.done(ctx, "add_student", true, err, "student.created", "Data siswa berhasil ditambahkan")
	return st, err
}

func (s *Store) addStudent(ctx context.Context, fields model.StudentFields) (model.Student, error) {
	if err := s.check(fields); err != nil {
		return model.Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasKelas(fields.KelompokKelas) {
		return model.Student{}, unknownKelas("kelompokKelas")
	}
	st := fields.WithID(s.newID())
	next := append(cloneStudents(s.students), st)
	if err := s.persist(ctx, store.KeyStudents, next); err != nil {
		return model.Student{}, err
	}
	s.students = next
	return st, nil
}

// UpdateStudent replaces the student with the same id. It reports false and
// leaves the collection untouched when no student matches. A student whose
// class group no longer resolves may still be edited while the class group is
// left as it is.
func (s *Store) UpdateStudent(ctx context.Context, student model.Student) (bool, error) {
	ok, err := s.updateStudent(ctx, student)
	s.done(ctx, "update_student", ok, err, "student.updated", "Data siswa berhasil diperbarui")
	return ok, err
}

func (s *Store) updateStudent(ctx context.Context, student model.Student) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.studentIndex(student.ID)
	if i < 0 {
		return false, nil
	}
	if err := s.check(student.Fields()); err != nil {
		return false, err
	}
	if student.KelompokKelas != s.students[i].KelompokKelas && !s.hasKelas(student.KelompokKelas) {
		return false, unknownKelas("kelompokKelas")
	}
	next := cloneStudents(s.students)
	next[i] = student
	if err := s.persist(ctx, store.KeyStudents, next); err != nil {
		return false, err
	}
	s.students = next
	return true, nil
}

// DeleteStudent removes the student and every grade recorded for them.
// Attendance records are left as they are.
func (s *Store) DeleteStudent(ctx context.Context, id string) (bool, error) {
	ok, err := s.deleteStudent(ctx, id)
	s.done(ctx, "delete_student", ok, err, "student.deleted", "Data siswa berhasil dihapus")
	return ok, err
}

func (s *Store) deleteStudent(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.studentIndex(id)
	if i < 0 {
		return false, nil
	}

	grades := make([]model.GradeEntry, 0, len(s.grades))
	for _, g := range s.grades {
		if g.StudentID != id {
			grades = append(grades, g)
		}
	}
	if removed := len(s.grades) - len(grades); removed > 0 {
		if err := s.persist(ctx, store.KeyGrades, grades); err != nil {
			return false, err
		}
		s.grades = grades
		s.log.Debug().Str("student_id", id).Int("grades", removed).Msg("cascaded grade delete")
	}

	students := make([]model.Student, 0, len(s.students)-1)
	students = append(students, s.students[:i]...)
	students = append(students, s.students[i+1:]...)
	if err := s.persist(ctx, store.KeyStudents, students); err != nil {
		return false, err
	}
	s.students = students
	return true, nil
}

// GetStudentByID looks a student up by id.
func (s *Store) GetStudentByID(id string) (model.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.studentIndex(id); i >= 0 {
		return s.students[i], true
	}
	return model.Student{}, false
}

// GetStudentsByKelas returns the students of one class group in insertion order.
func (s *Store) GetStudentsByKelas(kelasID string) []model.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Student{}
	for _, st := range s.students {
		if st.KelompokKelas == kelasID {
			out = append(out, st)
		}
	}
	return out
}

// SearchStudents returns the students whose name, student number, class
// group name or previous school contains query, ignoring case. The class group
// is matched on its display name; an empty query matches everyone.
func (s *Store) SearchStudents(query string) []model.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	out := []model.Student{}
	for _, st := range s.students {
		kelas := st.KelompokKelas
		if name, ok := s.kelasName(kelas); ok {
			kelas = name
		}
		if q == "" ||
			strings.Contains(strings.ToLower(st.Nama), q) ||
			strings.Contains(strings.ToLower(st.NomorInduk), q) ||
			strings.Contains(strings.ToLower(kelas), q) ||
			strings.Contains(strings.ToLower(st.AsalSekolah), q) {
			out = append(out, st)
		}
	}
	return out
}

// Students returns every student in insertion order.
func (s *Store) Students() []model.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneStudents(s.students)
}

func (s *Store) studentIndex(id string) int {
	for i, st := range s.students {
		if st.ID == id {
			return i
		}
	}
	return -1
}

func cloneStudents(in []model.Student) []model.Student {
	out := make([]model.Student, len(in), len(in)+1)
	copy(out, in)
	return out
}
