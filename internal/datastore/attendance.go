package datastore

import (
	"context"

	"siswa/internal/model"
	"siswa/internal/store"
)

// AddAttendance stores an attendance record. At most one record may exist per
// (tanggal, kelompokKelas); a second one is rejected with ErrDuplicateAttendance.
func (s *Store) AddAttendance(ctx context.Context, fields model.AttendanceFields) (model.AttendanceRecord, error) {
	rec, err := s.addAttendance(ctx, fields)
	s.done(ctx, "add_attendance", true, err, "attendance.created", "Data kehadiran berhasil ditambahkan")
	return rec, err
}

func (s *Store) addAttendance(ctx context.Context, fields model.AttendanceFields) (model.AttendanceRecord, error) {
	if err := s.check(fields); err != nil {
		return model.AttendanceRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasKelas(fields.KelompokKelas) {
		return model.AttendanceRecord{}, unknownKelas("kelompokKelas")
	}
	if s.attendanceConflict("", fields.Tanggal, fields.KelompokKelas) {
		return model.AttendanceRecord{}, ErrDuplicateAttendance
	}
	rec := model.AttendanceRecord{
		ID:            s.newID(),
		Tanggal:       fields.Tanggal,
		KelompokKelas: fields.KelompokKelas,
		Hadir:         clonePresence(fields.Hadir),
	}
	next := append(cloneAttendance(s.attendance), rec)
	if err := s.persist(ctx, store.KeyAttendance, next); err != nil {
		return model.AttendanceRecord{}, err
	}
	s.attendance = next
	return cloneRecord(rec), nil
}

// UpdateAttendance replaces the record with the same id. Moving a record onto
// a date and class group already taken by another record is rejected.
func (s *Store) UpdateAttendance(ctx context.Context, record model.AttendanceRecord) (bool, error) {
	ok, err := s.updateAttendance(ctx, record)
	s.done(ctx, "update_attendance", ok, err, "attendance.updated", "Data kehadiran berhasil diperbarui")
	return ok, err
}

func (s *Store) updateAttendance(ctx context.Context, record model.AttendanceRecord) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.attendanceIndex(record.ID)
	if i < 0 {
		return false, nil
	}
	if err := s.check(record.Fields()); err != nil {
		return false, err
	}
	if !s.hasKelas(record.KelompokKelas) {
		return false, unknownKelas("kelompokKelas")
	}
	if s.attendanceConflict(record.ID, record.Tanggal, record.KelompokKelas) {
		return false, ErrDuplicateAttendance
	}
	next := cloneAttendance(s.attendance)
	next[i] = cloneRecord(record)
	if err := s.persist(ctx, store.KeyAttendance, next); err != nil {
		return false, err
	}
	s.attendance = next
	return true, nil
}

// DeleteAttendance removes the record with the given id.
func (s *Store) DeleteAttendance(ctx context.Context, id string) (bool, error) {
	ok, err := s.deleteAttendance(ctx, id)
	s.done(ctx, "delete_attendance", ok, err, "attendance.deleted", "Data kehadiran berhasil dihapus")
	return ok, err
}

func (s *Store) deleteAttendance(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.attendanceIndex(id)
	if i < 0 {
		return false, nil
	}
	next := make([]model.AttendanceRecord, 0, len(s.attendance)-1)
	next = append(next, s.attendance[:i]...)
	next = append(next, s.attendance[i+1:]...)
	if err := s.persist(ctx, store.KeyAttendance, next); err != nil {
		return false, err
	}
	s.attendance = next
	return true, nil
}

// GetAttendanceByClass returns the records of one class group in insertion order.
func (s *Store) GetAttendanceByClass(kelasID string) []model.AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.AttendanceRecord{}
	for _, rec := range s.attendance {
		if rec.KelompokKelas == kelasID {
			out = append(out, cloneRecord(rec))
		}
	}
	return out
}

// GetAttendanceByStudentID yields one mark per attendance record, across all
// class groups, in collection order. A record the student is not listed in
// counts as absent, even when the student never belonged to that class.
func (s *Store) GetAttendanceByStudentID(studentID string) []model.AttendanceMark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AttendanceMark, 0, len(s.attendance))
	for _, rec := range s.attendance {
		present := false
		for _, p := range rec.Hadir {
			if p.StudentID == studentID {
				present = true
				break
			}
		}
		out = append(out, model.AttendanceMark{Date: rec.Tanggal, Present: present})
	}
	return out
}

// GetAttendanceByID looks an attendance record up by id.
func (s *Store) GetAttendanceByID(id string) (model.AttendanceRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.attendanceIndex(id); i >= 0 {
		return cloneRecord(s.attendance[i]), true
	}
	return model.AttendanceRecord{}, false
}

// Attendance returns every attendance record in insertion order.
func (s *Store) Attendance() []model.AttendanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAttendance(s.attendance)
}

func (s *Store) attendanceIndex(id string) int {
	for i, rec := range s.attendance {
		if rec.ID == id {
			return i
		}
	}
	return -1
}

// attendanceConflict reports whether a record other than exceptID already
// covers tanggal and kelasID.
func (s *Store) attendanceConflict(exceptID, tanggal, kelasID string) bool {
	for _, rec := range s.attendance {
		if rec.ID != exceptID && rec.Tanggal == tanggal && rec.KelompokKelas == kelasID {
			return true
		}
	}
	return false
}

func clonePresence(in []model.Presence) []model.Presence {
	out := make([]model.Presence, len(in))
	copy(out, in)
	return out
}

func cloneRecord(rec model.AttendanceRecord) model.AttendanceRecord {
	rec.Hadir = clonePresence(rec.Hadir)
	return rec
}

func cloneAttendance(in []model.AttendanceRecord) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, len(in), len(in)+1)
	for i, rec := range in {
		out[i] = cloneRecord(rec)
	}
	return out
}
