package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siswa/internal/dashboard"
	"siswa/internal/model"
	"siswa/internal/queue"
	"siswa/internal/store"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func openTestStore(t *testing.T, slots store.Slots, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	s, err := Open(context.Background(), slots, opts...)
	require.NoError(t, err)
	return s
}

func budi() model.StudentFields {
	return model.StudentFields{
		Nama:          "Budi",
		NomorInduk:    "001",
		KelompokKelas: "k1",
		AsalSekolah:   "SMP 1",
		NomorWhatsapp: "0812",
		Email:         "b@x.id",
		TanggalLahir:  "2008-01-01",
	}
}

func slotValue(t *testing.T, slots store.Slots, key string) string {
	t.Helper()
	v, ok, err := slots.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok, "slot %s not written", key)
	return v
}

func TestOpenSeedsClassGroups(t *testing.T) {
	slots := store.NewMemory()
	s := openTestStore(t, slots)

	assert.Equal(t, model.SeedKelompokKelas(), s.KelompokKelas())
	assert.Empty(t, s.Students())
	assert.Empty(t, s.Grades())
	assert.Empty(t, s.Attendance())

	var stored []model.KelompokKelas
	require.NoError(t, json.Unmarshal([]byte(slotValue(t, slots, store.KeyKelompokKelas)), &stored))
	assert.Len(t, stored, 6)

	_, ok, _ := slots.Get(context.Background(), store.KeyStudents)
	assert.False(t, ok, "empty collections are not written on open")
}

func TestOpenRejectsCorruptSlot(t *testing.T) {
	slots := store.NewMemory()
	require.NoError(t, slots.Set(context.Background(), store.KeyGrades, "{not json"))

	_, err := Open(context.Background(), slots)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode slot grades")
}

func TestAddStudentAssignsUniqueIDs(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()

	a, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)
	b, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, s.Students(), 2)
}

func TestRoundTripAcrossReopen(t *testing.T) {
	slots := store.NewMemory()
	ctx := context.Background()
	s := openTestStore(t, slots, WithIDGenerator(sequentialIDs()))

	st, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)
	_, err = s.AddGrade(ctx, model.GradeFields{StudentID: st.ID, JenisTes: "Tugas", MataPelajaran: "IPA", Nilai: 77})
	require.NoError(t, err)
	_, err = s.AddAttendance(ctx, model.AttendanceFields{
		Tanggal:       "2024-03-01",
		KelompokKelas: "k1",
		Hadir:         []model.Presence{{StudentID: st.ID, Nama: "Budi"}},
	})
	require.NoError(t, err)
	k, err := s.AddKelompokKelas(ctx, model.KelompokKelasFields{Nama: "Kelas 9A"})
	require.NoError(t, err)

	reopened := openTestStore(t, slots)
	assert.Equal(t, s.Students(), reopened.Students())
	assert.Equal(t, s.Grades(), reopened.Grades())
	assert.Equal(t, s.Attendance(), reopened.Attendance())
	assert.Equal(t, s.KelompokKelas(), reopened.KelompokKelas())

	name, ok := reopened.KelasName(k.ID)
	require.True(t, ok)
	assert.Equal(t, "Kelas 9A", name)
}

func TestStudentJSONFieldNames(t *testing.T) {
	slots := store.NewMemory()
	s := openTestStore(t, slots, WithIDGenerator(sequentialIDs()))
	_, err := s.AddStudent(context.Background(), budi())
	require.NoError(t, err)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(slotValue(t, slots, store.KeyStudents)), &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"id", "nama", "nomorInduk", "kelompokKelas", "asalSekolah", "nomorWhatsapp", "email", "tanggalLahir"} {
		assert.Contains(t, raw[0], key)
	}
}

func TestUpdateStudent(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()
	st, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)

	st.Nama = "Budi Santoso"
	st.KelompokKelas = "k2"
	ok, err := s.UpdateStudent(ctx, st)
	require.NoError(t, err)
	assert.True(t, ok)

	got, found := s.GetStudentByID(st.ID)
	require.True(t, found)
	assert.Equal(t, st, got)
	assert.Empty(t, s.GetStudentsByKelas("k1"))
	assert.Len(t, s.GetStudentsByKelas("k2"), 1)
}

func TestUnknownIDIsNoOp(t *testing.T) {
	slots := store.NewMemory()
	ctx := context.Background()
	s := openTestStore(t, slots)
	st, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)
	_, err = s.AddGrade(ctx, model.GradeFields{StudentID: st.ID, JenisTes: "Tugas", MataPelajaran: "IPA", Nilai: 80})
	require.NoError(t, err)
	_, err = s.AddAttendance(ctx, model.AttendanceFields{Tanggal: "2024-03-01", KelompokKelas: "k1"})
	require.NoError(t, err)

	before := map[string]string{}
	for _, key := range []string{store.KeyStudents, store.KeyGrades, store.KeyAttendance, store.KeyKelompokKelas} {
		before[key] = slotValue(t, slots, key)
	}

	ghost := budi().WithID("missing")
	ok, err := s.UpdateStudent(ctx, ghost)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteStudent(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.UpdateGrade(ctx, model.GradeEntry{ID: "missing", StudentID: st.ID, JenisTes: "Tugas", MataPelajaran: "IPA", Nilai: 1})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteGrade(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.UpdateAttendance(ctx, model.AttendanceRecord{ID: "missing", Tanggal: "2024-03-02", KelompokKelas: "k1"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteAttendance(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	for key, v := range before {
		assert.Equal(t, v, slotValue(t, slots, key), "slot %s changed", key)
	}
}

func TestDeleteStudentCascadesGradesOnly(t *testing.T) {
	slots := store.NewMemory()
	ctx := context.Background()
	s := openTestStore(t, slots)

	a, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)
	other := budi()
	other.Nama = "Siti"
	b, err := s.AddStudent(ctx, other)
	require.NoError(t, err)

	for _, id := range []string{a.ID, a.ID, b.ID} {
		_, err := s.AddGrade(ctx, model.GradeFields{StudentID: id, JenisTes: "Tugas", MataPelajaran: "IPA", Nilai: 70})
		require.NoError(t, err)
	}
	_, err = s.AddAttendance(ctx, model.AttendanceFields{
		Tanggal:       "2024-03-01",
		KelompokKelas: "k1",
		Hadir:         []model.Presence{{StudentID: a.ID, Nama: "Budi"}},
	})
	require.NoError(t, err)

	ok, err := s.DeleteStudent(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Empty(t, s.GetGradesByStudentID(a.ID))
	assert.Len(t, s.GetGradesByStudentID(b.ID), 1)
	_, found := s.GetStudentByID(a.ID)
	assert.False(t, found)

	recs := s.GetAttendanceByClass("k1")
	require.Len(t, recs, 1)
	assert.Equal(t, a.ID, recs[0].Hadir[0].StudentID, "attendance keeps presence of deleted students")

	reopened := openTestStore(t, slots)
	assert.Len(t, reopened.Grades(), 1)
	assert.Len(t, reopened.Students(), 1)
}

func TestGradesStampedAndPreserved(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()
	st, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)

	g, err := s.AddGrade(ctx, model.GradeFields{StudentID: st.ID, JenisTes: "Tugas", MataPelajaran: "Matematika", Nilai: 85})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", g.Tanggal)

	g.Nilai = 90
	g.Tanggal = "1999-01-01"
	ok, err := s.UpdateGrade(ctx, g)
	require.NoError(t, err)
	require.True(t, ok)

	got := s.GetGradesByStudentID(st.ID)
	require.Len(t, got, 1)
	assert.Equal(t, 90.0, got[0].Nilai)
	assert.Equal(t, "2024-03-15", got[0].Tanggal)
}

func TestGradeForUnknownStudentIsAccepted(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	_, err := s.AddGrade(context.Background(), model.GradeFields{StudentID: "nobody", JenisTes: "Tugas", MataPelajaran: "IPA", Nilai: 50})
	require.NoError(t, err)
	assert.Len(t, s.GetGradesByStudentID("nobody"), 1)
}

func TestAttendanceDerivation(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()

	_, err := s.AddAttendance(ctx, model.AttendanceFields{
		Tanggal:       "2024-03-01",
		KelompokKelas: "k1",
		Hadir:         []model.Presence{{StudentID: "s1", Nama: "Budi"}},
	})
	require.NoError(t, err)
	_, err = s.AddAttendance(ctx, model.AttendanceFields{Tanggal: "2024-03-02", KelompokKelas: "k1"})
	require.NoError(t, err)
	_, err = s.AddAttendance(ctx, model.AttendanceFields{
		Tanggal:       "2024-03-02",
		KelompokKelas: "k3",
		Hadir:         []model.Presence{{StudentID: "s2", Nama: "Siti"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.AttendanceMark{
		{Date: "2024-03-01", Present: true},
		{Date: "2024-03-02", Present: false},
		{Date: "2024-03-02", Present: false},
	}, s.GetAttendanceByStudentID("s1"))

	assert.Len(t, s.GetAttendanceByClass("k1"), 2)
	assert.Len(t, s.GetAttendanceByClass("k3"), 1)
	assert.Empty(t, s.GetAttendanceByClass("k6"))
}

func TestDuplicateAttendanceRejected(t *testing.T) {
	slots := store.NewMemory()
	s := openTestStore(t, slots)
	ctx := context.Background()

	first, err := s.AddAttendance(ctx, model.AttendanceFields{Tanggal: "2024-03-01", KelompokKelas: "k1"})
	require.NoError(t, err)
	before := slotValue(t, slots, store.KeyAttendance)

	_, err = s.AddAttendance(ctx, model.AttendanceFields{Tanggal: "2024-03-01", KelompokKelas: "k1"})
	assert.ErrorIs(t, err, ErrDuplicateAttendance)
	assert.Equal(t, before, slotValue(t, slots, store.KeyAttendance))

	second, err := s.AddAttendance(ctx, model.AttendanceFields{Tanggal: "2024-03-02", KelompokKelas: "k1"})
	require.NoError(t, err)

	second.Tanggal = first.Tanggal
	_, err = s.UpdateAttendance(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicateAttendance)

	first.Hadir = []model.Presence{{StudentID: "s1", Nama: "Budi"}}
	ok, err := s.UpdateAttendance(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok, "a record may be rewritten on its own date")
}

func TestAttendanceRequiresKnownClass(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	_, err := s.AddAttendance(context.Background(), model.AttendanceFields{Tanggal: "2024-03-01", KelompokKelas: "k99"})
	assert.ErrorIs(t, err, ErrUnknownKelas)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestValidationMessages(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()

	in := budi()
	in.Nama = ""
	in.NomorWhatsapp = "08-12"
	in.Email = "not-an-email"
	_, err := s.AddStudent(ctx, in)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []FieldError{
		{Field: "nama", Message: "Nama siswa harus diisi"},
		{Field: "nomorWhatsapp", Message: "Nomor WhatsApp hanya boleh berisi angka"},
		{Field: "email", Message: "Format email tidak valid"},
	}, verr.Fields)
	assert.Empty(t, s.Students())

	_, err = s.AddGrade(ctx, model.GradeFields{StudentID: "s1", JenisTes: "Tugas", MataPelajaran: "IPA", Nilai: 101})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{{Field: "nilai", Message: "Nilai harus antara 0-100"}}, verr.Fields)

	_, err = s.AddAttendance(ctx, model.AttendanceFields{Tanggal: "01/03/2024", KelompokKelas: "k1"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []FieldError{{Field: "tanggal", Message: "Format tanggal tidak valid"}}, verr.Fields)

	_, err = s.AddStudent(ctx, model.StudentFields{
		Nama: "A", NomorInduk: "1", KelompokKelas: "k42", AsalSekolah: "B",
		NomorWhatsapp: "1", Email: "a@b.id", TanggalLahir: "2008-01-01",
	})
	assert.ErrorIs(t, err, ErrUnknownKelas)
}

func TestGradeBoundaries(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	for _, v := range []float64{0, 100} {
		_, err := s.AddGrade(context.Background(), model.GradeFields{StudentID: "s1", JenisTes: "Tugas", MataPelajaran: "IPA", Nilai: v})
		assert.NoError(t, err, "nilai %v", v)
	}
	_, err := s.AddGrade(context.Background(), model.GradeFields{StudentID: "s1", JenisTes: "Tugas", MataPelajaran: "IPA", Nilai: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWriteFailureLeavesMemoryUntouched(t *testing.T) {
	slots := store.NewMemory()
	s := openTestStore(t, slots)
	ctx := context.Background()
	st, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)

	slots.FailWrites = errors.New("disk full")

	_, err = s.AddStudent(ctx, budi())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write slot students")
	assert.Len(t, s.Students(), 1)

	st.Nama = "Changed"
	ok, err := s.UpdateStudent(ctx, st)
	require.Error(t, err)
	assert.False(t, ok)
	got, _ := s.GetStudentByID(st.ID)
	assert.Equal(t, "Budi", got.Nama)

	slots.FailWrites = nil
	ok, err = s.UpdateStudent(ctx, st)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLegacyKelasNamesMigrated(t *testing.T) {
	slots := store.NewMemory()
	ctx := context.Background()
	legacy := []model.Student{
		{ID: "s1", Nama: "Budi", KelompokKelas: "Kelas 10B"},
		{ID: "s2", Nama: "Siti", KelompokKelas: "k1"},
		{ID: "s3", Nama: "Andi", KelompokKelas: "Kelas Hilang"},
	}
	raw, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, slots.Set(ctx, store.KeyStudents, string(raw)))

	s := openTestStore(t, slots)
	got := s.Students()
	assert.Equal(t, "k2", got[0].KelompokKelas)
	assert.Equal(t, "k1", got[1].KelompokKelas)
	assert.Equal(t, "Kelas Hilang", got[2].KelompokKelas)

	var stored []model.Student
	require.NoError(t, json.Unmarshal([]byte(slotValue(t, slots, store.KeyStudents)), &stored))
	assert.Equal(t, "k2", stored[0].KelompokKelas)
}

func TestNotificationsPublished(t *testing.T) {
	q := queue.NewInMemory(8)
	s := openTestStore(t, store.NewMemory(), WithQueue(q))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	st, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)
	_, err = s.DeleteStudent(ctx, "missing")
	require.NoError(t, err)
	_, err = s.DeleteStudent(ctx, st.ID)
	require.NoError(t, err)

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	first := <-msgs
	assert.Equal(t, "student.created", first.Type)
	assert.Equal(t, "Data siswa berhasil ditambahkan", string(first.Body))
	second := <-msgs
	assert.Equal(t, "student.deleted", second.Type)
	assert.Equal(t, "Data siswa berhasil dihapus", string(second.Body))
}

func TestFlushAndClose(t *testing.T) {
	slots := store.NewMemory()
	s := openTestStore(t, slots)
	require.NoError(t, s.Close(context.Background()))

	assert.Equal(t, "[]", slotValue(t, slots, store.KeyStudents))
	assert.Equal(t, "[]", slotValue(t, slots, store.KeyGrades))
	assert.Equal(t, "[]", slotValue(t, slots, store.KeyAttendance))
}

func TestScenarioTwoGradesForBudi(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()
	a, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)

	g1, err := s.AddGrade(ctx, model.GradeFields{StudentID: a.ID, JenisTes: "Ulangan Harian", MataPelajaran: "Matematika", Nilai: 85})
	require.NoError(t, err)
	g2, err := s.AddGrade(ctx, model.GradeFields{StudentID: a.ID, JenisTes: "Ulangan Harian", MataPelajaran: "Matematika", Nilai: 95})
	require.NoError(t, err)

	got := s.GetGradesByStudentID(a.ID)
	assert.Equal(t, []model.GradeEntry{g1, g2}, got)

	stats := dashboard.BuildStats(s.Students(), s.Grades(), s.Attendance())
	assert.Equal(t, 90.0, dashboard.Summarize(stats).AverageScore)
}

func TestScenarioAttendanceSurvivesStudentDelete(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()
	a, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)

	rec, err := s.AddAttendance(ctx, model.AttendanceFields{
		Tanggal:       "2024-01-10",
		KelompokKelas: "k1",
		Hadir:         []model.Presence{{StudentID: a.ID, Nama: "Budi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.AttendanceRecord{rec}, s.GetAttendanceByClass("k1"))

	ok, err := s.DeleteStudent(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []model.AttendanceRecord{rec}, s.GetAttendanceByClass("k1"))
}

func TestConcurrentAddAttendanceSingleWinner(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()

	const writers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_, err := s.AddAttendance(ctx, model.AttendanceFields{Tanggal: "2024-03-01", KelompokKelas: "k1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrDuplicateAttendance):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.AddStudent(ctx, budi()); err != nil {
				t.Errorf("add student: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			_ = s.Students()
			_ = s.GetAttendanceByClass("k1")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, writers-1, conflicts)
	assert.Len(t, s.Attendance(), 1)
	assert.Len(t, s.Students(), writers)
}

func TestLegacyStudentEditableWithoutResolvedKelas(t *testing.T) {
	slots := store.NewMemory()
	ctx := context.Background()
	legacy := budi().WithID("s1")
	legacy.KelompokKelas = "Kelas Hilang"
	raw, err := json.Marshal([]model.Student{legacy})
	require.NoError(t, err)
	require.NoError(t, slots.Set(ctx, store.KeyStudents, string(raw)))

	s := openTestStore(t, slots)
	legacy.Nama = "Budi Baru"
	ok, err := s.UpdateStudent(ctx, legacy)
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ := s.GetStudentByID("s1")
	assert.Equal(t, "Budi Baru", got.Nama)

	legacy.KelompokKelas = "Kelas Lain"
	_, err = s.UpdateStudent(ctx, legacy)
	assert.ErrorIs(t, err, ErrUnknownKelas, "moving to another unknown class group is rejected")

	legacy.KelompokKelas = "k4"
	ok, err = s.UpdateStudent(ctx, legacy)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateUnknownIDSkipsValidation(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()

	ok, err := s.UpdateStudent(ctx, model.Student{ID: "missing"})
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.UpdateGrade(ctx, model.GradeEntry{ID: "missing", Nilai: 500})
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.UpdateAttendance(ctx, model.AttendanceRecord{ID: "missing"})
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestSearchStudents(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()
	a, err := s.AddStudent(ctx, budi())
	require.NoError(t, err)
	other := budi()
	other.Nama, other.NomorInduk, other.KelompokKelas, other.AsalSekolah = "Siti Aminah", "777", "k6", "SMP Harapan"
	b, err := s.AddStudent(ctx, other)
	require.NoError(t, err)

	assert.Equal(t, []model.Student{b}, s.SearchStudents("aminah"))
	assert.Equal(t, []model.Student{b}, s.SearchStudents("77"))
	assert.Equal(t, []model.Student{b}, s.SearchStudents("12b"))
	assert.Equal(t, []model.Student{a}, s.SearchStudents("smp 1"))
	assert.Equal(t, []model.Student{a, b}, s.SearchStudents("  "))
	assert.Empty(t, s.SearchStudents("k6"))
}

func TestGetByID(t *testing.T) {
	s := openTestStore(t, store.NewMemory())
	ctx := context.Background()

	g, err := s.AddGrade(ctx, model.GradeFields{StudentID: "s1", JenisTes: "Tugas", MataPelajaran: "IPA", Nilai: 70})
	require.NoError(t, err)
	got, ok := s.GetGradeByID(g.ID)
	require.True(t, ok)
	assert.Equal(t, g, got)
	_, ok = s.GetGradeByID("missing")
	assert.False(t, ok)

	rec, err := s.AddAttendance(ctx, model.AttendanceFields{Tanggal: "2024-03-01", KelompokKelas: "k1"})
	require.NoError(t, err)
	gotRec, ok := s.GetAttendanceByID(rec.ID)
	require.True(t, ok)
	assert.Equal(t, rec, gotRec)
}

func TestClassGroupAddPublishesNothing(t *testing.T) {
	q := queue.NewInMemory(4)
	s := openTestStore(t, store.NewMemory(), WithQueue(q))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := s.AddKelompokKelas(ctx, model.KelompokKelasFields{Nama: "Kelas 9A"})
	require.NoError(t, err)
	_, err = s.AddStudent(ctx, budi())
	require.NoError(t, err)

	msgs, err := q.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "student.created", (<-msgs).Type, "first message comes from the student, not the class group")
}
