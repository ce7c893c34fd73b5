package model

// Student represents an enrolled student.
type Student struct {
	ID            string `json:"id"`
	Nama          string `json:"nama"`
	NomorInduk    string `json:"nomorInduk"`
	KelompokKelas string `json:"kelompokKelas"` // class group id
	AsalSekolah   string `json:"asalSekolah"`
	NomorWhatsapp string `json:"nomorWhatsapp"`
	Email         string `json:"email"`
	TanggalLahir  string `json:"tanggalLahir"` // YYYY-MM-DD
}

// StudentFields is the input accepted when creating a student.
type StudentFields struct {
	Nama          string `json:"nama" validate:"required"`
	NomorInduk    string `json:"nomorInduk" validate:"required"`
	KelompokKelas string `json:"kelompokKelas" validate:"required"`
	AsalSekolah   string `json:"asalSekolah" validate:"required"`
	NomorWhatsapp string `json:"nomorWhatsapp" validate:"required,digits"`
	Email         string `json:"email" validate:"required,email"`
	TanggalLahir  string `json:"tanggalLahir" validate:"required,datetime=2006-01-02"`
}

// Fields returns the user-editable part of s.
func (s Student) Fields() StudentFields {
	return StudentFields{
		Nama:          s.Nama,
		NomorInduk:    s.NomorInduk,
		KelompokKelas: s.KelompokKelas,
		AsalSekolah:   s.AsalSekolah,
		NomorWhatsapp: s.NomorWhatsapp,
		Email:         s.Email,
		TanggalLahir:  s.TanggalLahir,
	}
}

// WithID builds a Student from its fields.
func (f StudentFields) WithID(id string) Student {
	return Student{
		ID:            id,
		Nama:          f.Nama,
		NomorInduk:    f.NomorInduk,
		KelompokKelas: f.KelompokKelas,
		AsalSekolah:   f.AsalSekolah,
		NomorWhatsapp: f.NomorWhatsapp,
		Email:         f.Email,
		TanggalLahir:  f.TanggalLahir,
	}
}

// GradeEntry is one recorded score for one student.
type GradeEntry struct {
	ID            string  `json:"id"`
	StudentID     string  `json:"studentId"`
	JenisTes      string  `json:"jenisTes"`
	MataPelajaran string  `json:"mataPelajaran"`
	Nilai         float64 `json:"nilai"`
	Tanggal       string  `json:"tanggal"` // set by the store
}

// GradeFields is the input accepted when creating a grade. Tanggal is not
// part of it: the store stamps it.
type GradeFields struct {
	StudentID     string  `json:"studentId" validate:"required"`
	JenisTes      string  `json:"jenisTes" validate:"required"`
	MataPelajaran string  `json:"mataPelajaran" validate:"required"`
	Nilai         float64 `json:"nilai" validate:"gte=0,lte=100"`
}

// Fields returns the user-editable part of g.
func (g GradeEntry) Fields() GradeFields {
	return GradeFields{
		StudentID:     g.StudentID,
		JenisTes:      g.JenisTes,
		MataPelajaran: g.MataPelajaran,
		Nilai:         g.Nilai,
	}
}

// Presence marks one student as present in an AttendanceRecord.
type Presence struct {
	StudentID string `json:"studentId" validate:"required"`
	Nama      string `json:"nama"`
}

// AttendanceRecord lists the students present in one class group on one date.
// Students not listed are absent.
type AttendanceRecord struct {
	ID            string     `json:"id"`
	Tanggal       string     `json:"tanggal"`
	KelompokKelas string     `json:"kelompokKelas"`
	Hadir         []Presence `json:"hadir"`
}

// AttendanceFields is the input accepted when creating an attendance record.
type AttendanceFields struct {
	Tanggal       string     `json:"tanggal" validate:"required,datetime=2006-01-02"`
	KelompokKelas string     `json:"kelompokKelas" validate:"required"`
	Hadir         []Presence `json:"hadir" validate:"dive"`
}

// Fields returns the user-editable part of r.
func (r AttendanceRecord) Fields() AttendanceFields {
	return AttendanceFields{
		Tanggal:       r.Tanggal,
		KelompokKelas: r.KelompokKelas,
		Hadir:         r.Hadir,
	}
}

// AttendanceMark is one row of a student's attendance history.
type AttendanceMark struct {
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

// KelompokKelas is a named class group.
type KelompokKelas struct {
	ID   string `json:"id"`
	Nama string `json:"nama"`
}

// KelompokKelasFields is the input accepted when creating a class group.
type KelompokKelasFields struct {
	Nama string `json:"nama" validate:"required"`
}
