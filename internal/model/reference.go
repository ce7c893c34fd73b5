package model

// DateLayout is the ISO date format used by every date field.
const DateLayout = "2006-01-02"

// MataPelajaran lists the subjects offered by the grade form.
var MataPelajaran = []string{
	"Matematika",
	"Bahasa Indonesia",
	"Bahasa Inggris",
	"IPA",
	"IPS",
	"Fisika",
	"Kimia",
	"Biologi",
	"Sejarah",
	"Geografi",
	"Ekonomi",
}

// JenisTes lists the assessment types offered by the grade form.
var JenisTes = []string{
	"Ulangan Harian",
	"Ujian Tengah Semester",
	"Ujian Akhir Semester",
	"Tugas",
	"Proyek",
	"Praktikum",
}

// SeedKelompokKelas returns the class groups created on first run.
func SeedKelompokKelas() []KelompokKelas {
	return []KelompokKelas{
		{ID: "k1", Nama: "Kelas 10A"},
		{ID: "k2", Nama: "Kelas 10B"},
		{ID: "k3", Nama: "Kelas 11A"},
		{ID: "k4", Nama: "Kelas 11B"},
		{ID: "k5", Nama: "Kelas 12A"},
		{ID: "k6", Nama: "Kelas 12B"},
	}
}
