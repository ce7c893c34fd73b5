// Package dashboard computes read-only views over snapshots taken from the
// datastore. Nothing here holds state.
package dashboard

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"siswa/internal/model"
)

// StudentStat is one student with their mean score and number of days present.
type StudentStat struct {
	Student         model.Student `json:"student"`
	Nilai           float64       `json:"nilai"`
	JumlahKehadiran int           `json:"jumlahKehadiran"`
}

// Summary is the headline aggregate shown on the dashboard.
type Summary struct {
	TotalStudents     int          `json:"totalStudents"`
	AverageScore      float64      `json:"averageScore"`
	TopStudent        *StudentStat `json:"topStudent"`
	AverageAttendance float64      `json:"averageAttendance"`
}

// Summarize aggregates stats. Ties for the top score go to the first student
// in input order. An empty input yields the zero Summary.
func Summarize(stats []StudentStat) Summary {
	if len(stats) == 0 {
		return Summary{}
	}

	var totalScore float64
	var totalAttendance int
	top := 0
	for i, st := range stats {
		totalScore += st.Nilai
		totalAttendance += st.JumlahKehadiran
		if st.Nilai > stats[top].Nilai {
			top = i
		}
	}
	n := float64(len(stats))
	best := stats[top]
	return Summary{
		TotalStudents:     len(stats),
		AverageScore:      round1(totalScore / n),
		TopStudent:        &best,
		AverageAttendance: round1(float64(totalAttendance) / n),
	}
}

// BuildStats derives a StudentStat for every student, in student order.
// Students without grades score 0.
func BuildStats(students []model.Student, grades []model.GradeEntry, attendance []model.AttendanceRecord) []StudentStat {
	type acc struct {
		sum   float64
		count int
	}
	scores := make(map[string]*acc, len(students))
	for _, g := range grades {
		a, ok := scores[g.StudentID]
		if !ok {
			a = &acc{}
			scores[g.StudentID] = a
		}
		a.sum += g.Nilai
		a.count++
	}
	present := make(map[string]int, len(students))
	for _, rec := range attendance {
		seen := make(map[string]bool, len(rec.Hadir))
		for _, p := range rec.Hadir {
			if !seen[p.StudentID] {
				seen[p.StudentID] = true
				present[p.StudentID]++
			}
		}
	}

	out := make([]StudentStat, 0, len(students))
	for _, st := range students {
		stat := StudentStat{Student: st, JumlahKehadiran: present[st.ID]}
		if a, ok := scores[st.ID]; ok && a.count > 0 {
			stat.Nilai = a.sum / float64(a.count)
		}
		out = append(out, stat)
	}
	return out
}

// SubjectAverage is the mean score of one subject.
type SubjectAverage struct {
	Subject string  `json:"subject"`
	Nilai   float64 `json:"nilai"`
}

// SubjectAverages groups grades by subject in first-seen order.
func SubjectAverages(grades []model.GradeEntry) []SubjectAverage {
	var order []string
	sums := map[string][]float64{}
	for _, g := range grades {
		if _, ok := sums[g.MataPelajaran]; !ok {
			order = append(order, g.MataPelajaran)
		}
		sums[g.MataPelajaran] = append(sums[g.MataPelajaran], g.Nilai)
	}
	out := make([]SubjectAverage, 0, len(order))
	for _, subject := range order {
		var total float64
		for _, v := range sums[subject] {
			total += v
		}
		out = append(out, SubjectAverage{Subject: subject, Nilai: total / float64(len(sums[subject]))})
	}
	return out
}

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthAttendance counts present and absent days within one month.
type MonthAttendance struct {
	Month   string `json:"month"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

// MonthlyAttendance buckets marks by calendar month in first-seen order.
// Marks with a malformed date are skipped.
func MonthlyAttendance(marks []model.AttendanceMark) []MonthAttendance {
	var out []MonthAttendance
	index := map[int]int{}
	for _, m := range marks {
		month, ok := monthOf(m.Date)
		if !ok {
			continue
		}
		i, seen := index[month]
		if !seen {
			i = len(out)
			index[month] = i
			out = append(out, MonthAttendance{Month: monthNames[month-1]})
		}
		if m.Present {
			out[i].Present++
		} else {
			out[i].Absent++
		}
	}
	if out == nil {
		return []MonthAttendance{}
	}
	return out
}

func monthOf(date string) (int, bool) {
	parts := strings.Split(date, "-")
	if len(parts) < 2 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}

// ProgressPoint is one grade placed on a student's timeline.
type ProgressPoint struct {
	ID            int     `json:"id"`
	Tanggal       string  `json:"tanggal"`
	MataPelajaran string  `json:"mataPelajaran"`
	Nilai         float64 `json:"nilai"`
	JenisTes      string  `json:"jenisTes"`
}

// GradeProgress orders grades by date, keeping insertion order within a day,
// and numbers them from 1.
func GradeProgress(grades []model.GradeEntry) []ProgressPoint {
	sorted := make([]model.GradeEntry, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Tanggal < sorted[j].Tanggal })

	out := make([]ProgressPoint, 0, len(sorted))
	for i, g := range sorted {
		out = append(out, ProgressPoint{
			ID:            i + 1,
			Tanggal:       g.Tanggal,
			MataPelajaran: g.MataPelajaran,
			Nilai:         g.Nilai,
			JenisTes:      g.JenisTes,
		})
	}
	return out
}

// GradeLabel maps a score to its letter grade.
func GradeLabel(nilai float64) string {
	switch {
	case nilai >= 90:
		return "A"
	case nilai >= 80:
		return "B"
	case nilai >= 70:
		return "C"
	case nilai >= 60:
		return "D"
	default:
		return "E"
	}
}

// StudentReport is everything the per-student dashboard shows.
type StudentReport struct {
	Student    model.Student      `json:"student"`
	KelasNama  string             `json:"kelasNama"`
	Grades     []model.GradeEntry `json:"grades"`
	Subjects   []SubjectAverage   `json:"subjects"`
	Attendance []MonthAttendance  `json:"attendance"`
	Progress   []ProgressPoint    `json:"progress"`
}

// Report assembles a StudentReport from one student's grades and marks.
func Report(st model.Student, kelasNama string, grades []model.GradeEntry, marks []model.AttendanceMark) StudentReport {
	return StudentReport{
		Student:    st,
		KelasNama:  kelasNama,
		Grades:     grades,
		Subjects:   SubjectAverages(grades),
		Attendance: MonthlyAttendance(marks),
		Progress:   GradeProgress(grades),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
