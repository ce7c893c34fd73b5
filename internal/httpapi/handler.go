package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"siswa/internal/dashboard"
	"siswa/internal/datastore"
	"siswa/internal/model"
)

// Records is the part of the DataStore the API serves.
type Records interface {
	AddStudent(ctx context.Context, fields model.StudentFields) (model.Student, error)
	UpdateStudent(ctx context.Context, student model.Student) (bool, error)
	DeleteStudent(ctx context.Context, id string) (bool, error)
	GetStudentByID(id string) (model.Student, bool)
	GetStudentsByKelas(kelasID string) []model.Student
	SearchStudents(query string) []model.Student
	Students() []model.Student

	AddGrade(ctx context.Context, fields model.GradeFields) (model.GradeEntry, error)
	UpdateGrade(ctx context.Context, grade model.GradeEntry) (bool, error)
	DeleteGrade(ctx context.Context, id string) (bool, error)
	GetGradeByID(id string) (model.GradeEntry, bool)
	GetGradesByStudentID(studentID string) []model.GradeEntry
	Grades() []model.GradeEntry

	AddAttendance(ctx context.Context, fields model.AttendanceFields) (model.AttendanceRecord, error)
	UpdateAttendance(ctx context.Context, record model.AttendanceRecord) (bool, error)
	DeleteAttendance(ctx context.Context, id string) (bool, error)
	GetAttendanceByID(id string) (model.AttendanceRecord, bool)
	GetAttendanceByClass(kelasID string) []model.AttendanceRecord
	GetAttendanceByStudentID(studentID string) []model.AttendanceMark
	Attendance() []model.AttendanceRecord

	AddKelompokKelas(ctx context.Context, fields model.KelompokKelasFields) (model.KelompokKelas, error)
	KelompokKelas() []model.KelompokKelas
	KelasName(id string) (string, bool)
}

type Handler struct {
	records Records
	log     zerolog.Logger
}

func New(records Records, log zerolog.Logger) *Handler {
	return &Handler{records: records, log: log}
}

// RegisterRoutes mounts the API under r.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/students", h.ListStudents)
	r.POST("/students", h.CreateStudent)
	r.GET("/students/:id", h.GetStudent)
	r.PUT("/students/:id", h.UpdateStudent)
	r.DELETE("/students/:id", h.DeleteStudent)
	r.GET("/students/:id/grades", h.StudentGrades)
	r.GET("/students/:id/attendance", h.StudentAttendance)
	r.GET("/students/:id/dashboard", h.StudentDashboard)

	r.GET("/grades", h.ListGrades)
	r.POST("/grades", h.CreateGrade)
	r.PUT("/grades/:id", h.UpdateGrade)
	r.DELETE("/grades/:id", h.DeleteGrade)

	r.GET("/attendance", h.ListAttendance)
	r.POST("/attendance", h.CreateAttendance)
	r.PUT("/attendance/:id", h.UpdateAttendance)
	r.DELETE("/attendance/:id", h.DeleteAttendance)

	r.GET("/kelompok-kelas", h.ListKelompokKelas)
	r.POST("/kelompok-kelas", h.CreateKelompokKelas)
	r.GET("/kelompok-kelas/:id/students", h.KelasStudents)

	r.GET("/dashboard", h.Dashboard)
	r.GET("/reference", h.Reference)
}

// ---------- Students ----------

// ListStudents supports ?q= (name, student number, class group name or
// previous school) and ?kelas= (class group id); both may be combined.
func (h *Handler) ListStudents(c *gin.Context) {
	var students []model.Student
	if q := c.Query("q"); q != "" {
		students = h.records.SearchStudents(q)
	} else {
		students = h.records.Students()
	}
	if kelas := c.Query("kelas"); kelas != "" {
		filtered := make([]model.Student, 0, len(students))
		for _, st := range students {
			if st.KelompokKelas == kelas {
				filtered = append(filtered, st)
			}
		}
		students = filtered
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req model.StudentFields
	if !bind(c, &req) {
		return
	}
	st, err := h.records.AddStudent(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) GetStudent(c *gin.Context) {
	st, ok := h.records.GetStudentByID(c.Param("id"))
	if !ok {
		notFound(c, "Siswa tidak ditemukan")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	var req model.StudentFields
	if !bind(c, &req) {
		return
	}
	st := req.WithID(c.Param("id"))
	ok, err := h.records.UpdateStudent(c.Request.Context(), st)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		notFound(c, "Siswa tidak ditemukan")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	ok, err := h.records.DeleteStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		notFound(c, "Siswa tidak ditemukan")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) StudentGrades(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.records.GetStudentByID(id); !ok {
		notFound(c, "Siswa tidak ditemukan")
		return
	}
	c.JSON(http.StatusOK, h.records.GetGradesByStudentID(id))
}

func (h *Handler) StudentAttendance(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.records.GetStudentByID(id); !ok {
		notFound(c, "Siswa tidak ditemukan")
		return
	}
	c.JSON(http.StatusOK, h.records.GetAttendanceByStudentID(id))
}

func (h *Handler) StudentDashboard(c *gin.Context) {
	st, ok := h.records.GetStudentByID(c.Param("id"))
	if !ok {
		notFound(c, "Siswa tidak ditemukan")
		return
	}
	kelasNama, _ := h.records.KelasName(st.KelompokKelas)
	report := dashboard.Report(st, kelasNama,
		h.records.GetGradesByStudentID(st.ID),
		h.records.GetAttendanceByStudentID(st.ID),
	)
	c.JSON(http.StatusOK, report)
}

// ---------- Grades ----------

func (h *Handler) ListGrades(c *gin.Context) {
	if studentID := c.Query("studentId"); studentID != "" {
		c.JSON(http.StatusOK, h.records.GetGradesByStudentID(studentID))
		return
	}
	c.JSON(http.StatusOK, h.records.Grades())
}

func (h *Handler) CreateGrade(c *gin.Context) {
	var req model.GradeFields
	if !bind(c, &req) {
		return
	}
	g, err := h.records.AddGrade(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) UpdateGrade(c *gin.Context) {
	var req model.GradeFields
	if !bind(c, &req) {
		return
	}
	g := model.GradeEntry{
		ID:            c.Param("id"),
		StudentID:     req.StudentID,
		JenisTes:      req.JenisTes,
		MataPelajaran: req.MataPelajaran,
		Nilai:         req.Nilai,
	}
	ok, err := h.records.UpdateGrade(c.Request.Context(), g)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		notFound(c, "Nilai tidak ditemukan")
		return
	}
	stored, found := h.records.GetGradeByID(g.ID)
	if !found {
		notFound(c, "Nilai tidak ditemukan")
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *Handler) DeleteGrade(c *gin.Context) {
	ok, err := h.records.DeleteGrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		notFound(c, "Nilai tidak ditemukan")
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- Attendance ----------

func (h *Handler) ListAttendance(c *gin.Context) {
	if kelas := c.Query("kelas"); kelas != "" {
		c.JSON(http.StatusOK, h.records.GetAttendanceByClass(kelas))
		return
	}
	c.JSON(http.StatusOK, h.records.Attendance())
}

func (h *Handler) CreateAttendance(c *gin.Context) {
	var req model.AttendanceFields
	if !bind(c, &req) {
		return
	}
	rec, err := h.records.AddAttendance(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *Handler) UpdateAttendance(c *gin.Context) {
	var req model.AttendanceFields
	if !bind(c, &req) {
		return
	}
	rec := model.AttendanceRecord{
		ID:            c.Param("id"),
		Tanggal:       req.Tanggal,
		KelompokKelas: req.KelompokKelas,
		Hadir:         req.Hadir,
	}
	ok, err := h.records.UpdateAttendance(c.Request.Context(), rec)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		notFound(c, "Data kehadiran tidak ditemukan")
		return
	}
	stored, found := h.records.GetAttendanceByID(rec.ID)
	if !found {
		notFound(c, "Data kehadiran tidak ditemukan")
		return
	}
	c.JSON(http.StatusOK, stored)
}

func (h *Handler) DeleteAttendance(c *gin.Context) {
	ok, err := h.records.DeleteAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		notFound(c, "Data kehadiran tidak ditemukan")
		return
	}
	c.Status(http.StatusNoContent)
}

// ---------- Class groups ----------

func (h *Handler) ListKelompokKelas(c *gin.Context) {
	c.JSON(http.StatusOK, h.records.KelompokKelas())
}

func (h *Handler) CreateKelompokKelas(c *gin.Context) {
	var req model.KelompokKelasFields
	if !bind(c, &req) {
		return
	}
	k, err := h.records.AddKelompokKelas(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, k)
}

func (h *Handler) KelasStudents(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.records.KelasName(id); !ok {
		notFound(c, "Kelompok kelas tidak ditemukan")
		return
	}
	c.JSON(http.StatusOK, h.records.GetStudentsByKelas(id))
}

// ---------- Dashboard ----------

func (h *Handler) Dashboard(c *gin.Context) {
	students := h.records.Students()
	if kelas := c.Query("kelas"); kelas != "" {
		students = h.records.GetStudentsByKelas(kelas)
	}
	stats := dashboard.BuildStats(students, h.records.Grades(), h.records.Attendance())
	c.JSON(http.StatusOK, dashboard.Summarize(stats))
}

func (h *Handler) Reference(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mataPelajaran": model.MataPelajaran,
		"jenisTes":      model.JenisTes,
	})
}

// ---------- helpers ----------

func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mohon periksa kembali form Anda"})
		return false
	}
	return true
}

func notFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *datastore.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mohon periksa kembali form Anda", "fields": verr.Fields})
	case errors.Is(err, datastore.ErrDuplicateAttendance):
		c.JSON(http.StatusConflict, gin.H{"error": "Data kehadiran untuk kelas ini pada tanggal tersebut sudah ada"})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Terjadi kesalahan saat menyimpan data"})
	}
}
