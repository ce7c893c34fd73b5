package datastore

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var digitsRegex = regexp.MustCompile(`^\d+$`)

// messages maps "<Struct>.<jsonField>|<tag>" to the form message shown to users.
var messages = map[string]string{
	"StudentFields.nama|required":          "Nama siswa harus diisi",
	"StudentFields.nomorInduk|required":    "Nomor induk harus diisi",
	"StudentFields.kelompokKelas|required": "Kelompok kelas harus dipilih",
	"StudentFields.asalSekolah|required":   "Asal sekolah harus diisi",
	"StudentFields.nomorWhatsapp|required": "Nomor WhatsApp harus diisi",
	"StudentFields.nomorWhatsapp|digits":   "Nomor WhatsApp hanya boleh berisi angka",
	"StudentFields.email|required":         "Email harus diisi",
	"StudentFields.email|email":            "Format email tidak valid",
	"StudentFields.tanggalLahir|required":  "Tanggal lahir harus diisi",
	"StudentFields.tanggalLahir|datetime":  "Format tanggal lahir tidak valid",

	"GradeFields.studentId|required":     "Nama siswa harus dipilih",
	"GradeFields.jenisTes|required":      "Jenis tes harus dipilih",
	"GradeFields.mataPelajaran|required": "Mata pelajaran harus dipilih",
	"GradeFields.nilai|gte":              "Nilai harus antara 0-100",
	"GradeFields.nilai|lte":              "Nilai harus antara 0-100",

	"AttendanceFields.tanggal|required":       "Tanggal harus diisi",
	"AttendanceFields.tanggal|datetime":       "Format tanggal tidak valid",
	"AttendanceFields.kelompokKelas|required": "Kelompok kelas harus dipilih",

	"KelompokKelasFields.nama|required": "Nama kelompok kelas harus diisi",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsRegex.MatchString(fl.Field().String())
	})
	return v
}

// check validates input against its struct tags and converts failures into
// a *ValidationError.
func (s *Store) check(input interface{}) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate")
	}
	out := &ValidationError{Err: ErrInvalidInput}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Namespace()+"|"+fe.Tag()]; ok {
		return msg
	}
	if strings.HasSuffix(fe.Field(), "studentId") && fe.Tag() == "required" {
		return "Siswa tidak valid"
	}
	return fe.Error()
}

// fieldPath drops the struct name: "StudentFields.nama" -> "nama".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func unknownKelas(field string) error {
	return &ValidationError{
		Err:    ErrUnknownKelas,
		Fields: []FieldError{{Field: field, Message: "Kelompok kelas tidak ditemukan"}},
	}
}
