package entity

import (
	"encoding/json"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/apierror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

var decimalRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func init() {
	// Report errors under the JSON field name, not the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// decimal2: non-negative decimal string with at most two fraction digits
	// (the wire format for stock quantities).
	_ = validate.RegisterValidation("decimal2", func(fl validator.FieldLevel) bool {
		return decimalRe.MatchString(fl.Field().String())
	})
}

// fieldMessages maps validator tags to the per-field messages the original
// payload schemas produce.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " wajib diisi"
	case "decimal2":
		return fe.Field() + " harus bernilai desimal"
	default:
		return fe.Field() + " tidak valid"
	}
}

// bind unmarshals and validates a payload, converting failures into the
// validation envelope with one entry per invalid field.
func bind(raw json.RawMessage, req any) error {
	if err := json.Unmarshal(raw, req); err != nil {
		return apierror.New(http.StatusBadRequest, "JSON tidak valid: "+err.Error())
	}
	if err := validate.Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return apierror.New(http.StatusBadRequest, err.Error())
		}
		fields := make([]apierror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apierror.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return apierror.NewValidation(fields)
	}
	return nil
}

// parseDate accepts the date formats the original admin form submits.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
