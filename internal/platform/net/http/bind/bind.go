// Package bind provides JSON bind and validation helpers for handlers
package bind

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/logger"
	ptime "tubepulse/internal/platform/time"
)

// ValidatorSvc holds a singleton validator and translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// Get returns the validator singleton, initializing on first use
// json tag names are used in messages and the ymd tag accepts YYYY-MM-DD
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerShort(v, trans, "min", "{0} must be at least {1}")
		registerShort(v, trans, "max", "{0} must be at most {1}")
		_ = v.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
			_, err := time.Parse(ptime.DateLayout, fl.Field().String())
			return err == nil
		})
		registerShort(v, trans, "ymd", "{0} must be a date like 2006-01-02")

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// JSONOptions controls parsing behavior
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}
}

// ParseJSON decodes JSON into T, validates it, and maps failures to project errors
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Debug().Err(err).Msg("close request body")
		}
	}()

	buf := make([]byte, 1)
	n, _ := r.Body.Read(buf)
	if n == 0 {
		return zero, perr.JSONErrf("empty body")
	}
	var reader io.Reader = io.MultiReader(bytes.NewReader(buf[:n]), r.Body)
	if o.MaxBytes > 0 {
		reader = io.LimitReader(reader, o.MaxBytes)
	}

	dec := json.NewDecoder(reader)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Struct(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// Struct validates v and returns a validation error carrying the first failing field
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.JSONErrf("validation error")
	}
	field, msg := ValidationFieldAndMessage(err)
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}

// ValidationFieldAndMessage returns the first field and translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(u ut.Translator) error { return u.Add(tag, text, true) },
		func(u ut.Translator, fe validator.FieldError) string {
			msg, _ := u.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
