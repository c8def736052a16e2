package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// trans is the singleton English translator for validation errors.
var (
	trans     ut.Translator
	setupOnce sync.Once
)

// customRule is a domain validation tag with its translated message.
type customRule struct {
	tag     string
	fn      govalidator.Func
	message string
}

var customRules = []customRule{
	{
		tag:     "subject",
		fn:      func(fl govalidator.FieldLevel) bool { return model.Subject(fl.Field().String()).Valid() },
		message: "{0} must be one of physics, chemistry, biology",
	},
	{
		tag:     "difficulty",
		fn:      func(fl govalidator.FieldLevel) bool { return model.Difficulty(fl.Field().String()).Valid() },
		message: "{0} must be one of easy, medium, hard",
	},
	{
		tag:     "day",
		fn:      func(fl govalidator.FieldLevel) bool { return isDay(fl.Field().String()) },
		message: "{0} must be a date in YYYY-MM-DD format",
	},
}

func isDay(s string) bool {
	if _, err := time.Parse(model.DateLayout, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

// Setup registers the validator with English translations and the domain
// rules on Gin's binding engine. Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}

		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		for _, rule := range customRules {
			_ = v.RegisterValidation(rule.tag, rule.fn)
			registerTranslation(v, rule.tag, rule.message)
		}
	})
}

func registerTranslation(v *govalidator.Validate, tag, message string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			key := fe.Namespace()
			if i := strings.Index(key, "."); i >= 0 {
				key = key[i+1:]
			}
			if trans != nil {
				fields[key] = fe.Translate(trans)
			} else {
				fields[key] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindQuery binds and validates query parameters into dst.
func BindQuery(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
