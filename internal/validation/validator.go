package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	locale "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
)

type violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PayloadError is accumulated list of request payload violations
type PayloadError struct {
	violations []violation
}

func (e *PayloadError) Error() string {
	buff := bytes.NewBufferString("")

	for _, err := range e.violations {
		buff.WriteString(err.Message)
		buff.WriteString("\n")
	}

	return buff.String()
}

// Violation appends single violation to error
func (e *PayloadError) Violation(v violation) {
	e.violations = append(e.violations, v)
}

func (e *PayloadError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Errors []violation `json:"errors"`
	}{
		Errors: e.violations,
	})
}

// EchoValidator adapts validator.v10 to echo Validator contract
type EchoValidator struct {
	validator  *validator.Validate
	translator ut.Translator
}

// Echo builds EchoValidator with english translations registered
func Echo() (*EchoValidator, error) {
	en := locale.New()
	uni := ut.New(en, en)

	translator, ok := uni.GetTranslator("en")
	if !ok {
		return nil, errors.New("failed to find translator for en locale")
	}

	validate := validator.New()
	if err := translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, fmt.Errorf("failed to register validation translations - %w", err)
	}

	return &EchoValidator{
		validator:  validate,
		translator: translator,
	}, nil
}

// Validate implements echo.Validator
func (v *EchoValidator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return v.payloadError(ve)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (v *EchoValidator) payloadError(ve validator.ValidationErrors) error {
	pldErr := &PayloadError{violations: make([]violation, 0)}
	for _, e := range ve {
		pldErr.Violation(violation{
			Field:   e.Field(),
			Message: e.Translate(v.translator),
		})
	}
	return pldErr
}
