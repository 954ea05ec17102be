package doujin

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// EntryInput carries the user-supplied fields of a create or update request.
// Authors and genres arrive as comma-separated text.
type EntryInput struct {
	Title         string `validate:"required,max=500"`
	Circle        string `validate:"max=255"`
	AuthorsText   string
	GenresText    string
	PublishedDate string `validate:"omitempty,datetime=2006-01-02"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports one or more invalid input fields.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Validate checks the input against its struct tags and maps failures to
// user-facing field errors.
func (in EntryInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fields []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		field := fe.Field()
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		fields = append(fields, FieldError{Field: fieldName, Message: message})
	}

	return &ValidationError{Fields: fields}
}
