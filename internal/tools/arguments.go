package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by the name the caller used
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// argumentKeys decodes the top level keys of a call. Empty or null arguments are an empty object.
func argumentKeys(raw json.RawMessage) (map[string]json.RawMessage, error) {
	keys := map[string]json.RawMessage{}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return keys, nil
	}

	err := json.Unmarshal(trimmed, &keys)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidArgument, "arguments must be a JSON object")
	}

	return keys, nil
}

// checkRequired fails with the required keys that are absent or null, in schema order.
func checkRequired(keys map[string]json.RawMessage, required []string) error {
	missing := []string{}

	for _, name := range required {
		value, ok := keys[name]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return errors.Wrap(ErrMissingArgument, strings.Join(missing, ", "))
	}

	return nil
}

// ValidateArguments decodes raw over defaults then validates the result.
func ValidateArguments[T any](raw json.RawMessage, defaults T) (T, error) {
	result := defaults

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		err := json.Unmarshal(trimmed, &result)
		if err != nil {
			return result, errors.Wrapf(ErrInvalidArgument, "%s", decodeErrorMessage(err))
		}
	}

	err := validate.Struct(result)
	if err != nil {
		return result, validationError(err)
	}

	return result, nil
}

func decodeErrorMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("field '%s' expects %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	}

	return err.Error()
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(ErrInvalidArgument, err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}

		msg := fmt.Sprintf("field '%s' failed rule '%s'", field, fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" expected '%s'", fe.Param())
		}

		msgs = append(msgs, fmt.Sprintf("%s, got '%v'", msg, fe.Value()))
	}

	return errors.Wrap(ErrInvalidArgument, strings.Join(msgs, "; "))
}
