package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required":         "{field} is required",
		"gte":              "{field} must be greater than or equal to {param}",
		"lte":              "{field} must be less than or equal to {param}",
		"oneof":            "{field} must be one of {param}",
		"max":              "{field} must be less than or equal to {param}",
		"min":              "{field} must be greater than or equal to {param}",
		"email":            "{field} must be a valid email address",
		"datetime":         "{field} must match the format {param}",
		"dmin":             "{field} must be greater than or equal to {param}",
		"dmax":             "{field} must be less than or equal to {param}",
		"dgt":              "{field} must be greater than {param}",
		"gtfield":          "{field} must be after {param}",
		"mimetypes":        "{field} must be one of {param}",
		"maxfilesize":      "{field} must not exceed {param} MB",
		"required_without": "{field} is required when {param} is empty",
		"required_if":      "{field} is required when {param}",
		"excluded_with":    "{field} must be empty when {param} is set",
		"required_with":    "{field} is required when {param} is set",
		"slug":             "{field} must contain only lowercase letters, digits and hyphens",
		"permission":       "{field} must look like resource:action",
		"url":              "{field} must be a valid URL",
		"iso4217":          "{field} must be an ISO 4217 currency code",
		"timezone":         "{field} must be a valid IANA time zone",
	}
)

func message(err error) string {
	var valErrors val.ValidationErrors

	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			errStr := ""
			field := valErr.Field()
			param := valErr.Param()

			errStr = messages[valErr.Tag()]
			if errStr != "" {
				errStr = strings.ReplaceAll(errStr, "{field}", field)
				errStr = strings.ReplaceAll(errStr, "{param}", param)

				return errStr
			}
		}

		return valErrors.Error()
	}

	return err.Error()
}
