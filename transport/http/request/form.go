// Package request reads typed values out of multipart and url-encoded forms.
package request

import (
	"net/http"
	"strings"

	"hotel/shared"
	"hotel/shared/constant"
	"hotel/shared/failure"

	"github.com/shopspring/decimal"
)

// FormInt returns zero for a missing field.
func FormInt(r *http.Request, field string) (int, error) {
	raw := r.FormValue(field)
	if raw == constant.Empty {
		return 0, nil
	}

	value, err := shared.ConvertStringToInt(raw)
	if err != nil {
		return 0, failure.BadRequestFromString(field + " must be a number") //nolint:wrapcheck
	}

	return value, nil
}

// FormIntPtr returns nil for a missing field.
func FormIntPtr(r *http.Request, field string) (*int, error) {
	if r.FormValue(field) == constant.Empty {
		return nil, nil //nolint:nilnil
	}

	value, err := FormInt(r, field)
	if err != nil {
		return nil, err
	}

	return &value, nil
}

// FormDecimal returns nil for a missing field.
func FormDecimal(r *http.Request, field string) (*decimal.Decimal, error) {
	raw := r.FormValue(field)
	if raw == constant.Empty {
		return nil, nil //nolint:nilnil
	}

	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, failure.BadRequestFromString(field + " must be a decimal number") //nolint:wrapcheck
	}

	return &value, nil
}

// FormList accepts repeated fields as well as one comma separated value.
func FormList(r *http.Request, field string) []string {
	var values []string

	for _, raw := range r.Form[field] {
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != constant.Empty {
				values = append(values, item)
			}
		}
	}

	return values
}
