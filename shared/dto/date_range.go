package dto

import (
	"net/http"
	"time"

	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/timezone"
)

// DateRange is an inclusive range of calendar days read from the from/to query parameters.
type DateRange struct {
	From time.Time
	To   time.Time
}

// FromRequest reads from/to as YYYY-MM-DD. Missing bounds fall back to the last
// defaultDays days ending today. Ranges longer than constant.MaxRangeDays are rejected.
func (d *DateRange) FromRequest(r *http.Request, defaultDays int) error {
	query := r.URL.Query()
	today := timezone.Today()

	d.To = today
	d.From = today.AddDate(0, 0, -(defaultDays - 1))

	if raw := query.Get(constant.RequestParamTo); raw != "" {
		to, err := timezone.ParseDate(raw)
		if err != nil {
			return failure.BadRequestFromString("to must match the format 2006-01-02") //nolint:wrapcheck
		}

		d.To = to

		if query.Get(constant.RequestParamFrom) == "" {
			d.From = to.AddDate(0, 0, -(defaultDays - 1))
		}
	}

	if raw := query.Get(constant.RequestParamFrom); raw != "" {
		from, err := timezone.ParseDate(raw)
		if err != nil {
			return failure.BadRequestFromString("from must match the format 2006-01-02") //nolint:wrapcheck
		}

		d.From = from
	}

	if d.To.Before(d.From) {
		return failure.BadRequestFromString("from must not be after to") //nolint:wrapcheck
	}

	if d.Days() > constant.MaxRangeDays {
		return failure.BadRequestf("range must not exceed %d days", constant.MaxRangeDays) //nolint:wrapcheck
	}

	return nil
}

// End is the exclusive upper bound, midnight after To.
func (d DateRange) End() time.Time {
	return d.To.AddDate(0, 0, 1)
}

// Days counts the calendar days in the range.
func (d DateRange) Days() int {
	return int(d.End().Sub(d.From).Hours()/constant.HoursInDay + 0.5) //nolint:mnd
}

// Filters limits field to the range. Arg names are derived from the field so two
// ranges can share one query.
func (d DateRange) Filters(field, table string) []any {
	return []any{
		Filter{Field: field, ArgName: field + "_from", Operator: FilterOperatorGreaterEq, Value: d.From, Table: table},
		Filter{Field: field, ArgName: field + "_to", Operator: FilterOperatorLess, Value: d.End(), Table: table},
	}
}
