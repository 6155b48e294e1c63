package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

// Wire field codes per filter kind.
var (
	conferenceFields = map[string]domain.FilterField{
		"CITY":          domain.FieldCity,
		"TOPIC":         domain.FieldTopics,
		"MONTH":         domain.FieldMonth,
		"MAX_ATTENDEES": domain.FieldMaxAttendees,
	}
	sessionFields = map[string]domain.FilterField{
		"DURATION":        domain.FieldDuration,
		"START_TIME":      domain.FieldStartTime,
		"DATE":            domain.FieldDate,
		"TYPE_OF_SESSION": domain.FieldTypeOfSession,
	}
	operators = map[string]domain.Operator{
		"EQ":   domain.OpEQ,
		"GT":   domain.OpGT,
		"GTEQ": domain.OpGTEQ,
		"LT":   domain.OpLT,
		"LTEQ": domain.OpLTEQ,
		"NE":   domain.OpNE,
	}
)

// startTimeEpoch is the date a startTime filter value is anchored to.
const startTimeEpoch = "1970-01-01 "

// TranslateFilters validates raw wire filters against the vocabulary of kind and
// converts their values to typed form. The output preserves input order.
func TranslateFilters(kind domain.FilterKind, raw []domain.RawFilter) ([]domain.Filter, error) {
	var fields map[string]domain.FilterField
	switch kind {
	case domain.FilterKindConference:
		fields = conferenceFields
	case domain.FilterKindSession:
		fields = sessionFields
	default:
		return nil, fmt.Errorf("%w: unknown filter kind %q", domain.ErrInvalidFilter, kind)
	}

	out := make([]domain.Filter, 0, len(raw))
	for _, rf := range raw {
		field, ok := fields[rf.Field]
		if !ok {
			return nil, fmt.Errorf("%w: field %q", domain.ErrInvalidFilter, rf.Field)
		}
		op, ok := operators[rf.Operator]
		if !ok {
			return nil, fmt.Errorf("%w: operator %q", domain.ErrInvalidFilter, rf.Operator)
		}
		value, err := parseFilterValue(field, rf.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Filter{Field: field, Op: op, Value: value})
	}
	return out, nil
}

func parseFilterValue(field domain.FilterField, raw string) (any, error) {
	switch field {
	case domain.FieldMonth, domain.FieldMaxAttendees, domain.FieldDuration:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %s value %q is not an integer", domain.ErrInvalidFilter, field, raw)
		}
		return n, nil
	case domain.FieldDate:
		d, err := time.Parse(domain.DateLayout, strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: date value %q must be YYYY-MM-DD", domain.ErrInvalidFilter, raw)
		}
		return d, nil
	case domain.FieldStartTime:
		t, err := time.Parse(domain.DateLayout+" "+domain.TimeLayout, startTimeEpoch+strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: startTime value %q must be HH:MM", domain.ErrInvalidFilter, raw)
		}
		return t, nil
	default:
		// city, topics and typeOfSession compare symbolically.
		return raw, nil
	}
}
