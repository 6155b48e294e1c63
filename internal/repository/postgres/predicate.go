package postgres

import (
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

// sqlOperator maps a filter operator to its SQL comparison.
func sqlOperator(op domain.Operator) (string, error) {
	switch op {
	case domain.OpEQ:
		return "=", nil
	case domain.OpNE:
		return "<>", nil
	case domain.OpGT:
		return ">", nil
	case domain.OpGTEQ:
		return ">=", nil
	case domain.OpLT:
		return "<", nil
	case domain.OpLTEQ:
		return "<=", nil
	default:
		return "", fmt.Errorf("%w: operator %q", domain.ErrInvalidFilter, op)
	}
}

// conferencePredicate returns the WHERE clause and argument for a single conference
// filter, using placeholder for the argument.
func conferencePredicate(f domain.Filter, placeholder string) (string, any, error) {
	op, err := sqlOperator(f.Op)
	if err != nil {
		return "", nil, err
	}
	switch f.Field {
	case domain.FieldCity:
		v, err := stringValue(f)
		return "city " + op + " " + placeholder, v, err
	case domain.FieldTopics:
		// Matches when any topic satisfies the comparison.
		v, err := stringValue(f)
		return "EXISTS (SELECT 1 FROM unnest(topics) AS t(topic) WHERE t.topic " + op + " " + placeholder + ")", v, err
	case domain.FieldMonth:
		v, err := intValue(f)
		return "month " + op + " " + placeholder, v, err
	case domain.FieldMaxAttendees:
		v, err := intValue(f)
		return "max_attendees " + op + " " + placeholder, v, err
	default:
		return "", nil, fmt.Errorf("%w: conference field %q", domain.ErrInvalidFilter, f.Field)
	}
}

// sessionPredicate returns the WHERE clause and argument for a single session filter.
func sessionPredicate(f domain.Filter, placeholder string) (string, any, error) {
	op, err := sqlOperator(f.Op)
	if err != nil {
		return "", nil, err
	}
	switch f.Field {
	case domain.FieldDuration:
		v, err := intValue(f)
		return "duration " + op + " " + placeholder, v, err
	case domain.FieldDate:
		v, err := timeValue(f)
		return "date " + op + " " + placeholder + "::date", v.Format(domain.DateLayout), err
	case domain.FieldStartTime:
		v, err := timeValue(f)
		return "start_time " + op + " " + placeholder + "::time", v.Format(timeOfDayLayout), err
	case domain.FieldTypeOfSession:
		if f.Op != domain.OpEQ && f.Op != domain.OpNE {
			return "", nil, fmt.Errorf("%w: %s on %s", domain.ErrUnsupportedOperator, f.Op, f.Field)
		}
		v, err := stringValue(f)
		return "type_of_session " + op + " " + placeholder, v, err
	default:
		return "", nil, fmt.Errorf("%w: session field %q", domain.ErrInvalidFilter, f.Field)
	}
}

// timeOfDayLayout is the format of TIME column arguments.
const timeOfDayLayout = "15:04:05"

func stringValue(f domain.Filter) (string, error) {
	switch v := f.Value.(type) {
	case string:
		return v, nil
	case domain.SessionType:
		return string(v), nil
	default:
		return "", fmt.Errorf("%w: %s expects a string, got %T", domain.ErrInvalidFilter, f.Field, f.Value)
	}
}

func intValue(f domain.Filter) (int, error) {
	v, ok := f.Value.(int)
	if !ok {
		return 0, fmt.Errorf("%w: %s expects an integer, got %T", domain.ErrInvalidFilter, f.Field, f.Value)
	}
	return v, nil
}

func timeValue(f domain.Filter) (time.Time, error) {
	v, ok := f.Value.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s expects a time, got %T", domain.ErrInvalidFilter, f.Field, f.Value)
	}
	return v, nil
}
