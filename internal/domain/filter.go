package domain

// FilterKind selects the field vocabulary a filter list is translated against.
type FilterKind string

const (
	FilterKindConference FilterKind = "conference"
	FilterKindSession    FilterKind = "session"
)

// FilterField is a queryable entity field.
type FilterField string

// Conference fields.
const (
	FieldCity         FilterField = "city"
	FieldTopics       FilterField = "topics"
	FieldMonth        FilterField = "month"
	FieldMaxAttendees FilterField = "maxAttendees"
)

// Session fields.
const (
	FieldDuration      FilterField = "duration"
	FieldStartTime     FilterField = "startTime"
	FieldDate          FilterField = "date"
	FieldTypeOfSession FilterField = "typeOfSession"
)

// Operator is a comparison operator.
type Operator string

const (
	OpEQ   Operator = "="
	OpGT   Operator = ">"
	OpGTEQ Operator = ">="
	OpLT   Operator = "<"
	OpLTEQ Operator = "<="
	OpNE   Operator = "!="
)

// RawFilter is a filter as received on the wire, e.g. {"field":"CITY","operator":"EQ","value":"London"}.
// swagger:model RawFilter
type RawFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Filter is a validated single-field predicate.
//
// Value holds an int for month, maxAttendees and duration; a time.Time for date and
// startTime (startTime on 1970-01-01 UTC); a string for city, topics and typeOfSession.
type Filter struct {
	Field FilterField
	Op    Operator
	Value any
}
