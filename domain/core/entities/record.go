package entities

// Default field values for a freshly created record.
const (
	DefaultQuestion = "新题目"
	DefaultAnswer   = ""
	DefaultDetail   = ""
)

// Record is one question/answer/detail triple. Records carry no identity of
// their own; inside a list they are addressed by position. A record is a
// value: edits replace it wholesale.
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Detail   string `json:"detail"`
}

// DefaultRecord returns the record inserted by add and insert-after.
func DefaultRecord() Record {
	return Record{
		Question: DefaultQuestion,
		Answer:   DefaultAnswer,
		Detail:   DefaultDetail,
	}
}

// HasDetail reports whether the record carries an extended explanation.
func (r Record) HasDetail() bool {
	return r.Detail != ""
}

// Field names accepted by WithField.
const (
	FieldQuestion = "question"
	FieldAnswer   = "answer"
	FieldDetail   = "detail"
)

// WithField returns a copy of the record with one field rewritten.
func (r Record) WithField(field, value string) (Record, bool) {
	switch field {
	case FieldQuestion:
		r.Question = value
	case FieldAnswer:
		r.Answer = value
	case FieldDetail:
		r.Detail = value
	default:
		return r, false
	}
	return r, true
}
