package ingest

import "fmt"

// PageSize is the default number of rows shown per preview page.
const PageSize = 5

// FieldSelection names the row fields used for the question and answer.
type FieldSelection struct {
	QuestionField string `json:"question_field"`
	AnswerField   string `json:"answer_field"`
}

// IsComplete reports whether both fields are set.
func (s FieldSelection) IsComplete() bool {
	return s.QuestionField != "" && s.AnswerField != ""
}

// FieldMapper holds parsed rows, their discovered headers and the current
// field selection. Headers come from the first row only.
type FieldMapper struct {
	rows      []Row
	headers   []string
	selection FieldSelection
	pageSize  int
}

// NewFieldMapper creates a mapper over rows. When at least two headers exist
// the selection defaults to the first two.
func NewFieldMapper(rows []Row) *FieldMapper {
	m := &FieldMapper{rows: rows, pageSize: PageSize}
	if len(rows) > 0 {
		m.headers = rows[0].Keys()
	}

	if len(m.headers) >= 2 {
		m.selection = FieldSelection{QuestionField: m.headers[0], AnswerField: m.headers[1]}
	}

	return m
}

// Headers returns the field names of the first row in order.
func (m *FieldMapper) Headers() []string {
	headers := make([]string, len(m.headers))
	copy(headers, m.headers)
	return headers
}

// Rows returns every parsed row.
func (m *FieldMapper) Rows() []Row {
	return m.rows
}

// Selection returns the current field selection.
func (m *FieldMapper) Selection() FieldSelection {
	return m.selection
}

// SelectQuestion sets the question field.
func (m *FieldMapper) SelectQuestion(field string) {
	m.selection.QuestionField = field
}

// SelectAnswer sets the answer field.
func (m *FieldMapper) SelectAnswer(field string) {
	m.selection.AnswerField = field
}

// Select replaces the whole selection.
func (m *FieldMapper) Select(sel FieldSelection) {
	m.selection = sel
}

// Validate returns ErrMissingField unless both fields are set and are
// discovered headers.
func (m *FieldMapper) Validate() error {
	if !m.selection.IsComplete() {
		return ErrMissingField
	}
	for _, f := range []string{m.selection.QuestionField, m.selection.AnswerField} {
		if !m.hasHeader(f) {
			return fmt.Errorf("%w: unknown field %q", ErrMissingField, f)
		}
	}
	return nil
}

// SetPageSize changes the preview page size. Values below 1 are ignored.
func (m *FieldMapper) SetPageSize(n int) {
	if n >= 1 {
		m.pageSize = n
	}
}

// PageCount returns the number of preview pages, at least 1.
func (m *FieldMapper) PageCount() int {
	if len(m.rows) == 0 {
		return 1
	}
	return (len(m.rows) + m.pageSize - 1) / m.pageSize
}

// Page returns the 1-based page n, clamped to [1, PageCount], and the page
// number actually used.
func (m *FieldMapper) Page(n int) ([]Row, int) {
	total := m.PageCount()
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}

	start := (n - 1) * m.pageSize
	end := start + m.pageSize
	if end > len(m.rows) {
		end = len(m.rows)
	}
	if start > end {
		start = end
	}
	return m.rows[start:end], n
}

func (m *FieldMapper) hasHeader(field string) bool {
	for _, h := range m.headers {
		if h == field {
			return true
		}
	}
	return false
}
