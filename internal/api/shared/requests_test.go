package shared

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type editPayload struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer"   validate:"required"`
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("not ok")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	var p editPayload
	req := httptest.NewRequest("PUT", "/", strings.NewReader(`{"question":"Q","answer":"A"}`))
	require.NoError(t, DecodeJSON(req, &p))
	assert.Equal(t, editPayload{Question: "Q", Answer: "A"}, p)

	req = httptest.NewRequest("PUT", "/", strings.NewReader(`{"question":"Q","extra":1}`))
	assert.Error(t, DecodeJSON(req, &p))

	req = httptest.NewRequest("PUT", "/", strings.NewReader(`{"question":`))
	assert.Error(t, DecodeJSON(req, &p))
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateRequest(editPayload{Question: "Q", Answer: "A"}))
	assert.Error(t, ValidateRequest(editPayload{Question: "Q"}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
	assert.EqualError(t, ValidateRequest(selfValidating{}), "not ok")
}
