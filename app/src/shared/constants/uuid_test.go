package constants

import (
	"strings"
	"testing"

	sharederrors "quote-frontend/app/src/shared/errors"

	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDFormat(t *testing.T) {
	t.Log("генерируем UUID и проверяем формат")
	id := GenerateUUID()

	assert.Len(t, id, 36)
	for _, pos := range []int{8, 13, 18, 23} {
		assert.Equal(t, byte('-'), id[pos])
	}
	assert.Equal(t, byte('4'), id[14])
}

func TestGenerateUUIDUnique(t *testing.T) {
	assert.NotEqual(t, GenerateUUID(), GenerateUUID())
}

func TestParseUUIDNormalisesCase(t *testing.T) {
	t.Log("проверяем приведение к нижнему регистру")
	upper := "123E4567-E89B-12D3-A456-426614174000"

	parsed, err := ParseUUID(upper)
	assert.NoError(t, err)
	assert.Equal(t, strings.ToLower(upper), parsed)
}

func TestParseUUIDRejectsInvalid(t *testing.T) {
	cases := []string{
		"",
		"not-a-uuid",
		"123e4567e89b12d3a456426614174000",
		"123e4567-e89b-12d3-a456-42661417400z",
		"{123e4567-e89b-12d3-a456-426614174000}",
	}
	for _, value := range cases {
		_, err := ParseUUID(value)
		assert.ErrorIs(t, err, sharederrors.ErrInvalidUUID, value)
	}
}

func TestRequestIDKeepsValidIncoming(t *testing.T) {
	t.Log("Шаг 1: валидный идентификатор сохраняется")
	id := "123e4567-e89b-12d3-a456-426614174000"
	assert.Equal(t, id, RequestID(id))

	t.Log("Шаг 2: некорректный идентификатор заменяется новым")
	generated := RequestID("garbage")
	assert.NotEqual(t, "garbage", generated)
	_, err := ParseUUID(generated)
	assert.NoError(t, err)
}
