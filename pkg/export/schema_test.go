package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSONAcceptsExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleDataset()))
	assert.NoError(t, ValidateJSON(buf.Bytes()))
}

func TestValidateJSONRejectsBadDirection(t *testing.T) {
	data := []byte(`[{"sessionId": "a", "direction": "sideways", "splitGps": "00:02:00.0", "distanceGps": 10, "strokeRate": 20}]`)
	assert.ErrorIs(t, ValidateJSON(data), ErrSchemaViolation)
}

func TestValidateJSONRejectsMissingField(t *testing.T) {
	data := []byte(`[{"sessionId": "a", "direction": "up", "splitGps": "00:02:00.0"}]`)
	assert.ErrorIs(t, ValidateJSON(data), ErrSchemaViolation)
}

func TestValidateJSONRejectsNonArray(t *testing.T) {
	assert.ErrorIs(t, ValidateJSON([]byte(`{"rows": []}`)), ErrSchemaViolation)
}

func TestValidateJSONRejectsMalformed(t *testing.T) {
	assert.ErrorIs(t, ValidateJSON([]byte(`[{]`)), ErrSchemaViolation)
}

func TestValidateJSONAcceptsEmptyArray(t *testing.T) {
	assert.NoError(t, ValidateJSON([]byte(`[]`)))
}
