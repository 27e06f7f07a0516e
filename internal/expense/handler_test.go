package expense

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falmansour/qisma/pkg/response"
)

func previewRequest(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()

	handler := NewHandler(NewService(nil, nil, nil))
	req := httptest.NewRequest(http.MethodPost, "/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Routes().ServeHTTP(rec, req)
	return rec
}

func decodePreview(t *testing.T, rec *httptest.ResponseRecorder) *PreviewSplitResponse {
	t.Helper()

	var envelope struct {
		Success bool                  `json:"success"`
		Data    *PreviewSplitResponse `json:"data"`
		Error   *response.APIError    `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NotNil(t, envelope.Data)
	return envelope.Data
}

func TestPreviewEqualSplit(t *testing.T) {
	rec := previewRequest(t, `{
		"amount": 100,
		"participant_ids": ["alice", "bob"]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodePreview(t, rec)
	assert.True(t, data.Validation.OK)
	assert.Equal(t, 50.0, data.Shares["alice"])
	assert.Equal(t, 50.0, data.Shares["bob"])
}

func TestPreviewPercentSplit(t *testing.T) {
	rec := previewRequest(t, `{
		"amount": 200,
		"participant_ids": ["alice", "bob"],
		"split": {
			"type": "PERCENT",
			"allocations": [
				{"user_id": "alice", "value": 70},
				{"user_id": "bob", "value": 30}
			]
		}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodePreview(t, rec)
	assert.True(t, data.Validation.OK)
	assert.Equal(t, 140.0, data.Shares["alice"])
	assert.Equal(t, 60.0, data.Shares["bob"])
}

func TestPreviewInvalidSplitStillReturnsShares(t *testing.T) {
	rec := previewRequest(t, `{
		"amount": 100,
		"participant_ids": ["alice", "bob"],
		"split": {
			"type": "PERCENT",
			"allocations": [
				{"user_id": "alice", "value": 0},
				{"user_id": "bob", "value": 0}
			]
		}
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodePreview(t, rec)
	assert.False(t, data.Validation.OK)
	assert.NotEmpty(t, data.Validation.Message)
	assert.Equal(t, 0.0, data.Shares["alice"])
	assert.Equal(t, 0.0, data.Shares["bob"])
}

func TestPreviewMalformedBody(t *testing.T) {
	rec := previewRequest(t, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
