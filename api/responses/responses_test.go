package responses

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/calebreyes/storefront-backend/pkg/errors"
	"github.com/calebreyes/storefront-backend/pkg/types"
)

func TestWriteSuccessWrapsData(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope types.SuccessEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data)
}

func TestWriteErrorMapsCodesToStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive"), 400, "VALIDATION_ERROR"},
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "order not found"), 404, "NOT_FOUND"},
		{"state conflict", pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be modified"), 422, "STATE_CONFLICT"},
		{"insufficient stock", pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock"), 409, "INSUFFICIENT_STOCK"},
		{"unsupported config", pkgerrors.New(pkgerrors.CodeUnsupportedConfig, "unknown rule kind"), 422, "UNSUPPORTED_CONFIG"},
		{"untyped", context.DeadlineExceeded, 500, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			WriteError(context.Background(), nil, rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var envelope types.ErrorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.Equal(t, tc.code, envelope.Error.Code)
		})
	}
}

func TestWriteErrorHidesInternalMessages(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeInternal, "payments repo required"))

	var envelope types.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotContains(t, envelope.Error.Message, "payments repo")
}
