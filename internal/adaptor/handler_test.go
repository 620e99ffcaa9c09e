package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"boxing-booking/internal/usecase"
	"boxing-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"validation", usecase.ErrPublishTimeOrder, http.StatusBadRequest, 6004},
		{"unauthorized", usecase.ErrUnauthenticated, http.StatusUnauthorized, 1001},
		{"forbidden", usecase.ErrUpdateNotOwner, http.StatusForbidden, 6027},
		{"not found", usecase.ErrBookSlotNotFound, http.StatusNotFound, 6062},
		{"conflict", usecase.ErrSlotFull, http.StatusConflict, 6065},
		{"unavailable", usecase.ErrStoreTimeout.Wrap(errors.New("deadline")), http.StatusServiceUnavailable, 9001},
		{"internal", usecase.ErrBookFailed, http.StatusInternalServerError, 6066},
		{"wrapped", fmt.Errorf("booking: %w", usecase.ErrAlreadyBooked), http.StatusConflict, 6064},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, utils.CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			writeError(w, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp utils.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.ErrCode)
			assert.NotEmpty(t, resp.ErrMsg)
		})
	}
}

func TestWriteErrorRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, zap.NewNop(), usecase.ErrStoreBusy, "test")
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	w = httptest.NewRecorder()
	writeError(w, zap.NewNop(), usecase.ErrSlotFull, "test")
	assert.Empty(t, w.Header().Get("Retry-After"))
}
