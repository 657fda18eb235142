// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, provider, outcome string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, GenerationsTotal.WithLabelValues(provider, outcome).Write(m))
	return m.GetCounter().GetValue()
}

func TestRecordGeneration(t *testing.T) {
	before := counterValue(t, "ollama", OutcomeSuccess)
	RecordGeneration("ollama", OutcomeSuccess, 1.5)
	assert.Equal(t, before+1, counterValue(t, "ollama", OutcomeSuccess))

	invalidBefore := counterValue(t, "ollama", OutcomeInvalid)
	RecordGeneration("ollama", OutcomeInvalid, 0)
	assert.Equal(t, invalidBefore+1, counterValue(t, "ollama", OutcomeInvalid))
}

func TestHandler(t *testing.T) {
	RecordGeneration("openai", OutcomeFailed, 2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "readmegen_generation_total")
	assert.Contains(t, string(body), `outcome="failed"`)
}
