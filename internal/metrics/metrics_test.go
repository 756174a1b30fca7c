package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveMutation(t *testing.T) {
	ok := Mutations.WithLabelValues("tag", "rename", "ok")
	failed := Mutations.WithLabelValues("tag", "rename", "error")
	beforeOK, beforeFailed := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	ObserveMutation("tag", "rename", nil)
	ObserveMutation("tag", "rename", errors.New("duplicate"))
	ObserveMutation("tag", "rename", errors.New("duplicate"))

	assert.Equal(t, beforeOK+1, testutil.ToFloat64(ok))
	assert.Equal(t, beforeFailed+2, testutil.ToFloat64(failed))
}

func TestVersionRecordedAndOrphans(t *testing.T) {
	before := testutil.ToFloat64(VersionsRecorded.WithLabelValues(ReasonRevert))
	VersionRecorded(ReasonRevert)
	assert.Equal(t, before+1, testutil.ToFloat64(VersionsRecorded.WithLabelValues(ReasonRevert)))

	beforeOrphans := testutil.ToFloat64(OrphanedPrompts)
	PromptsOrphaned(3)
	assert.Equal(t, beforeOrphans+3, testutil.ToFloat64(OrphanedPrompts))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveMutation("prompt", "create", nil)

	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)

	assert.Equal(t, 200, rr.Code)
	assert.Contains(t, string(body), "promptlab_mutations_total")
}
