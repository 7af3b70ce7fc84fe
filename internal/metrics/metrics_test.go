package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealgraph/mealgraph/pkg/domain"
	"github.com/mealgraph/mealgraph/pkg/toolloop"
)

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.TurnHandled(domain.IntentLogMeal, false, "")
	m.TurnHandled(domain.IntentLogMeal, true, "")
	m.TurnHandled(domain.IntentSearchFood, false, domain.ErrKindLookupMiss)
	m.LoopFinished(domain.IntentSearchFood, toolloop.StatusCompleted, 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `mealgraph_turns_total{clarified="false",error_kind="none",intent="log_meal"} 1`), body)
	assert.True(t, strings.Contains(body, `mealgraph_turns_total{clarified="true",error_kind="none",intent="log_meal"} 1`), body)
	assert.True(t, strings.Contains(body, `mealgraph_turns_total{clarified="false",error_kind="lookup_miss",intent="search_food"} 1`), body)
	assert.True(t, strings.Contains(body, `mealgraph_tool_loops_total{intent="search_food",status="completed"} 1`), body)
}
