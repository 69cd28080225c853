package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("POST /api/v1/taste-twins")
	m.RecordRequest("POST /api/v1/taste-twins")
	m.RecordRequest("POST /api/v1/recommendations")
	m.RecordFailure("POST /api/v1/recommendations")
	m.RecordDuration("POST /api/v1/taste-twins", 40*time.Millisecond)
	m.RecordDuration("POST /api/v1/taste-twins", 60*time.Millisecond)

	snapshot := m.Snapshot()
	require.Equal(t, int64(3), snapshot.RequestTotal)
	require.Equal(t, int64(1), snapshot.RequestFailed)

	twins := snapshot.OperationMetrics["POST /api/v1/taste-twins"]
	require.NotNil(t, twins)
	require.Equal(t, int64(2), twins.ExecutionCount)
	require.Equal(t, int64(50), twins.AverageDuration)
	require.Equal(t, int64(0), twins.ErrorCount)

	recs := snapshot.OperationMetrics["POST /api/v1/recommendations"]
	require.NotNil(t, recs)
	require.Equal(t, int64(1), recs.ErrorCount)
}

func TestMetricsSuccessRate(t *testing.T) {
	m := NewMetrics()
	require.Equal(t, 100.0, m.Snapshot().SuccessRate())

	for i := 0; i < 4; i++ {
		m.RecordRequest("GET /api/v1/matches")
	}
	m.RecordFailure("GET /api/v1/matches")
	require.Equal(t, 75.0, m.Snapshot().SuccessRate())

	m.Reset()
	require.Equal(t, int64(0), m.GetRequestTotal())
	require.Equal(t, int64(0), m.GetRequestFailed())
}
