package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"vapicalendar/models"
	"vapicalendar/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = models.Interaction{
	RequestID:    "req-9",
	FunctionName: "bookAppointment",
	Parameters:   map[string]any{"name": "Ada"},
	Response:     models.FunctionResult{Result: "Great!"},
	Status:       "booked",
}

type captureRPC struct {
	fn     string
	params any
	err    error
}

func (c *captureRPC) RPC(_ context.Context, fn string, params any, _ any) error {
	c.fn, c.params = fn, params
	return c.err
}

func TestSupabaseRecorder(t *testing.T) {
	rpc := &captureRPC{}
	require.NoError(t, NewSupabaseRecorder(rpc, "").Capture(context.Background(), sample))

	assert.Equal(t, "fn_capture_vapi_data", rpc.fn)
	body, err := json.Marshal(rpc.params)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"p_request_id": "req-9",
		"p_function_name": "bookAppointment",
		"p_parameters": {"name": "Ada"},
		"p_response": {"result": "Great!"}
	}`, string(body))
}

func TestSupabaseRecorderWrapsError(t *testing.T) {
	cause := errors.New("insert failed")
	err := NewSupabaseRecorder(&captureRPC{err: cause}, "fn_custom").Capture(context.Background(), sample)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "req-9")
}

type fakeRepo struct {
	created []models.Interaction
	err     error
}

func (f *fakeRepo) Create(_ context.Context, i models.Interaction) (string, error) {
	f.created = append(f.created, i)
	return "id-1", f.err
}
func (f *fakeRepo) GetByRequestID(context.Context, string) (*models.Interaction, error) {
	return nil, nil
}
func (f *fakeRepo) ListRecent(context.Context, int64) ([]models.Interaction, error) { return nil, nil }
func (f *fakeRepo) EnsureIndexes() error                                               { return nil }

func TestMongoRecorder(t *testing.T) {
	repo := &fakeRepo{}
	require.NoError(t, (&MongoRecorder{Repo: repo}).Capture(context.Background(), sample))
	require.Len(t, repo.created, 1)
	assert.Equal(t, "req-9", repo.created[0].RequestID)

	repo.err = errors.New("duplicate key")
	assert.Error(t, (&MongoRecorder{Repo: repo}).Capture(context.Background(), sample))
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	return &asynq.TaskInfo{ID: "t1", Queue: tasks.AuditQueue}, nil
}

func TestQueueRecorder(t *testing.T) {
	q := &fakeEnqueuer{}
	require.NoError(t, (&QueueRecorder{Client: q}).Capture(context.Background(), sample))

	require.Len(t, q.tasks, 1)
	assert.Equal(t, tasks.TypeCaptureInteraction, q.tasks[0].Type())
	got, err := tasks.ParseCaptureTask(q.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, "bookAppointment", got.FunctionName)

	q.err = errors.New("redis down")
	assert.ErrorContains(t, (&QueueRecorder{Client: q}).Capture(context.Background(), sample), "redis down")
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NoError(t, r.Capture(context.Background(), sample))
}
