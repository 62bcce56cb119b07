package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/hrygo/supportflow/internal/errors"
	"github.com/hrygo/supportflow/plugin/ai"
	"github.com/hrygo/supportflow/plugin/ai/classifier"
)

func newTestDispatcher(t *testing.T, mock *ai.MockCompletionService) *Dispatcher {
	t.Helper()
	d, err := NewDefaultDispatcher(mock)
	require.NoError(t, err)
	return d
}

func TestDispatchToSpecialist(t *testing.T) {
	mock := ai.NewMockCompletionService()
	mock.QueueResponse("your invoice total is 120")
	d := newTestDispatcher(t, mock)

	reply, err := d.Dispatch(context.Background(), classifier.CategoryBilling, "why is my invoice so high", nil)
	require.NoError(t, err)
	assert.Equal(t, "your invoice total is 120", reply)

	last, err := mock.LastCall()
	require.NoError(t, err)
	assert.Contains(t, last[0].Content, "billing specialist")
	assert.Equal(t, "why is my invoice so high", last[len(last)-1].Content)
}

func TestDispatchFallbackForUnknownCategory(t *testing.T) {
	mock := ai.NewMockCompletionService()
	mock.QueueResponse("happy to help")
	d := newTestDispatcher(t, mock)

	reply, err := d.Dispatch(context.Background(), "no_such_category", "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "happy to help", reply)

	last, err := mock.LastCall()
	require.NoError(t, err)
	assert.Contains(t, last[0].Content, "customer support representative")
}

func TestDispatchIncludesRecentContext(t *testing.T) {
	mock := ai.NewMockCompletionService()
	d := newTestDispatcher(t, mock)

	recentContext := []string{
		"Customer: my modem is blinking red",
		"Agent: please restart it",
	}
	_, err := d.Dispatch(context.Background(), classifier.CategoryTechSupport, "still blinking", recentContext)
	require.NoError(t, err)

	last, err := mock.LastCall()
	require.NoError(t, err)
	require.Len(t, last, 3)
	assert.Contains(t, last[1].Content, "Customer: my modem is blinking red")
	assert.Contains(t, last[1].Content, "Agent: please restart it")
}

func TestDispatchGenerationFailure(t *testing.T) {
	mock := ai.NewMockCompletionService()
	mock.QueueError(errors.New("upstream timeout"))
	d := newTestDispatcher(t, mock)

	_, err := d.Dispatch(context.Background(), classifier.CategoryPlans, "upgrade my plan", nil)
	require.Error(t, err)
	assert.True(t, serrors.IsCode(err, serrors.ErrCodeGenerationFailed))

	var se *serrors.SupportError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, classifier.CategoryPlans, se.Context["category"])

	var agentErr *AgentError
	assert.ErrorAs(t, err, &agentErr)
	assert.Equal(t, classifier.CategoryPlans, agentErr.AgentName)
}

func TestRegisterDuplicate(t *testing.T) {
	mock := ai.NewMockCompletionService()
	d := newTestDispatcher(t, mock)

	billing, err := NewBillingAgent(mock)
	require.NoError(t, err)
	assert.Error(t, d.Register(classifier.CategoryBilling, billing))
}

func TestRegisterValidation(t *testing.T) {
	mock := ai.NewMockCompletionService()
	d := newTestDispatcher(t, mock)

	billing, err := NewBillingAgent(mock)
	require.NoError(t, err)
	assert.Error(t, d.Register("", billing))
	assert.Error(t, d.Register("extra", nil))
}
