package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		raw     string
		want    Channel
		wantErr bool
	}{
		{raw: "email", want: ChannelEmail},
		{raw: "sms", want: ChannelSMS},
		{raw: "EMAIL", want: ChannelEmail},
		{raw: "Sms", want: ChannelSMS},
		{raw: "fax", wantErr: true},
		{raw: "push", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ch, err := ParseChannel(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "invalid delivery_type")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ch)
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestDeliveryTaskRoundTrip(t *testing.T) {
	n := &Notification{
		ID:      3,
		JobID:   "abc",
		UserID:  9,
		Message: "hello",
		Channel: ChannelSMS,
	}

	task, err := NewDeliveryTask(n)
	require.NoError(t, err)
	assert.Equal(t, TaskTypeDeliver, task.Type())

	p, err := ParseDeliveryPayload(task.Payload())
	require.NoError(t, err)
	assert.Equal(t, "abc", p.JobID)
	assert.Equal(t, int64(9), p.UserID)
	assert.Equal(t, int64(3), p.NotificationID)
	assert.Equal(t, "hello", p.Message)
	assert.Equal(t, "sms", p.DeliveryType)
}
