package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefresher(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantErr bool
	}{
		{name: "standard schedule", spec: "*/15 * * * *"},
		{name: "descriptor", spec: "@hourly"},
		{name: "seconds field is rejected", spec: "0 */15 * * * *", wantErr: true},
		{name: "garbage", spec: "every day", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refresher, err := NewRefresher(tt.spec, func() {})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, refresher)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, refresher)
		})
	}
}

func TestRefresher_Run(t *testing.T) {
	calls := make(chan struct{}, 4)
	refresher, err := NewRefresher("@every 1s", func() {
		calls <- struct{}{}
	})
	require.NoError(t, err)
	assert.True(t, refresher.Next().IsZero())

	refresher.Start()
	defer func() {
		<-refresher.Stop().Done()
	}()

	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("refresher never ran")
	}
	assert.False(t, refresher.Next().IsZero())
}
