package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	var set Set
	var calls []string

	unsubscribeA := set.Subscribe(func() { calls = append(calls, "a") })
	set.Subscribe(func() { calls = append(calls, "b") })

	set.Notify()
	assert.Equal(t, []string{"a", "b"}, calls)

	unsubscribeA()
	unsubscribeA()
	calls = nil
	set.Notify()
	assert.Equal(t, []string{"b"}, calls)
}
