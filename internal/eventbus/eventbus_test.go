package eventbus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type ping struct{ n int }
type pong struct{}

func TestPublishDispatchesByType(t *testing.T) {
	Use(New())
	t.Cleanup(func() { Use(nil) })

	var got []int
	Subscribe(func(_ context.Context, p ping) { got = append(got, p.n) })
	Subscribe(func(_ context.Context, p ping) { got = append(got, p.n*10) })
	pongs := 0
	Subscribe(func(context.Context, pong) { pongs++ })

	Publish(context.Background(), ping{n: 1})
	Publish(context.Background(), pong{})

	assert.Equal(t, []int{1, 10}, got)
	assert.Equal(t, 1, pongs)
}

func TestUnsubscribeRemovesOnlyThatHandler(t *testing.T) {
	Use(New())
	t.Cleanup(func() { Use(nil) })

	var got []string
	unsubA := Subscribe(func(context.Context, ping) { got = append(got, "a") })
	unsubB := Subscribe(func(context.Context, ping) { got = append(got, "b") })
	Subscribe(func(context.Context, ping) { got = append(got, "c") })

	unsubB()
	unsubB()
	Publish(context.Background(), ping{})
	assert.Equal(t, []string{"a", "c"}, got)

	got = nil
	unsubA()
	Publish(context.Background(), ping{})
	assert.Equal(t, []string{"c"}, got)
}

func TestWithoutBus(t *testing.T) {
	Use(nil)
	called := false
	unsub := Subscribe(func(context.Context, ping) { called = true })
	Publish(context.Background(), ping{})
	unsub()
	assert.False(t, called)
}
