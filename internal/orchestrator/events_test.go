package orchestrator

import (
	"testing"
	"time"

	"github.com/ytget/yt-mp3/internal/model"
)

func TestEventHub_OrderedDelivery(t *testing.T) {
	hub := newEventHub()

	for i := 0; i < 50; i++ {
		hub.publish(model.StateChange{JobID: "job-a", Detail: string(rune('a' + i%26)), At: time.Now()})
	}
	hub.close()

	received := 0
	for range hub.events() {
		received++
	}
	if received != 50 {
		t.Errorf("Expected all 50 events delivered before close, got %d", received)
	}
}

func TestEventHub_PublishAfterCloseDropped(t *testing.T) {
	hub := newEventHub()

	hub.publish(model.StateChange{JobID: "job-a"})
	hub.close()
	hub.publish(model.StateChange{JobID: "job-b"})

	var seen []string
	for ev := range hub.events() {
		seen = append(seen, ev.JobID)
	}

	if len(seen) != 1 || seen[0] != "job-a" {
		t.Errorf("Expected only the pre-close event, got %v", seen)
	}
}

func TestEventHub_PublishNeverBlocks(t *testing.T) {
	hub := newEventHub()

	// Far more events than the outbound channel buffers, with no consumer
	done := make(chan struct{})
	go func() {
		for i := 0; i < eventBufferSize*10; i++ {
			hub.publish(model.StateChange{JobID: "job-a"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked with a slow consumer")
	}

	hub.close()
	received := 0
	for range hub.events() {
		received++
	}
	if received != eventBufferSize*10 {
		t.Errorf("Expected %d events, got %d", eventBufferSize*10, received)
	}
}
