package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestPublisher(t *testing.T) (*Publisher, *redis.Client) {
	s := miniredis.RunT(t)
	pub, err := Connect("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { pub.Close() })

	sub := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { sub.Close() })
	return pub, sub
}

func TestPublish_DeliversFrame(t *testing.T) {
	pub, client := setupTestPublisher(t)

	ps := client.Subscribe(t.Context(), BoardTopic("brd_1"))
	defer ps.Close()
	if _, err := ps.Receive(t.Context()); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	pub.Publish(BoardTopic("brd_1"), "task.created", map[string]interface{}{"id": "tsk_1"})

	select {
	case msg := <-ps.Channel():
		var got frame
		if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
			t.Fatalf("bad frame: %v", err)
		}
		if got.Event != "task.created" {
			t.Errorf("event = %s, want task.created", got.Event)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
	}
}

func TestPublish_NoSubscriberIsNotAnError(t *testing.T) {
	pub, _ := setupTestPublisher(t)
	// Fire-and-forget: publishing into the void must be silent.
	pub.Publish(BoardTopic("brd_none"), "list.updated", nil)
}

func TestPublish_UnserializablePayloadDropped(t *testing.T) {
	pub, _ := setupTestPublisher(t)
	pub.Publish(BoardTopic("brd_1"), "task.updated", map[string]interface{}{"ch": make(chan int)})
}

func TestTopicNames(t *testing.T) {
	if got := BoardTopic("b1"); got != "board-b1" {
		t.Errorf("BoardTopic = %s", got)
	}
	if got := ConversationTopic("c1"); got != "conversation-c1" {
		t.Errorf("ConversationTopic = %s", got)
	}
	if got := MeetingTopic("m1"); got != "meeting-m1" {
		t.Errorf("MeetingTopic = %s", got)
	}
}
