package schedule

import "testing"

func TestQueuePriorityOrder(t *testing.T) {
	t.Parallel()
	var q queue
	q.push(Item{Topic: "low", Priority: 10})
	q.push(Item{Topic: "high", Priority: 40})
	q.push(Item{Topic: "mid", Priority: 20})

	want := []string{"high", "mid", "low"}
	for _, topic := range want {
		it, ok := q.pop()
		if !ok || it.Topic != topic {
			t.Fatalf("pop = %q ok=%v, want %q", it.Topic, ok, topic)
		}
	}
}

func TestQueueTiesKeepInsertionOrder(t *testing.T) {
	t.Parallel()
	var q queue
	q.push(Item{Topic: "first", Priority: 20})
	q.push(Item{Topic: "second", Priority: 20})
	q.push(Item{Topic: "third", Priority: 20})
	q.push(Item{Topic: "jumper", Priority: 30})

	want := []string{"jumper", "first", "second", "third"}
	for _, topic := range want {
		it, _ := q.pop()
		if it.Topic != topic {
			t.Fatalf("pop = %q, want %q", it.Topic, topic)
		}
	}
}

func TestQueuePeekDoesNotConsume(t *testing.T) {
	t.Parallel()
	var q queue
	q.push(Item{Topic: "a", Priority: 10})
	q.push(Item{Topic: "b", Priority: 10})

	got := q.peek(5)
	if len(got) != 2 || got[0].Topic != "a" {
		t.Fatalf("peek = %+v", got)
	}
	if q.len() != 2 {
		t.Fatalf("len = %d after peek, want 2", q.len())
	}
}

func TestQueueMaxPriority(t *testing.T) {
	t.Parallel()
	var q queue
	if q.maxPriority() != 0 {
		t.Fatal("empty queue maxPriority should be 0")
	}
	q.push(Item{Priority: 15})
	q.push(Item{Priority: 40})
	if q.maxPriority() != 40 {
		t.Fatalf("maxPriority = %d, want 40", q.maxPriority())
	}
}
