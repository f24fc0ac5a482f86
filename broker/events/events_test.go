package events

import "testing"

func TestSendRecvRoundTrip(t *testing.T) {
	m := NewMailbox(1)
	m.Send(Event{Kind: KindTick})
	ev := <-m.Recv()
	if ev.Kind != KindTick {
		t.Fatalf("got %+v, want KindTick", ev)
	}
}

func TestSendDropsOldestWhenFull(t *testing.T) {
	m := NewMailbox(1)
	m.Send(Event{Kind: KindInput, Key: 'a'})
	m.Send(Event{Kind: KindInput, Key: 'b'})

	ev := <-m.Recv()
	if ev.Key != 'b' {
		t.Fatalf("got key %q, want newest event 'b'", ev.Key)
	}
	select {
	case extra := <-m.Recv():
		t.Fatalf("mailbox should hold only one event, got extra %+v", extra)
	default:
	}
}

func TestNewMailboxClampsCapacity(t *testing.T) {
	m := NewMailbox(0)
	m.Send(Event{Kind: KindTick})
	m.Send(Event{Kind: KindTick})
	<-m.Recv()
	select {
	case <-m.Recv():
		t.Fatal("capacity-0 mailbox should still hold exactly one slot")
	default:
	}
}
