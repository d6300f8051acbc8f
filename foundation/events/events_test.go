package events_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/events"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Events(t *testing.T) {
	t.Log("Given the need to fan events out to subscribers.")
	{
		evts := events.New()

		ch1 := evts.Acquire("one")
		ch2 := evts.Acquire("two")
		if evts.Acquire("one") != ch1 || evts.Subscribers() != 2 {
			t.Fatalf("\t%s\tShould reuse the channel for a known id.", failed)
		}
		t.Logf("\t%s\tShould reuse the channel for a known id.", success)

		if n := evts.Send("viewer: block: 1"); n != 2 {
			t.Fatalf("\t%s\tShould deliver to every subscriber, got %d.", failed, n)
		}
		if <-ch1 != "viewer: block: 1" || <-ch2 != "viewer: block: 1" {
			t.Fatalf("\t%s\tShould receive the message.", failed)
		}
		t.Logf("\t%s\tShould deliver to every subscriber.", success)

		for i := 0; i < 200; i++ {
			evts.Send("flood")
		}
		if len(ch1) != 100 {
			t.Fatalf("\t%s\tShould drop events for a slow subscriber, buffered %d.", failed, len(ch1))
		}
		t.Logf("\t%s\tShould drop events for a slow subscriber.", success)

		if err := evts.Release("one"); err != nil {
			t.Fatalf("\t%s\tShould be able to release a subscriber: %v", failed, err)
		}
		if err := evts.Release("one"); !errors.Is(err, events.ErrUnknownSubscriber) {
			t.Fatalf("\t%s\tShould fail to release twice: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to release a subscriber.", success)

		evts.Shutdown()
		for range ch2 {
		}
		if evts.Subscribers() != 0 {
			t.Fatalf("\t%s\tShould remove every subscriber on shutdown.", failed)
		}
		t.Logf("\t%s\tShould close every subscriber on shutdown.", success)
	}
}
