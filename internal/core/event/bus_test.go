package event

import "testing"

func TestEventsDeliverOneTickLater(t *testing.T) {
	b := NewBus()
	var got []ZombieKilled
	Subscribe(b, func(e ZombieKilled) { got = append(got, e) })

	Emit(b, ZombieKilled{Variant: "runner"})

	// Same tick: nothing delivered yet.
	b.DispatchAll()
	if len(got) != 0 {
		t.Fatalf("event visible in the tick it was emitted")
	}

	// Next tick start.
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 || got[0].Variant != "runner" {
		t.Fatalf("got %v, expected one runner kill", got)
	}

	// Not redelivered the tick after.
	b.SwapBuffers()
	b.DispatchAll()
	if len(got) != 1 {
		t.Fatalf("event redelivered: %d deliveries", len(got))
	}
}

func TestMultipleSubscribersAndTypes(t *testing.T) {
	b := NewBus()
	kills, deaths := 0, 0
	Subscribe(b, func(ZombieKilled) { kills++ })
	Subscribe(b, func(ZombieKilled) { kills++ })
	Subscribe(b, func(PlayerDied) { deaths++ })

	Emit(b, ZombieKilled{Variant: "tank"})
	Emit(b, PlayerDied{})
	b.SwapBuffers()
	b.DispatchAll()

	if kills != 2 {
		t.Errorf("kills = %d, expected both subscribers called", kills)
	}
	if deaths != 1 {
		t.Errorf("deaths = %d, expected 1", deaths)
	}
}

func TestEmitDuringDispatchLandsNextTick(t *testing.T) {
	b := NewBus()
	resets := 0
	Subscribe(b, func(PlayerDied) { Emit(b, GameReset{}) })
	Subscribe(b, func(GameReset) { resets++ })

	Emit(b, PlayerDied{})
	b.SwapBuffers()
	b.DispatchAll()
	if resets != 0 {
		t.Fatal("chained event delivered in the same tick")
	}
	b.SwapBuffers()
	b.DispatchAll()
	if resets != 1 {
		t.Fatalf("resets = %d, expected 1", resets)
	}
}
