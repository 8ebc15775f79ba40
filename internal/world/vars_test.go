package world

import "testing"

func TestKeyDefaults(t *testing.T) {
	s := NewStore()

	if got := KeyScore.Get(s); got != 0 {
		t.Errorf("score default = %d, expected 0", got)
	}
	if got := KeyStamina.Get(s); got != 100.0 {
		t.Errorf("stamina default = %v, expected 100", got)
	}
	if got := KeyZone.Get(s); got != "wilderness" {
		t.Errorf("zone default = %q, expected wilderness", got)
	}
	if got := KeyPlayerFacing.Get(s); got != 5 {
		t.Errorf("facing default = %d, expected 5", got)
	}
}

func TestKeyTypeMismatchFallsBackToDefault(t *testing.T) {
	s := NewStore()

	// A raw write with the wrong dynamic type must not poison typed reads.
	s.SetRaw(KeyScore.Name, "not a number")
	if got := KeyScore.Get(s); got != 0 {
		t.Errorf("score after bad raw write = %d, expected default 0", got)
	}

	KeyScore.Set(s, 42)
	if got := KeyScore.Get(s); got != 42 {
		t.Errorf("score = %d, expected 42", got)
	}
}

func TestGetRawAbsentKey(t *testing.T) {
	s := NewStore()
	if _, ok := s.GetRaw("never_written"); ok {
		t.Error("absent key reported ok=true")
	}
}

func TestResetGameKeys(t *testing.T) {
	s := NewStore()

	KeyScore.Set(s, 500)
	KeyGameOver.Set(s, true)
	KeyMaxZombies.Set(s, 50)
	KeySpawnX.Set(s, 3200)
	KeySpawnY.Set(s, 2240)

	s.ResetGameKeys()

	if got := KeyScore.Get(s); got != 0 {
		t.Errorf("score after reset = %d, expected 0", got)
	}
	if KeyGameOver.Get(s) {
		t.Error("game_over survived reset")
	}
	if got := KeyMaxZombies.Get(s); got != 30 {
		t.Errorf("max_zombies after reset = %d, expected 30", got)
	}
	// World keys are not round state and must survive.
	if got := KeySpawnX.Get(s); got != 3200.0 {
		t.Errorf("spawn_x after reset = %v, expected 3200", got)
	}
	if got := KeySpawnY.Get(s); got != 2240.0 {
		t.Errorf("spawn_y after reset = %v, expected 2240", got)
	}
}
