package main

import "testing"

func TestNewPlayer(t *testing.T) {
	p := NewPlayer("p1", "Gunner")
	if p.ID != "p1" {
		t.Errorf("expected ID p1, got %s", p.ID)
	}
	if p.Name != "Gunner" {
		t.Errorf("expected name Gunner, got %s", p.Name)
	}
	if p.X != SpawnX || p.Y != SpawnY {
		t.Errorf("expected spawn at (%v,%v), got (%v,%v)", SpawnX, SpawnY, p.X, p.Y)
	}
	if p.HP != PlayerMaxHP {
		t.Errorf("expected HP %d, got %d", PlayerMaxHP, p.HP)
	}
	if p.Ready {
		t.Error("new player should not be ready")
	}
}

func TestPlayerMoveToClamps(t *testing.T) {
	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
	}{
		{"below min x", -50, 300, 0, 300},
		{"above max x", 900, 300, 800, 300},
		{"below min y", 400, -50, 400, 0},
		{"above max y", 400, 700, 400, 600},
		{"in bounds", 400, 300, 400, 300},
		{"corner", -1, 601, 0, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer("p1", "Gunner")
			p.MoveTo(tt.x, tt.y)
			if p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("MoveTo(%v,%v) = (%v,%v), want (%v,%v)",
					tt.x, tt.y, p.X, p.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestPlayerTakeDamageNoFloor(t *testing.T) {
	p := NewPlayer("p1", "Gunner")
	p.TakeDamage(30)
	if p.HP != 70 {
		t.Errorf("expected HP 70, got %d", p.HP)
	}
	// HP has no floor: repeated hits go negative, no defeat rule exists
	for i := 0; i < 5; i++ {
		p.TakeDamage(20)
	}
	if p.HP != -30 {
		t.Errorf("expected HP -30, got %d", p.HP)
	}
}
