package state

import "testing"

func TestUserState(t *testing.T) {
	m := NewManager()

	if got := m.GetUserState(1); got != None {
		t.Errorf("fresh user state = %q, want %q", got, None)
	}

	m.SetUserState(1, WaitingForGrams)
	if got := m.GetUserState(1); got != WaitingForGrams {
		t.Errorf("state = %q, want %q", got, WaitingForGrams)
	}
	if got := m.GetUserState(2); got != None {
		t.Errorf("other user's state = %q, want %q", got, None)
	}

	m.ClearUserState(1)
	if got := m.GetUserState(1); got != None {
		t.Errorf("cleared state = %q, want %q", got, None)
	}
}

func TestTempData(t *testing.T) {
	m := NewManager()

	if _, ok := m.GetTempData(1, TempSelectedMeal); ok {
		t.Error("fresh user has temp data")
	}

	m.SetTempData(1, TempSelectedMeal, "Oatmeal")
	value, ok := m.GetTempData(1, TempSelectedMeal)
	if !ok || value != "Oatmeal" {
		t.Errorf("temp data = %v %v, want Oatmeal true", value, ok)
	}

	m.ClearTempData(1)
	if _, ok := m.GetTempData(1, TempSelectedMeal); ok {
		t.Error("temp data survived ClearTempData")
	}
}
