package state

import "sync"

// Conversation states
const (
	None                     = "none"
	WaitingForGrams          = "waiting_for_grams"
	WaitingForValues         = "waiting_for_values"
	WaitingForMealDefinition = "waiting_for_meal_definition"
	WaitingForGoal           = "waiting_for_goal"
	WaitingForTodaysGoal     = "waiting_for_todays_goal"
	WaitingForSuggestQuery   = "waiting_for_suggest_query"
	WaitingForImportFile     = "waiting_for_import_file"
)

// Temp data keys
const (
	TempSelectedMeal  = "selected_meal"
	TempProfile       = "profile"
	TempSuggestedName = "suggested_name"
	TempPendingEntry  = "pending_entry"
)

// Manager tracks per-user conversation state and temporary data between
// updates.
type Manager struct {
	userStates map[int64]string
	tempData   map[int64]map[string]interface{}
	mu         sync.RWMutex
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{
		userStates: make(map[int64]string),
		tempData:   make(map[int64]map[string]interface{}),
	}
}

// SetUserState sets the state for a user
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userStates[userID] = state
}

// GetUserState gets the state for a user
func (m *Manager) GetUserState(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.userStates[userID]
	if !exists {
		return None
	}
	return state
}

// ClearUserState clears the state for a user
func (m *Manager) ClearUserState(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.userStates, userID)
}

// SetTempData sets temporary data for a user
func (m *Manager) SetTempData(userID int64, key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tempData[userID] == nil {
		m.tempData[userID] = make(map[string]interface{})
	}
	m.tempData[userID][key] = value
}

// GetTempData gets temporary data for a user
func (m *Manager) GetTempData(userID int64, key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userData, exists := m.tempData[userID]
	if !exists {
		return nil, false
	}
	value, exists := userData[key]
	return value, exists
}

// ClearTempData clears all temporary data for a user
func (m *Manager) ClearTempData(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tempData, userID)
}
