package state

import (
	"sync"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*UserData // telegramID -> UserData
}

func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]*UserData),
	}
}

func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		return userData.State
	}
	return StateNone
}

// Begin начинает новый шаг диалога, сбрасывая данные предыдущего
func (sm *Manager) Begin(telegramID int64, state UserState, data map[string]any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if state == StateNone {
		delete(sm.states, telegramID)
		return
	}
	if data == nil {
		data = make(map[string]any)
	}
	sm.states[telegramID] = &UserData{State: state, Data: data}
}

func (sm *Manager) GetData(telegramID int64, key string) (any, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if userData, exists := sm.states[telegramID]; exists {
		value, ok := userData.Data[key]
		return value, ok
	}
	return nil, false
}

// GetInt64 типизированное чтение id из данных диалога
func (sm *Manager) GetInt64(telegramID int64, key string) (int64, bool) {
	v, ok := sm.GetData(telegramID, key)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// Take атомарно забирает состояние и данные, очищая их.
// Два параллельных сообщения не обработают один шаг дважды.
func (sm *Manager) Take(telegramID int64) (UserState, map[string]any) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	userData, exists := sm.states[telegramID]
	if !exists {
		return StateNone, nil
	}
	delete(sm.states, telegramID)
	return userData.State, userData.Data
}

func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.states, telegramID)
}
