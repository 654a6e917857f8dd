// Package session хранит черновики незавершённых диалогов в памяти.
// Черновик никогда не попадает в базу: до финального шага заявки не существует.
package session

import (
	"sync"

	"github.com/shopspring/decimal"
)

type Flow int

const (
	FlowExpense Flow = iota // заявка на возмещение, с чеком
	FlowMoney               // запрос средств, без чека
)

type State int

const (
	StateIdle State = iota
	StateAwaitAmount
	StateAwaitJustification
	StateAwaitReceipt
)

// Draft — текущее состояние диалога одного пользователя.
// Нулевое значение означает "диалога нет".
type Draft struct {
	Flow          Flow
	State         State
	Amount        decimal.Decimal
	Justification string
}

type Store struct {
	mu     sync.RWMutex
	drafts map[int64]Draft
}

func NewStore() *Store {
	return &Store{drafts: make(map[int64]Draft)}
}

func (s *Store) Get(telegramID int64) Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drafts[telegramID]
}

func (s *Store) Set(telegramID int64, d Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[telegramID] = d
}

func (s *Store) Clear(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, telegramID)
}
