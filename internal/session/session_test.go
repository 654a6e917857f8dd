package session

import (
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

func TestZeroDraftIsIdle(t *testing.T) {
	s := NewStore()
	if d := s.Get(1); d.State != StateIdle {
		t.Errorf("unknown user must be idle, got %v", d.State)
	}
}

func TestSetGetClear(t *testing.T) {
	s := NewStore()
	s.Set(1, Draft{
		Flow:          FlowExpense,
		State:         StateAwaitReceipt,
		Amount:        decimal.RequireFromString("1500.50"),
		Justification: "printer paper",
	})

	d := s.Get(1)
	if d.State != StateAwaitReceipt || d.Flow != FlowExpense {
		t.Errorf("draft lost state: %+v", d)
	}
	if d.Amount.StringFixed(2) != "1500.50" || d.Justification != "printer paper" {
		t.Errorf("draft lost collected fields: %+v", d)
	}

	s.Clear(1)
	if d := s.Get(1); d.State != StateIdle {
		t.Errorf("clear must reset to idle, got %v", d.State)
	}
}

func TestUsersAreIndependent(t *testing.T) {
	s := NewStore()
	s.Set(1, Draft{Flow: FlowExpense, State: StateAwaitAmount})
	s.Set(2, Draft{Flow: FlowMoney, State: StateAwaitJustification})

	s.Clear(1)

	if d := s.Get(2); d.State != StateAwaitJustification || d.Flow != FlowMoney {
		t.Errorf("clearing one user touched another: %+v", d)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := int64(0); i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Set(id, Draft{State: StateAwaitAmount})
			_ = s.Get(id)
			s.Clear(id)
		}(i)
	}
	wg.Wait()
}
