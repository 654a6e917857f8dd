package repo

import (
	"strings"
	"testing"
	"time"
)

func TestBuildRequestWhereEmpty(t *testing.T) {
	where, args := buildRequestWhere(RequestFilter{})
	if where != "TRUE" {
		t.Errorf("where = %q, want TRUE", where)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want none", args)
	}
}

func TestBuildRequestWhereAllFields(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	where, args := buildRequestWhere(RequestFilter{
		Status: "approved",
		From:   from,
		To:     to,
		User:   "ivanov",
		Query:  "бумага",
	})

	if len(args) != 5 {
		t.Fatalf("args = %d, want 5: %v", len(args), args)
	}
	for _, clause := range []string{
		"t.status = $1",
		"t.created_at >= $2",
		"t.created_at < $3",
		"u.telegram_id::text = $4",
		"t.justification ILIKE '%' || $5 || '%'",
	} {
		if !strings.Contains(where, clause) {
			t.Errorf("where missing %q:\n%s", clause, where)
		}
	}
}

func TestBuildRequestWherePlaceholdersStaySequential(t *testing.T) {
	// user-фильтр пропущен — нумерация не должна прыгать
	where, args := buildRequestWhere(RequestFilter{Status: "new", Query: "паркинг"})
	if len(args) != 2 {
		t.Fatalf("args = %d, want 2", len(args))
	}
	if !strings.Contains(where, "t.status = $1") || !strings.Contains(where, "$2") {
		t.Errorf("unexpected placeholder numbering:\n%s", where)
	}
	if strings.Contains(where, "$3") {
		t.Errorf("placeholder out of range:\n%s", where)
	}
}
