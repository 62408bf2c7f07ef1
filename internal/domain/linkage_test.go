package domain

import "testing"

func TestLinkTarget(t *testing.T) {
	direct := DirectTarget(42)
	if !direct.IsDirect() {
		t.Error("DirectTarget must report IsDirect")
	}
	if id, ok := direct.BookID(); !ok || id != 42 {
		t.Errorf("BookID() = (%d, %v), want (42, true)", id, ok)
	}
	if _, ok := direct.BookType(); ok {
		t.Error("direct target must not expose a book type")
	}

	typed := TypeTarget(BookTypePractices)
	if typed.IsDirect() {
		t.Error("TypeTarget must not report IsDirect")
	}
	if bt, ok := typed.BookType(); !ok || bt != BookTypePractices {
		t.Errorf("BookType() = (%q, %v), want (PRACTICES, true)", bt, ok)
	}
	if _, ok := typed.BookID(); ok {
		t.Error("type target must not expose a book id")
	}
}

func TestMinRequired(t *testing.T) {
	tests := []struct {
		name       string
		configured float64
		want       float64
	}{
		{"explicit", 85, 85},
		{"zero falls back to default", 0, DefaultMinScorePercentage},
		{"negative falls back to default", -5, DefaultMinScorePercentage},
		{"below default kept", 40, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := &BookEvaluation{MinScorePercentage: tt.configured}
			if got := be.MinRequired(); got != tt.want {
				t.Errorf("MinRequired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEffectiveEvaluations(t *testing.T) {
	direct := []*BookEvaluation{
		{ID: 1, EvaluationID: 1, Target: DirectTarget(10)},
	}
	typeLinks := []*BookEvaluation{
		{ID: 2, EvaluationID: 2, Target: TypeTarget(BookTypePractices)},
		{ID: 3, EvaluationID: 3, Target: TypeTarget(BookTypePatterns)},
	}

	t.Run("direct plus matching type links", func(t *testing.T) {
		book := &Book{ID: 10, BookType: BookTypePractices}
		links := EffectiveEvaluations(book, direct, typeLinks)
		if len(links) != 2 {
			t.Fatalf("len = %d, want 2", len(links))
		}
		if links[0].EvaluationID != 1 || links[1].EvaluationID != 2 {
			t.Errorf("got evaluations %d, %d, want 1, 2", links[0].EvaluationID, links[1].EvaluationID)
		}
	})

	t.Run("untyped book sees only direct links", func(t *testing.T) {
		book := &Book{ID: 10}
		links := EffectiveEvaluations(book, direct, typeLinks)
		if len(links) != 1 || links[0].EvaluationID != 1 {
			t.Fatalf("got %d links, want only the direct one", len(links))
		}
	})

	t.Run("no links resolves to empty set", func(t *testing.T) {
		book := &Book{ID: 99, BookType: BookTypePatterns}
		links := EffectiveEvaluations(book, nil, nil)
		if links == nil || len(links) != 0 {
			t.Fatalf("got %v, want empty non-nil slice", links)
		}
	})

	// The same evaluation linked both directly and by type stays duplicated,
	// each occurrence under its own requirement terms.
	t.Run("duplicate evaluation preserved", func(t *testing.T) {
		book := &Book{ID: 10, BookType: BookTypePractices}
		dup := []*BookEvaluation{
			{ID: 4, EvaluationID: 2, Target: DirectTarget(10), IsRequired: true, MinScorePercentage: 90},
		}
		links := EffectiveEvaluations(book, dup, typeLinks)
		if len(links) != 2 {
			t.Fatalf("len = %d, want 2", len(links))
		}
		if links[0].EvaluationID != 2 || links[1].EvaluationID != 2 {
			t.Error("both occurrences of evaluation 2 must survive")
		}
		if !links[0].IsRequired || links[1].IsRequired {
			t.Error("each occurrence keeps its own requirement terms")
		}
	})
}
