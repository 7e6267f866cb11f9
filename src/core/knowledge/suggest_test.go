package knowledge_test

import (
	"context"
	"testing"

	"maarifa/src/core/knowledge"
	"maarifa/src/core/textnorm"
)

func TestSuggest(t *testing.T) {
	svc := newTestService(t, &fakeEmbedder{dim: 64})

	tests := []struct {
		name    string
		partial string
		lang    textnorm.Language
		want    []string
	}{
		{
			name:    "substring match",
			partial: "fajr",
			want:    []string{"What is the time of Fajr prayer?"},
		},
		{
			name:    "case insensitive",
			partial: "FAJR",
			want:    []string{"What is the time of Fajr prayer?"},
		},
		{
			name:    "too short returns nothing",
			partial: "fa",
			want:    []string{},
		},
		{
			name:    "whitespace only returns nothing",
			partial: "   ",
			want:    []string{},
		},
		{
			name:    "no match",
			partial: "inheritance",
			want:    []string{},
		},
		{
			name:    "arabic partial",
			partial: "الصلاة",
			want:    []string{"ما حكم الصلاة في المسجد للرجال؟"},
		},
		{
			name:    "language filter excludes other script",
			partial: "الصلاة",
			lang:    textnorm.LanguageEnglish,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Suggest(context.Background(), tt.partial, tt.lang)
			if err != nil {
				t.Fatalf("Suggest() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Suggest() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Suggest()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSuggestLimit(t *testing.T) {
	records := make([]knowledge.Record, 0, 15)
	for i := 0; i < 15; i++ {
		records = append(records, knowledge.Record{
			ID:           string(rune('a' + i)),
			QuestionText: "What is the ruling on question number " + string(rune('a'+i)) + "?",
			AnswerText:   "An answer long enough to pass validation.",
			Language:     textnorm.LanguageEnglish,
		})
	}

	svc, err := knowledge.NewService(&fakeCorpus{records: records}, &fakeEmbedder{dim: 64}, knowledge.Config{SuggestLimit: 5})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	if err := svc.Rebuild(context.Background(), false); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	got, err := svc.Suggest(context.Background(), "ruling", "")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) != 5 {
		t.Errorf("Suggest() returned %d suggestions, want 5", len(got))
	}
}
