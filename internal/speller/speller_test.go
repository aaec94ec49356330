package speller

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"go.uber.org/zap"
)

const sampleCorpus = `O rato roeu a roupa do rei de Roma. A rainha, com raiva,
resolveu remendar. Olá, mundo! Você não sabe onde fica a casa da água?`

func newTestSpeller(t *testing.T, counts map[string]int, opts ...Option) *Speller {
	t.Helper()
	return New(NewVocabulary(counts, 1), opts...)
}

func TestSpeller_New(t *testing.T) {
	s := New(nil)
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.Vocabulary().Len() != 0 {
		t.Errorf("nil vocabulary should behave as empty, got %d words", s.Vocabulary().Len())
	}
	if s.maxWordLength != 0 {
		t.Errorf("default maxWordLength = %d, want 0", s.maxWordLength)
	}
}

func TestSpeller_New_WithOptions(t *testing.T) {
	s := New(EmptyVocabulary(), WithMaxWordLength(12), WithLogger(zap.NewNop()))
	if s.maxWordLength != 12 {
		t.Errorf("maxWordLength = %d, want 12", s.maxWordLength)
	}
	s = New(EmptyVocabulary(), WithMaxWordLength(-1), WithLogger(nil))
	if s.maxWordLength != 0 {
		t.Errorf("negative max length should be ignored, got %d", s.maxWordLength)
	}
	if s.logger == nil {
		t.Error("nil logger option should keep the default logger")
	}
}

func TestSpeller_Correct_KnownWordsUnchanged(t *testing.T) {
	s := New(BuildVocabulary(sampleCorpus, 1))
	for _, w := range s.Vocabulary().Words() {
		if got := s.Correct(w); got != w {
			t.Errorf("Correct(%q) = %q, want unchanged", w, got)
		}
	}
}

func TestSpeller_Correct(t *testing.T) {
	tests := []struct {
		name   string
		counts map[string]int
		word   string
		want   string
	}{
		{
			name:   "empty input",
			counts: map[string]int{"casa": 1},
			word:   "",
			want:   "",
		},
		{
			name:   "capitalized known word",
			counts: map[string]int{"casa": 1},
			word:   "Casa",
			want:   "Casa",
		},
		{
			name:   "distance dominates frequency",
			counts: map[string]int{"casa": 10, "caso": 1},
			word:   "caxa",
			want:   "casa",
		},
		{
			name:   "distance dominates even a larger frequency",
			counts: map[string]int{"casa": 1, "caso": 1000},
			word:   "caxa",
			want:   "casa",
		},
		{
			name:   "frequency breaks ties",
			counts: map[string]int{"rato": 5, "pato": 2},
			word:   "xato",
			want:   "rato",
		},
		{
			name:   "equal frequency ties go to the smaller word",
			counts: map[string]int{"rato": 1, "pato": 1},
			word:   "xato",
			want:   "pato",
		},
		{
			name:   "two edits",
			counts: map[string]int{"casa": 1},
			word:   "cxxa",
			want:   "casa",
		},
		{
			name:   "transposition",
			counts: map[string]int{"roupa": 1},
			word:   "ruopa",
			want:   "roupa",
		},
		{
			name:   "missing accent",
			counts: map[string]int{"você": 3},
			word:   "voce",
			want:   "você",
		},
		{
			name:   "missing tilde",
			counts: map[string]int{"não": 3},
			word:   "nao",
			want:   "não",
		},
		{
			name:   "accented capital",
			counts: map[string]int{"água": 1},
			word:   "Agua",
			want:   "Água",
		},
		{
			name:   "decomposed input is normalized",
			counts: map[string]int{"não": 1},
			word:   "na\u0303o",
			want:   "não",
		},
		{
			name:   "upper case input is capitalized",
			counts: map[string]int{"casa": 1},
			word:   "CASA",
			want:   "Casa",
		},
		{
			name:   "full scan beyond two edits",
			counts: map[string]int{"abcdef": 1, "zzzzzz": 1},
			word:   "abcxyz",
			want:   "abcdef",
		},
		{
			name:   "full scan prefers frequent words on ties",
			counts: map[string]int{"aaaa": 1, "bbbb": 3},
			word:   "xxxx",
			want:   "bbbb",
		},
		{
			name:   "full scan falls back to the smaller word",
			counts: map[string]int{"aaaa": 1, "bbbb": 1},
			word:   "xxxx",
			want:   "aaaa",
		},
		{
			name:   "empty vocabulary returns input",
			counts: nil,
			word:   "qualquer",
			want:   "qualquer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSpeller(t, tt.counts)
			if got := s.Correct(tt.word); got != tt.want {
				t.Errorf("Correct(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestSpeller_Correct_MaxWordLength(t *testing.T) {
	s := newTestSpeller(t, map[string]int{"casa": 1}, WithMaxWordLength(3))
	if got := s.Correct("caxa"); got != "caxa" {
		t.Errorf("Correct(caxa) with max length 3 = %q, want unchanged", got)
	}
	if got := s.Correct("casa"); got != "casa" {
		t.Errorf("known words are returned regardless of length, got %q", got)
	}

	s = newTestSpeller(t, map[string]int{"casa": 1}, WithMaxWordLength(4))
	if got := s.Correct("caxa"); got != "casa" {
		t.Errorf("Correct(caxa) with max length 4 = %q, want casa", got)
	}
}

func TestSpeller_Candidates(t *testing.T) {
	s := newTestSpeller(t, map[string]int{"rato": 5, "pato": 2, "casa": 1})

	tests := []struct {
		word string
		want []string
	}{
		{"casa", []string{"casa"}},
		{"xato", []string{"pato", "rato"}},
		{"cxxa", []string{"casa"}},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := s.Candidates(tt.word); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Candidates(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestSpeller_Candidates_EmptyVocabulary(t *testing.T) {
	s := New(EmptyVocabulary())
	if got := s.Candidates("palavra"); !reflect.DeepEqual(got, []string{"palavra"}) {
		t.Errorf("Candidates() = %v, want [palavra]", got)
	}
}

func TestSpeller_Suggest(t *testing.T) {
	s := newTestSpeller(t, map[string]int{"rato": 5, "pato": 2})
	got, cands, err := s.Suggest(context.Background(), "XATO")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Rato" {
		t.Errorf("Suggest(XATO) = %q, want Rato", got)
	}
	if want := []string{"pato", "rato"}; !reflect.DeepEqual(cands, want) {
		t.Errorf("Suggest(XATO) candidates = %v, want %v", cands, want)
	}

	got, cands, err = s.Suggest(context.Background(), "")
	if err != nil || got != "" || cands != nil {
		t.Errorf("Suggest(\"\") = %q, %v, %v; want empty", got, cands, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := s.Suggest(ctx, "xyzzy"); !errors.Is(err, context.Canceled) {
		t.Errorf("Suggest with canceled context: err = %v, want context.Canceled", err)
	}
}

func TestEdits1(t *testing.T) {
	got := edits1("ab")
	// deletions, transposition, substitutions, insertions
	for _, want := range []string{"a", "b", "ba", "cb", "aç", "xab", "aãb", "abz"} {
		if _, ok := got[want]; !ok {
			t.Errorf("edits1(ab) missing %q", want)
		}
	}
	for _, unwanted := range []string{"abab", "", "ñb"} {
		if _, ok := got[unwanted]; ok {
			t.Errorf("edits1(ab) should not contain %q", unwanted)
		}
	}
}

func TestEdits1_Accented(t *testing.T) {
	got := edits1("ação")
	for _, want := range []string{"aço", "acão", "açãoo", "aãço"} {
		if _, ok := got[want]; !ok {
			t.Errorf("edits1(ação) missing %q", want)
		}
	}
}

func TestSpeller_CorrectSentence_PreservesSeparators(t *testing.T) {
	s := newTestSpeller(t, map[string]int{"olá": 1, "mundo": 1})
	got, changes := s.CorrectSentence("olá, mundo!!")
	if got != "olá, mundo!!" {
		t.Errorf("CorrectSentence() = %q, want unchanged", got)
	}
	if len(changes) != 0 {
		t.Errorf("changes = %v, want empty", changes)
	}
}

func TestSpeller_CorrectSentence(t *testing.T) {
	s := New(BuildVocabulary(sampleCorpus, 1))
	got, changes := s.CorrectSentence("O ratto roeu a roupa do Rey de Roma.")
	want := "O rato roeu a roupa do Rei de Roma."
	if got != want {
		t.Errorf("CorrectSentence() = %q, want %q", got, want)
	}
	wantChanges := map[string]string{"ratto": "rato", "Rey": "Rei"}
	if !reflect.DeepEqual(changes, wantChanges) {
		t.Errorf("changes = %v, want %v", changes, wantChanges)
	}
}

func TestSpeller_CorrectSentence_ChangeMap(t *testing.T) {
	s := New(BuildVocabulary(sampleCorpus, 1))
	text := "A RAINHA com raiba, Voce nao sabe 42 vezes onde fica a kasa?"
	_, changes := s.CorrectSentence(text)

	for _, tok := range Tokenize(text) {
		if !tok.Word {
			continue
		}
		corrected := s.Correct(tok.Text)
		differs := !sameWord(tok.Text, corrected)
		got, inMap := changes[tok.Text]
		if differs && (!inMap || got != corrected) {
			t.Errorf("word %q corrected to %q but change map has %q (present=%v)", tok.Text, corrected, got, inMap)
		}
		if !differs && inMap {
			t.Errorf("word %q only changed case but is in the change map", tok.Text)
		}
	}
	for orig, corr := range changes {
		if sameWord(orig, corr) {
			t.Errorf("change map entry %q -> %q differs only in case", orig, corr)
		}
	}
}

func TestSpeller_CorrectSentence_Idempotent(t *testing.T) {
	s := New(BuildVocabulary(sampleCorpus, 1))
	first, changes := s.CorrectSentence("O ratto roeu a ropa do Rey, com raiba!")
	if len(changes) == 0 {
		t.Fatal("expected corrections on the first pass")
	}
	second, changes2 := s.CorrectSentence(first)
	if second != first {
		t.Errorf("second pass = %q, want %q", second, first)
	}
	if len(changes2) != 0 {
		t.Errorf("second pass changes = %v, want empty", changes2)
	}
}

func TestSpeller_CorrectSentence_EmptyVocabulary(t *testing.T) {
	s := New(EmptyVocabulary())
	got, changes := s.CorrectSentence("qualquer coisa, 123!")
	if got != "qualquer coisa, 123!" || len(changes) != 0 {
		t.Errorf("CorrectSentence() = %q, %v; want unchanged", got, changes)
	}
}

func TestSpeller_CorrectSentence_Empty(t *testing.T) {
	s := New(BuildVocabulary(sampleCorpus, 1))
	got, changes := s.CorrectSentence("")
	if got != "" || len(changes) != 0 {
		t.Errorf("CorrectSentence(\"\") = %q, %v", got, changes)
	}
}

func TestSpeller_CorrectContext_Cancelled(t *testing.T) {
	s := newTestSpeller(t, map[string]int{"casa": 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.CorrectContext(ctx, "cxxa"); !errors.Is(err, context.Canceled) {
		t.Errorf("CorrectContext() error = %v, want context.Canceled", err)
	}
	if _, _, err := s.CorrectSentenceContext(ctx, "uma cxxa"); !errors.Is(err, context.Canceled) {
		t.Errorf("CorrectSentenceContext() error = %v, want context.Canceled", err)
	}
	if _, err := s.Check(ctx, "cxxa"); !errors.Is(err, context.Canceled) {
		t.Errorf("Check() error = %v, want context.Canceled", err)
	}
	// Known words never reach the cancellable search.
	if got, err := s.CorrectContext(ctx, "casa"); err != nil || got != "casa" {
		t.Errorf("CorrectContext(casa) = %q, %v", got, err)
	}
}

func TestSpeller_Check(t *testing.T) {
	s := New(BuildVocabulary(sampleCorpus, 1))

	res, err := s.Check(context.Background(), "Olá, mundo!")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !res.IsCorrect || res.Corrected != "Olá, mundo!" || res.Original != "Olá, mundo!" {
		t.Errorf("Check(correct text) = %+v", res)
	}
	if res.Changes == nil {
		t.Error("Changes should be an empty map, not nil")
	}

	res, err = s.Check(context.Background(), "Olá, mumdo!")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.IsCorrect {
		t.Error("IsCorrect should be false when there are changes")
	}
	if res.Corrected != "Olá, mundo!" || res.Changes["mumdo"] != "mundo" {
		t.Errorf("Check(typo) = %+v", res)
	}
}

func TestSpeller_ConcurrentUse(t *testing.T) {
	s := New(BuildVocabulary(sampleCorpus, 1))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, _ := s.CorrectSentence("O ratto roeu a roupa")
			if got != "O rato roeu a roupa" {
				t.Errorf("concurrent CorrectSentence() = %q", got)
			}
		}()
	}
	wg.Wait()
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":     "",
		"casa": "Casa",
		"água": "Água",
		"ç":    "Ç",
		"Já":   "Já",
	}
	for in, want := range tests {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func BenchmarkSpeller_CorrectEdits1(b *testing.B) {
	s := New(BuildVocabulary(sampleCorpus, 1))
	for i := 0; i < b.N; i++ {
		s.Correct("ratto")
	}
}

func BenchmarkSpeller_CorrectEdits2(b *testing.B) {
	s := New(BuildVocabulary(sampleCorpus, 1))
	for i := 0; i < b.N; i++ {
		s.Correct("rememdat")
	}
}
