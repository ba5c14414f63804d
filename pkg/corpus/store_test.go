package corpus

import (
	"context"
	"errors"
	"testing"
)

func TestPutAndGetText(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	info, err := s.PutText(ctx, "alice", "utf-8", "Alice was beginning to get very tired…")
	if err != nil {
		t.Fatalf("PutText failed: %v", err)
	}
	if info.Id == 0 || info.Length != 38 {
		t.Errorf("got unexpected text info: %+v", info)
	}

	content, got, err := s.GetText(ctx, "alice")
	if err != nil {
		t.Fatalf("GetText failed: %v", err)
	}
	if content != "Alice was beginning to get very tired…" {
		t.Errorf("got unexpected content %q", content)
	}
	if got.Id != info.Id || got.Encoding != "utf-8" || got.Length != 38 {
		t.Errorf("got unexpected text info: %+v", got)
	}

	// Test failure case (nonexistent)
	_, _, err = s.GetText(ctx, "nonexistent")
	if !errors.Is(err, ErrTextNotFound) {
		t.Errorf("expected ErrTextNotFound, got %v", err)
	}

	// Test failure case (empty name)
	if _, err = s.PutText(ctx, "", "utf-8", "x"); err == nil {
		t.Error("expected an error for an empty name, got nil")
	}
}

func TestPutTextReplaces(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	first, _ := s.PutText(ctx, "poem", "utf-8", "old text")
	second, err := s.PutText(ctx, "poem", "latin1", "brand new text")
	if err != nil {
		t.Fatalf("PutText replace failed: %v", err)
	}
	if first.Id != second.Id {
		t.Errorf("expected the same id on replace, got %d and %d", first.Id, second.Id)
	}

	content, info, _ := s.GetText(ctx, "poem")
	if content != "brand new text" || info.Encoding != "latin1" || info.Length != 14 {
		t.Errorf("replace not applied: %q %+v", content, info)
	}
}

func TestListAndRemoveTexts(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	_, _ = s.PutText(ctx, "zebra", "utf-8", "zzz")
	_, _ = s.PutText(ctx, "apple", "utf-8", "aaaa")

	texts, err := s.ListTexts(ctx)
	if err != nil {
		t.Fatalf("ListTexts failed: %v", err)
	}
	if len(texts) != 2 || texts[0].Name != "apple" || texts[1].Name != "zebra" {
		t.Fatalf("got unexpected texts: %+v", texts)
	}

	if err = s.RemoveText(ctx, "apple"); err != nil {
		t.Fatalf("RemoveText failed: %v", err)
	}
	if err = s.RemoveText(ctx, "apple"); !errors.Is(err, ErrTextNotFound) {
		t.Errorf("expected ErrTextNotFound on second remove, got %v", err)
	}

	texts, _ = s.ListTexts(ctx)
	if len(texts) != 1 || texts[0].Name != "zebra" {
		t.Errorf("got unexpected texts after remove: %+v", texts)
	}
}

func TestRecordAndListRuns(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	runs := []Run{
		{Source: "alice", Order: 2, Length: 4, Output: "abab"},
		{Source: "alice", Order: 3, Length: 3, Seed: 1<<63 + 5, Seeded: true, Output: "xyz"},
		{Source: "books/bob.txt", Order: 0, Length: 1, Output: "q"},
	}
	for _, run := range runs {
		if _, err := s.RecordRun(ctx, run); err != nil {
			t.Fatalf("RecordRun failed: %v", err)
		}
	}

	got, err := s.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(got))
	}
	if got[0].Source != "books/bob.txt" || got[0].Seeded {
		t.Errorf("expected newest run first, got %+v", got[0])
	}
	if !got[1].Seeded || got[1].Seed != 1<<63+5 || got[1].Output != "xyz" || got[1].Order != 3 {
		t.Errorf("seeded run not read back intact: %+v", got[1])
	}

	all, _ := s.Runs(ctx, 0)
	if len(all) != 3 {
		t.Errorf("expected all 3 runs without a limit, got %d", len(all))
	}
}

func TestGetStats(t *testing.T) {
	_, s := setupTestStore(t)
	ctx := context.Background()

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats on empty store failed: %v", err)
	}
	if *stats != (Stats{}) {
		t.Errorf("expected empty stats, got %+v", stats)
	}

	_, _ = s.PutText(ctx, "a", "utf-8", "hello")
	_, _ = s.PutText(ctx, "b", "utf-8", "wörld!")
	_, _ = s.RecordRun(ctx, Run{Source: "a", Order: 1, Length: 10, Output: "helloolleh"})

	stats, err = s.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	want := Stats{Texts: 2, TotalCharacters: 11, Runs: 1, GeneratedCharacters: 10}
	if *stats != want {
		t.Errorf("expected %+v, got %+v", want, *stats)
	}
}
