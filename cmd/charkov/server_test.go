package main

import (
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/CTAG07/charkov/pkg/trie"
)

func TestTrieCacheRejectsBuildAfterForget(t *testing.T) {
	cache := newTrieCache()
	key := trieKey{corpus: "abab", order: 1}
	old, err := trie.BuildString("abab", 1)
	if err != nil {
		t.Fatal(err)
	}

	version := cache.version("abab")
	cache.forget("abab")
	if cache.put(key, version, old) {
		t.Error("expected a trie built before forget to be rejected")
	}
	if _, ok := cache.get(key); ok {
		t.Error("expected nothing cached for a forgotten corpus")
	}

	if !cache.put(key, cache.version("abab"), old) {
		t.Error("expected a trie built against the current version to be stored")
	}
	cache.forget("other")
	if _, ok := cache.get(key); !ok {
		t.Error("forgetting another corpus must not drop this one")
	}
}

func TestLoadTrieDuringReplace(t *testing.T) {
	_, s := setupTestServer(t)
	ctx := t.Context()

	large := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 20000)
	if _, err := s.store.PutText(ctx, "c", "utf-8", large); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := s.loadTrie(ctx, "c", 2); err != nil {
			t.Errorf("loadTrie() error = %v", err)
		}
	}()

	time.Sleep(5 * time.Millisecond)
	if _, err := s.store.PutText(ctx, "c", "utf-8", "xyzxyz"); err != nil {
		t.Fatal(err)
	}
	s.cache.forget("c")
	wg.Wait()

	if cached, ok := s.cache.get(trieKey{corpus: "c", order: 2}); ok && cached.Root().Count() != 6 {
		t.Errorf("cached trie counts %d characters, current text has 6", cached.Root().Count())
	}

	got, err := s.loadTrie(ctx, "c", 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.Root().Count() != 6 {
		t.Errorf("expected a trie of the replaced text, got %d characters", got.Root().Count())
	}
}

func TestDeletedCorpusNotServedFromCache(t *testing.T) {
	_, s := setupTestServer(t)
	doRequest(s, http.MethodPost, "/api/corpora/abab", "abab")

	if rec := doRequest(s, http.MethodGet, "/api/generate?corpus=abab&order=1&length=4", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	doRequest(s, http.MethodDelete, "/api/corpora/abab", "")

	if rec := doRequest(s, http.MethodGet, "/api/generate?corpus=abab&order=1&length=4", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/api/corpora/abab/stats?order=1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for stats after delete, got %d", rec.Code)
	}
}
