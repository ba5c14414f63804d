package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/CTAG07/charkov/pkg/corpus"
	"github.com/CTAG07/charkov/pkg/trie"
	"github.com/midbel/cli"
)

type ServeCommand struct {
	Addr string
}

func (c ServeCommand) Run(args []string) error {
	set := cli.NewFlagSet("serve")
	set.StringVar(&c.Addr, "addr", "", "listen address (overrides the config file)")
	if err := set.Parse(args); err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if c.Addr != "" {
		a.config.Server.Addr = c.Addr
	}

	server, err := NewServer(a)
	if err != nil {
		return err
	}
	httpServer := &http.Server{Addr: a.config.Server.Addr, Handler: server.mux}

	go func() {
		a.logger.Info("Starting charkov server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Server failed", "error", err)
		}
	}()

	osSignalChan := make(chan os.Signal, 1)
	signal.Notify(osSignalChan, syscall.SIGINT, syscall.SIGTERM)
	<-osSignalChan
	a.logger.Info("OS signal received, initiating shutdown.")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Server shutdown failed", "error", err)
	}
	a.logger.Info("HTTP server stopped.")
	return nil
}

// trieKey identifies a cached trie.
type trieKey struct {
	corpus string
	order  int
}

// trieCache holds built tries by corpus name and order. Tries are immutable,
// so a cached trie is handed to any number of requests at once. Every corpus
// name carries a version that forget bumps; a trie built against an older
// version is never stored.
type trieCache struct {
	mu       sync.Mutex
	tries    map[trieKey]*trie.Trie
	versions map[string]uint64
}

func newTrieCache() *trieCache {
	return &trieCache{
		tries:    make(map[trieKey]*trie.Trie),
		versions: make(map[string]uint64),
	}
}

func (c *trieCache) get(key trieKey) (*trie.Trie, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tries[key]
	return t, ok
}

// version returns the current version of the named corpus. Read it before
// loading the text a trie is built from.
func (c *trieCache) version(corpusName string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[corpusName]
}

// put stores t unless the corpus was forgotten since version was read. It
// reports whether t was stored.
func (c *trieCache) put(key trieKey, version uint64, t *trie.Trie) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[key.corpus] != version {
		return false
	}
	c.tries[key] = t
	return true
}

// forget drops every trie built from the named corpus and invalidates builds
// still in flight.
func (c *trieCache) forget(corpusName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[corpusName]++
	for key := range c.tries {
		if key.corpus == corpusName {
			delete(c.tries, key)
		}
	}
}

type Server struct {
	app    *app
	store  *corpus.Store
	cache  *trieCache
	logger *slog.Logger
	mux    *http.ServeMux
}

func NewServer(a *app) (*Server, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	s := &Server{
		app:    a,
		store:  store,
		cache:  newTrieCache(),
		logger: a.logger,
		mux:    http.NewServeMux(),
	}
	api := NewCorpusAPI(s)
	api.RegisterRoutes(s.mux)
	return s, nil
}

// loadTrie returns the trie for a stored corpus, building and caching it on
// first use.
func (s *Server) loadTrie(ctx context.Context, corpusName string, order int) (*trie.Trie, error) {
	key := trieKey{corpus: corpusName, order: order}
	if t, ok := s.cache.get(key); ok {
		return t, nil
	}
	version := s.cache.version(corpusName)
	text, _, err := s.store.GetText(ctx, corpusName)
	if err != nil {
		return nil, err
	}
	t, err := s.app.buildTrie(ctx, text, order)
	if err != nil {
		return nil, err
	}
	if !s.cache.put(key, version, t) {
		s.logger.DebugContext(ctx, "Corpus changed while its trie was built, not caching", "corpus", corpusName, "order", order)
	}
	return t, nil
}

// parseIntParam reads an integer query parameter, falling back to def when
// it is absent.
func parseIntParam(r *http.Request, name string, def int) (int, error) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return def, nil
	}
	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s'", name, str)
	}
	return n, nil
}

func randRange(min, max int) int {
	if min < 0 {
		min = 0
	}
	if max <= min {
		return min
	}
	return rand.IntN(max-min) + min
}
