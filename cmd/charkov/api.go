package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CTAG07/charkov/pkg/corpus"
	"github.com/CTAG07/charkov/pkg/markov"
	"github.com/CTAG07/charkov/pkg/trie"
)

// maxUploadSize bounds the body of a corpus upload.
const maxUploadSize = 32 << 20

// CorpusAPI holds the handlers for the /api endpoints.
type CorpusAPI struct {
	server *Server
	logger *slog.Logger
}

// NewCorpusAPI creates a new instance of the CorpusAPI.
func NewCorpusAPI(server *Server) *CorpusAPI {
	return &CorpusAPI{
		server: server,
		logger: server.logger,
	}
}

// RegisterRoutes sets up the routing for all /api endpoints.
func (c *CorpusAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", c.handleHealthCheck)
	mux.HandleFunc("/api/corpora", c.handleListCorpora)
	mux.HandleFunc("/api/corpora/", c.handleCorpusByName)
	mux.HandleFunc("/api/generate", c.handleGenerate)
	mux.HandleFunc("/api/runs", c.handleRuns)
	mux.HandleFunc("/api/stats", c.handleStats)
}

func (c *CorpusAPI) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *CorpusAPI) handleListCorpora(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	texts, err := c.server.store.ListTexts(r.Context())
	if err != nil {
		c.logger.Error("Failed to list texts", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve texts: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, texts)
}

// handleCorpusByName routes actions for a specific text: store, fetch,
// delete, and trie stats.
func (c *CorpusAPI) handleCorpusByName(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/corpora/")
	parts := strings.Split(path, "/")
	name := parts[0]

	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Corpus name not specified")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			_, info, err := c.server.store.GetText(r.Context(), name)
			if err != nil {
				c.respondWithStoreError(w, name, err)
				return
			}
			respondWithJSON(w, http.StatusOK, info)

		case http.MethodPost, http.MethodPut:
			enc, err := corpus.NormalizeEncoding(r.URL.Query().Get("encoding"))
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			text, err := corpus.Decode(http.MaxBytesReader(w, r.Body, maxUploadSize), enc)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Could not read text: %v", err))
				return
			}
			info, err := c.server.store.PutText(r.Context(), name, enc, text)
			if err != nil {
				c.logger.Error("Failed to store text", "name", name, "error", err)
				respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store text: %v", err))
				return
			}
			c.server.cache.forget(name)
			respondWithJSON(w, http.StatusCreated, info)

		case http.MethodDelete:
			if err := c.server.store.RemoveText(r.Context(), name); err != nil {
				c.respondWithStoreError(w, name, err)
				return
			}
			c.server.cache.forget(name)
			w.WriteHeader(http.StatusNoContent)

		default:
			w.Header().Set("Allow", "GET, POST, PUT, DELETE")
			respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	switch parts[1] {
	case "stats":
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		order, err := parseIntParam(r, "order", c.server.app.config.DefaultOrder)
		if err == nil {
			err = c.server.app.checkOrder(order)
		}
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		t, err := c.server.loadTrie(r.Context(), name, order)
		if err != nil {
			c.respondWithStoreError(w, name, err)
			return
		}
		respondWithJSON(w, http.StatusOK, t.Stats())

	default:
		respondWithError(w, http.StatusNotFound, "Action not found")
	}
}

// handleGenerate streams generated text as plain text, drip-fed in chunks
// when the server is configured to do so.
func (c *CorpusAPI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	config := c.server.app.config

	name := r.URL.Query().Get("corpus")
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "The corpus parameter is required")
		return
	}
	order, err := parseIntParam(r, "order", config.DefaultOrder)
	if err == nil {
		err = c.server.app.checkOrder(order)
	}
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	length, err := parseIntParam(r, "length", config.DefaultLength)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if length < 1 || length > config.Server.MaxLength {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("length must be between 1 and %d", config.Server.MaxLength))
		return
	}
	var seed *uint64
	if str := r.URL.Query().Get("seed"); str != "" {
		v, err := strconv.ParseUint(str, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid seed '%s'", str))
			return
		}
		seed = &v
	}

	t, err := c.server.loadTrie(r.Context(), name, order)
	if err != nil {
		c.respondWithStoreError(w, name, err)
		return
	}

	g := markov.NewGenerator(t, c.server.app.generatorOptions(seed)...)
	runeChan, err := g.GenerateStream(r.Context(), length)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store, no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, canFlush := w.(http.Flusher)
	drip := config.Server.EnableDripFeed && canFlush
	chunkSize := length
	if drip {
		chunkSize = length / randRange(config.Server.DripChunksMin, config.Server.DripChunksMax+1)
		if chunkSize <= 0 {
			chunkSize = 1
		}
	}

	var (
		output  strings.Builder
		pending strings.Builder
		count   int
	)
	for ch := range runeChan {
		output.WriteRune(ch)
		pending.WriteRune(ch)
		count++
		if count%chunkSize != 0 && count < length {
			continue
		}
		if _, err = w.Write([]byte(pending.String())); err != nil {
			c.logger.Error("Failed to write generated text to client", "error", err, "remote_addr", r.RemoteAddr)
			return
		}
		pending.Reset()
		if !drip {
			continue
		}
		flusher.Flush()
		if count < length {
			delay := time.Duration(randRange(config.Server.DripDelayMin, config.Server.DripDelayMax+1)) * time.Millisecond
			select {
			case <-r.Context().Done():
				return
			case <-time.After(delay):
			}
		}
	}

	if count < length {
		c.logger.Debug("Generation ended early", "corpus", name, "generated_length", count)
		return
	}
	c.server.app.recordRun(r.Context(), name, order, seed, output.String(), length)
}

func (c *CorpusAPI) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	limit, err := parseIntParam(r, "limit", 20)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	runs, err := c.server.store.Runs(r.Context(), limit)
	if err != nil {
		c.logger.Error("Failed to list runs", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve runs: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, runs)
}

func (c *CorpusAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	stats, err := c.server.store.GetStats(r.Context())
	if err != nil {
		c.logger.Error("Failed to get stats", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve stats: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// respondWithStoreError maps store and build errors to status codes.
func (c *CorpusAPI) respondWithStoreError(w http.ResponseWriter, name string, err error) {
	var short *trie.InsufficientInputError
	switch {
	case errors.Is(err, corpus.ErrTextNotFound):
		respondWithError(w, http.StatusNotFound, "Corpus not found")
	case errors.As(err, &short):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		c.logger.Error("Corpus request failed", "name", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		err := json.NewEncoder(w).Encode(payload)
		if err != nil {
			fmt.Printf("ERROR: Failed to encode JSON response: %v\n", err)
		}
	}
}
