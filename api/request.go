package api

import (
	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"net/http"
	"text2phenotype.com/compound/pipeline"
	"text2phenotype.com/compound/source"
)

const maxBodySize = 64 << 20

type Request struct {
	Pipeline pipeline.Pipeline
	// Limiter is optional; requests over the limit get 429.
	Limiter *rate.Limiter
}

// ProcessData takes a newline separated word list and answers with the
// compound word report for it.
func (req *Request) ProcessData(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tid := uuid.New().String()
	logger := makeRequestLogger(r, tid)

	if r.Method != http.MethodPost {
		logger.Err(nil).Int("status", http.StatusMethodNotAllowed).Msg("Only 'POST' method is allowed here")
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	if req.Limiter != nil && !req.Limiter.Allow() {
		logger.Warn().Int("status", http.StatusTooManyRequests).Msg("Rate limit exceeded")
		http.Error(w, "", http.StatusTooManyRequests)
		return
	}

	words, err := source.ReadWords(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		logger.Err(err).Int("status", http.StatusBadRequest).Msg("Could not read request body")
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	request := pipeline.Request{
		Tid:   tid,
		Words: words,
	}.WithContext(r.Context())
	logger.Info().Int("words", len(words)).Msg("Starting pipeline for request from API")
	resp, ok := <-req.Pipeline(request)
	if !ok {
		logger.Error().Int("status", http.StatusInternalServerError).Msg("Pipeline returned no response")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	w.Header().Set("X-Request-Id", tid)
	_, _ = w.Write([]byte(resp))
	logger.Info().Int("status", http.StatusOK).Msg("Finished processing request")
}

// NewHandler routes ProcessData at "/".
func NewHandler(req *Request) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", req.ProcessData)
	return mux
}
