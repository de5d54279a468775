// Command hn-graphql serves the Hacker News Firebase API over GraphQL.
package main

import (
	"fmt"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arlberg/hn-graphql/internal/graph"
	"github.com/arlberg/hn-graphql/pkg/hn"
	"github.com/arlberg/hn-graphql/pkg/loader"
	"github.com/arlberg/hn-graphql/pkg/logging"
)

// maxParallelism bounds concurrent field resolution per query. Deeply
// nested connection queries fan out fast; the batch windows below it keep
// the upstream request count far smaller.
const maxParallelism = 256

func main() {
	// Configuration from environment
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logCfg.Pretty = getBoolEnv("LOG_PRETTY", false)
	logger := logging.Setup(logCfg)

	port := getEnv("PORT", "8000")
	baseURL := getEnv("HN_BASE_URL", hn.DefaultBaseURL)

	client := hn.New(hn.Config{
		BaseURL: baseURL,
		Timeout: getDurationEnv("HN_TIMEOUT", hn.DefaultTimeout),
	})

	resolver, err := graph.New(client, graph.Config{
		Wait:     getDurationEnv("LOADER_WAIT", loader.DefaultWait),
		MaxBatch: getIntEnv("LOADER_MAX_BATCH", 0),
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create resolver")
	}

	schema := graphql.MustParseSchema(graph.Schema, resolver, graphql.MaxParallelism(maxParallelism))

	handler := withRequestLog(newMux(schema), logger)

	addr := ":" + port
	logger.Info().
		Str("addr", addr).
		Str("upstream", baseURL).
		Msg("Starting GraphQL server")
	logger.Info().
		Str("playground", "http://localhost:"+port+"/").
		Str("endpoint", "http://localhost:"+port+"/graphql").
		Msg("Ready")

	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// newMux wires the HTTP surface: playground, GraphQL endpoint, health and
// metrics.
func newMux(schema *graphql.Schema) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", playgroundHandler)
	mux.Handle("/graphql", &relay.Handler{Schema: schema})
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func playgroundHandler(w http.ResponseWriter, r *http.Request) {
	// "/" is a catch-all pattern; everything but the root is a 404.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(playgroundHTML))
}

// withRequestLog tags every request with an id, logs it, and turns
// resolver panics into 500s instead of dropped connections.
func withRequestLog(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()

		defer func() {
			if rec := recover(); rec != nil {
				logger.Error().
					Str("request_id", requestID).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)

		logger.Debug().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return parsed
}

func getIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid integer, using default")
		return defaultValue
	}
	return parsed
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid boolean, using default")
		return defaultValue
	}
	return parsed
}
