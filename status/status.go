// Package status serves the bot's health and command list over HTTP.
package status

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gobridge/akumabot/bot"
	"github.com/gorilla/mux"
)

// Counter reports how often each command has run.
type Counter interface {
	Counts(ctx context.Context) (map[string]int, error)
}

// Stats configures the /stats route. It is only served when both fields are set
// and requests carry "Authorization: Bearer <Token>".
type Stats struct {
	Counter Counter
	Token   string
}

type command struct {
	Name        string `json:"name"`
	Usage       string `json:"usage"`
	PMOnly      bool   `json:"pm_only,omitempty"`
	ChannelOnly bool   `json:"channel_only,omitempty"`
}

type server struct {
	commands *bot.Registry
	stats    Stats
	version  string
	logf     bot.Logger
}

// NewRouter returns the status routes.
func NewRouter(commands *bot.Registry, stats Stats, version string, log bot.Logger) *mux.Router {
	s := &server{
		commands: commands,
		stats:    stats,
		version:  version,
		logf:     log,
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)
	r.HandleFunc("/version", s.versionHandler).Methods(http.MethodGet)
	r.HandleFunc("/commands", s.commandList).Methods(http.MethodGet)
	if stats.Counter != nil && stats.Token != "" {
		r.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)
	}
	return r
}

// NewServer returns an *http.Server serving NewRouter on addr.
func NewServer(addr string, commands *bot.Registry, stats Stats, version string, log bot.Logger) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      NewRouter(commands, stats, version, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *server) versionHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"version": s.version})
}

func (s *server) commandList(w http.ResponseWriter, r *http.Request) {
	cmds := s.commands.All(false)
	list := make([]command, 0, len(cmds))
	for _, cmd := range cmds {
		list = append(list, command{
			Name:        cmd.Name,
			Usage:       cmd.UsageText(),
			PMOnly:      cmd.PMOnly,
			ChannelOnly: cmd.ChannelOnly,
		})
	}
	s.writeJSON(w, list)
}

func (s *server) authorized(r *http.Request) bool {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.stats.Token)) == 1
}

func (s *server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	counts, err := s.stats.Counter.Counts(r.Context())
	if err != nil {
		s.logf("failed to count invocations: %v", err)
		http.Error(w, "failed to count invocations", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, counts)
}

func (s *server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logf("failed to write response: %v", err)
	}
}
