package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	persistlog "colonysim.ai/internal/persistence/log"
	"colonysim.ai/internal/sim/catalogs"
	"colonysim.ai/internal/sim/tuning"
	"colonysim.ai/internal/sim/world"
	"colonysim.ai/internal/transport/observer"
)

func main() {
	var (
		addr        = flag.String("addr", ":8080", "http listen address")
		runID       = flag.String("run", "", "run id (default: random uuid)")
		configDir   = flag.String("configs", "./configs", "config directory")
		dataDir     = flag.String("data", "./data", "runtime data directory")
		tuningPath  = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB   = flag.Bool("disable_db", false, "disable the sqlite tick/audit index")
		readOnly    = flag.Bool("read_only", false, "reject CMD messages on the observer socket")
		allowRemote = flag.Bool("allow_remote", false, "serve bootstrap and observer endpoints to non-loopback clients")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	id := strings.TrimSpace(*runID)
	if id == "" {
		id = uuid.NewString()
	}
	runDir := filepath.Join(*dataDir, "runs", id)
	if err := persistlog.WriteManifest(runDir, persistlog.RunManifest{
		RunID:         id,
		StartedAt:     time.Now().UTC(),
		CatalogDigest: cats.Buildings.Digest,
		Tuning:        tune,
	}); err != nil {
		logger.Fatalf("write manifest: %v", err)
	}

	// Optional read-model index (does not affect sim determinism).
	idx, err := openRuntimeIndex(runDir, *disableDB)
	if err != nil {
		logger.Fatalf("open index backend: %v", err)
	}
	if idx != nil {
		defer idx.Close()
		if err := idx.UpsertCatalogs(*configDir, cats, tune); err != nil {
			logger.Printf("index backend: upsert catalogs: %v", err)
		}
		if err := idx.SetMeta("run_id", id); err != nil {
			logger.Printf("index backend: meta: %v", err)
		}
	}

	w, err := world.New(world.WorldConfig{RunID: id, Tuning: tune}, cats)
	if err != nil {
		logger.Fatalf("world: %v", err)
	}
	w.SetLogger(log.New(os.Stdout, "[world] ", log.LstdFlags|log.Lmicroseconds))

	journal := persistlog.NewJournal(runDir, persistlog.Rotation(tune.Journal.Rotate))
	defer func() {
		if err := journal.Close(); err != nil {
			logger.Printf("journal close: %v", err)
		}
	}()
	w.SetTickLogger(multiTickLogger{a: journal, b: idx})
	w.SetAuditLogger(multiAuditLogger{a: journal, b: idx})

	// Bootstrap audits go through the loggers set above.
	if err := w.Start(); err != nil {
		logger.Fatalf("start: %v", err)
	}
	logger.Printf("run=%s dir=%s", id, runDir)

	ctx, cancel := signalContext()
	defer cancel()

	worldDone := make(chan struct{})
	go func() {
		defer close(worldDone)
		if err := w.Run(ctx); err != nil && err != context.Canceled {
			logger.Printf("world stopped: %v", err)
		}
	}()

	obsSrv := observer.NewServer(w, logger, observer.Options{
		MaxSessions:    tune.Observer.MaxSessions,
		AllowRemote:    *allowRemote,
		ReadOnly:       *readOnly,
		CmdWindowTicks: tune.Observer.CmdWindowTicks,
		CmdMax:         tune.Observer.CmdMax,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		var st *indexStats
		if idx != nil {
			s := idx.Stats()
			st = &s
		}
		ticks, audits := journal.Counts()
		ss := serverStats{Sessions: obsSrv.Sessions(), JournalTicks: ticks, JournalAudits: audits}
		writeMetrics(rw, id, w.Metrics(), ss, st)
	})
	mux.HandleFunc("/v1/bootstrap", obsSrv.BootstrapHandler())
	mux.HandleFunc("/v1/observe", obsSrv.WSHandler())

	if envBool("COLONY_ENABLE_ADMIN_HTTP", true) {
		// Local-only admin endpoints (do not affect simulation determinism).
		mux.HandleFunc("/admin/v1/state", func(rw http.ResponseWriter, r *http.Request) {
			if !isLoopbackRemote(r.RemoteAddr) {
				http.Error(rw, "forbidden", http.StatusForbidden)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(rw).Encode(struct {
				RunID   string             `json:"run_id"`
				Metrics world.WorldMetrics `json:"metrics"`
			}{RunID: id, Metrics: w.Metrics()})
		})
		if idx != nil {
			mux.HandleFunc("/admin/v1/deliveries", func(rw http.ResponseWriter, r *http.Request) {
				if !isLoopbackRemote(r.RemoteAddr) {
					http.Error(rw, "forbidden", http.StatusForbidden)
					return
				}
				ctx2, cancel2 := context.WithTimeout(r.Context(), 5*time.Second)
				defer cancel2()
				if err := idx.Sync(ctx2); err != nil {
					http.Error(rw, err.Error(), http.StatusServiceUnavailable)
					return
				}
				totals, err := idx.DeliveredTotals(ctx2)
				if err != nil {
					http.Error(rw, err.Error(), http.StatusInternalServerError)
					return
				}
				counts, err := idx.CommandCounts(ctx2)
				if err != nil {
					http.Error(rw, err.Error(), http.StatusInternalServerError)
					return
				}
				rw.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(rw).Encode(map[string]any{"delivered": totals, "commands": counts})
			})
		}
	} else {
		logger.Printf("admin endpoints disabled (COLONY_ENABLE_ADMIN_HTTP=false)")
	}
	if envBool("COLONY_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
	cancel()
	<-worldDone
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func envBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

type multiTickLogger struct {
	a world.TickLogger
	b world.TickLogger
}

func (m multiTickLogger) WriteTick(entry world.TickLogEntry) error {
	if m.a != nil {
		_ = m.a.WriteTick(entry)
	}
	if m.b != nil {
		_ = m.b.WriteTick(entry)
	}
	return nil
}

type multiAuditLogger struct {
	a world.AuditLogger
	b world.AuditLogger
}

func (m multiAuditLogger) WriteAudit(entry world.AuditEntry) error {
	if m.a != nil {
		_ = m.a.WriteAudit(entry)
	}
	if m.b != nil {
		_ = m.b.WriteAudit(entry)
	}
	return nil
}
