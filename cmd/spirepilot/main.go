// Command spirepilot is the process the game mod launches: it reads
// state messages on stdin, writes command lines on stdout, and plays
// runs back to back. A localhost console, a run log database and
// per-run session tapes are wired in through the environment.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"spirepilot/agent"
	"spirepilot/comm"
	"spirepilot/internal/console"
	"spirepilot/internal/runlog"
	"spirepilot/replay"
	"spirepilot/spire"
)

type config struct {
	ConsoleAddr string
	RunLogMode  string
	PolicyFile  string
	TapeDir     string
	Seed        string
	Ascension   int
	MaxRuns     int
	Classes     []spire.PlayerClass
}

func main() {
	cfg, err := configFromEnv()
	if err != nil {
		log.Fatalf("[Driver] bad configuration: %v", err)
	}

	policies := agent.DefaultPolicies()
	if cfg.PolicyFile != "" {
		policies, err = agent.PoliciesWithOverrides(cfg.PolicyFile)
		if err != nil {
			log.Fatalf("[Driver] failed to load policy file: %v", err)
		}
		log.Printf("[Driver] policy overrides loaded from %s", cfg.PolicyFile)
	}

	runLog, runLogMode, err := runlog.NewServiceFromEnv(cfg.RunLogMode)
	if err != nil {
		log.Fatalf("[Driver] failed to init run log: %v", err)
	}
	defer runLog.Close()

	// stdout carries only protocol lines; everything else logs to
	// stderr.
	tr := comm.NewTransport(os.Stdin, bufio.NewWriter(os.Stdout))
	coord := comm.NewCoordinator(tr)
	drv := agent.New(cfg.Classes[0], policies)
	drv.Ascension = cfg.Ascension
	drv.Seed = cfg.Seed
	coord.RegisterStateChange(drv.OnStateChange)
	coord.RegisterErrorHandler(drv.OnError)
	coord.RegisterOutOfGame(drv.OnOutOfGame)

	var recorder atomic.Pointer[replay.Recorder]
	var cons *console.Console
	if cfg.ConsoleAddr != "" {
		cons = console.New(tr.Out, coord)
		mux := http.NewServeMux()
		mux.HandleFunc("/", cons.HandleIndex)
		mux.HandleFunc("/ws", cons.HandleWebSocket)
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		go func() {
			log.Printf("[Driver] console listening on http://%s", cfg.ConsoleAddr)
			if err := http.ListenAndServe(cfg.ConsoleAddr, mux); err != nil {
				log.Printf("[Driver] console stopped: %v", err)
			}
		}()
	}

	tr.OnInbound = func(line string) {
		if cons != nil {
			cons.ObserveIn(line)
		}
		if r := recorder.Load(); r != nil {
			r.RecordIn(line)
		}
	}
	tr.OnOutbound = func(line string) {
		if cons != nil {
			cons.ObserveOut(line)
		}
		if r := recorder.Load(); r != nil {
			r.RecordOut(line)
		}
	}

	log.Printf("[Driver] run log mode: %s", runLogMode)
	tr.Start()
	defer tr.Stop()
	coord.SignalReady()

	ctx := context.Background()
	for run := 1; cfg.MaxRuns == 0 || run <= cfg.MaxRuns; run++ {
		class := cfg.Classes[(run-1)%len(cfg.Classes)]
		drv.ChangeClass(class)

		if cons != nil {
			cons.SetStatus(console.Status{
				Running:   true,
				Class:     class.String(),
				Ascension: cfg.Ascension,
				Seed:      cfg.Seed,
				Run:       run,
			})
		}

		runID, err := runLog.RecordRunStart(ctx, runlog.RunStart{
			Class:     class.String(),
			Ascension: cfg.Ascension,
			Seed:      cfg.Seed,
		})
		if err != nil {
			log.Printf("[Driver] run log start failed: %v", err)
		}

		var tapePath string
		var tapeFile *os.File
		if cfg.TapeDir != "" {
			if tapePath, tapeFile = createTape(cfg.TapeDir, run, class); tapeFile != nil {
				recorder.Store(replay.NewRecorder(tapeFile, replay.Header{
					Class:     class.String(),
					Ascension: cfg.Ascension,
					Seed:      cfg.Seed,
				}))
			}
		}

		faultsBefore := coord.Faults() + drv.Errors()
		log.Printf("[Driver] run %d: %s ascension %d", run, class, cfg.Ascension)
		victory, final, playErr := coord.PlayOneGame(ctx, class, cfg.Ascension, cfg.Seed)

		score, floor := 0, 0
		if final != nil {
			floor = final.Floor
			if over, ok := final.Screen.(*spire.GameOverScreen); ok {
				score = over.Score
			}
		}

		if r := recorder.Swap(nil); r != nil {
			if err := r.Finish(replay.Footer{Victory: victory, Score: score, Floor: floor}); err != nil {
				log.Printf("[Driver] tape write failed: %v", err)
			}
			tapeFile.Close()
		}

		if runID != 0 {
			if err := runLog.RecordRunEnd(ctx, runID, runlog.RunEnd{
				Victory:  victory,
				Score:    score,
				Floor:    floor,
				Faults:   coord.Faults() + drv.Errors() - faultsBefore,
				TapePath: tapePath,
			}); err != nil {
				log.Printf("[Driver] run log end failed: %v", err)
			}
		}

		if playErr != nil {
			log.Printf("[Driver] session ended: %v", playErr)
			break
		}
		log.Printf("[Driver] run %d finished: victory=%t floor=%d score=%d", run, victory, floor, score)
	}

	if cons != nil {
		cons.SetStatus(console.Status{Running: false})
	}
}

func createTape(dir string, run int, class spire.PlayerClass) (string, *os.File) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[Driver] cannot create tape dir: %v", err)
		return "", nil
	}
	name := fmt.Sprintf("run%03d_%s_%s.jsonl",
		run, strings.ToLower(class.String()), time.Now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		log.Printf("[Driver] cannot create tape: %v", err)
		return "", nil
	}
	return path, f
}

func configFromEnv() (config, error) {
	cfg := config{
		ConsoleAddr: envOrDefault("CONSOLE_ADDR", "127.0.0.1:8080"),
		RunLogMode:  strings.TrimSpace(os.Getenv("RUNLOG_MODE")),
		PolicyFile:  strings.TrimSpace(os.Getenv("POLICY_FILE")),
		TapeDir:     strings.TrimSpace(os.Getenv("TAPE_DIR")),
		Seed:        strings.TrimSpace(os.Getenv("SEED")),
	}
	if strings.EqualFold(cfg.ConsoleAddr, "off") {
		cfg.ConsoleAddr = ""
	}

	var err error
	if cfg.Ascension, err = envInt("ASCENSION", 0); err != nil {
		return cfg, err
	}
	if cfg.MaxRuns, err = envInt("MAX_RUNS", 0); err != nil {
		return cfg, err
	}

	names := strings.TrimSpace(os.Getenv("CLASSES"))
	if names == "" {
		cfg.Classes = spire.AllPlayerClasses
		return cfg, nil
	}
	for _, name := range strings.Split(names, ",") {
		class, err := spire.ParsePlayerClass(strings.ToUpper(strings.TrimSpace(name)))
		if err != nil {
			return cfg, err
		}
		cfg.Classes = append(cfg.Classes, class)
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
