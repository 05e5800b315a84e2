// Command wheelly runs the behaviour core end-to-end against the
// in-process simulated controller: it wires a demo flow graph, ticks
// the simulator on a fixed interval, and publishes the agent's
// trigger/state/target/error events over a telemetry websocket so a
// viewer can follow the run. No real robot link or config loader is
// involved — both are explicitly out of scope (spec.md §1).
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/m-marini/wheellyj-sub009/internal/algo"
	"github.com/m-marini/wheellyj-sub009/internal/bridge"
	"github.com/m-marini/wheellyj-sub009/internal/core"
	"github.com/m-marini/wheellyj-sub009/internal/flow"
	"github.com/m-marini/wheellyj-sub009/internal/statenode"
	"github.com/m-marini/wheellyj-sub009/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":8080", "telemetry websocket listen address")
	tickInterval := flag.Duration("tick", 100*time.Millisecond, "simulated reaction interval")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	hub := telemetry.NewHub(logger)
	http.HandleFunc("/ws", hub.ServeWS)
	go func() {
		if err := http.ListenAndServe(*addr, nil); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("telemetry server stopped")
		}
	}()

	radar := core.NewRadarMap(demoTopology(), 3.0, logger)
	simConfig := bridge.DefaultSimConfig()
	simConfig.Obstacles = demoObstacles()
	sim := bridge.NewSimController(simConfig)
	throttled := bridge.NewThrottler(sim, 200*time.Millisecond, clock.New())

	f, err := demoFlow()
	if err != nil {
		logger.Fatal().Err(err).Msg("flow configuration error")
	}

	// runID is resolved once NewAgent returns below; the closures
	// close over the pointer so every event they publish afterward
	// carries the agent's actual run id.
	runID := new(string)

	agent := flow.NewAgent(f, throttled, radar,
		flow.PolarConfig{Sectors: 24, MinDistance: 0.05, MaxDistance: 3.0},
		radar.Clean,
		flow.EventSink{
			OnExit: func(stateID string, exit statenode.ExitKey) {
				hub.Publish(telemetry.Event{Kind: telemetry.EventTrigger, RunID: *runID, StateID: stateID, Exit: exit.String()})
			},
			OnStateChanged: func(stateID string) {
				hub.Publish(telemetry.Event{Kind: telemetry.EventStateChanged, RunID: *runID, StateID: stateID})
			},
			OnTargetChanged: func(target *core.Point) {
				var p *telemetry.Point
				if target != nil {
					p = &telemetry.Point{X: target.X, Y: target.Y}
				}
				hub.Publish(telemetry.Event{Kind: telemetry.EventTargetChanged, RunID: *runID, Target: p})
			},
			OnError: func(err error) {
				hub.Publish(telemetry.Event{Kind: telemetry.EventError, RunID: *runID, Message: err.Error()})
			},
		},
		logger,
	)
	*runID = agent.RunID.String()

	if err := agent.Start(); err != nil {
		logger.Fatal().Err(err).Msg("agent start failed")
	}
	logger.Info().Str("run_id", agent.RunID.String()).Msg("wheelly behaviour core started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(*tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			status := sim.Tick()
			fmt.Fprintf(os.Stdout, "\rt=%7.2f  state=%-12s  pos=(%.2f,%.2f)",
				status.SimulationTime, agent.CurrentStateID(), status.Location.X, status.Location.Y)
		case <-sigCh:
			fmt.Println()
			logger.Info().Msg("shutting down")
			if err := agent.Shutdown(); err != nil {
				logger.Error().Err(err).Msg("agent shutdown error")
			}
			return
		}
	}
}

func demoTopology() core.GridTopology {
	return core.NewGridTopology(core.Point{X: 0, Y: 0}, 0.1, 100, 100)
}

func demoObstacles() []bridge.Obstacle {
	return []bridge.Obstacle{
		{Center: core.Point{X: 1.5, Y: 0}, Radius: 0.3},
		{Center: core.Point{X: -1, Y: 1.2}, Radius: 0.25},
		{Center: core.Point{X: 0.5, Y: -1.5}, Radius: 0.4},
	}
}

// demoFlow builds a small but representative graph exercising most of
// the behaviour library: halt auto-scans while idle, avoiding handles
// contacts and then hands over to mapping, mapping sweeps the
// surroundings until it completes or finds a label, exploringPoint
// picks a frontier target and branches to searchRefresh (back to halt)
// or, when none is found, to searchUnknown, and clearMap resets the
// accumulated radar state after searchUnknown before returning to halt.
func demoFlow() (*flow.Flow, error) {
	halt := statenode.NewHalt(statenode.NewBase("halt", 0, nil, nil, nil),
		2.0, -core.HeadingFromDeg(90).Rad(), core.HeadingFromDeg(90).Rad(), 5)

	avoiding := statenode.NewAvoiding(statenode.NewBase("avoiding", 5000, nil, nil, nil),
		20, 0.3, 1.5, 0.2)

	mapping := statenode.NewMapping(statenode.NewBase("mapping", 10000, nil, nil, nil),
		0.1, 3, core.HeadingFromDeg(120).Rad(), 1e-3)

	exploringPoint := statenode.NewExploringPoint(statenode.NewBase("exploringPoint", 0, nil, nil, nil),
		0.25, "exploringPoint.target")

	searchRefresh := statenode.NewSearchRefresh(statenode.NewBase("searchRefresh", 0, nil, nil, nil),
		0.2, 30, 0.25, 0.3, 2.5,
		algo.RRTBudget{MinGoals: 1, MaxIterations: 2000, MaxSearchTime: 2 * time.Second},
		1, clock.New())

	searchUnknown := statenode.NewSearchUnknown(statenode.NewBase("searchUnknown", 0, nil, nil, nil),
		0.2, 30, 0.25, 0.3,
		algo.RRTBudget{MinGoals: 1, MaxIterations: 2000, MaxSearchTime: 2 * time.Second},
		2, clock.New())

	clearMap := statenode.NewClearMap(statenode.NewBase("clearMap", 0, nil, nil, nil))

	states := map[string]statenode.StateNode{
		"halt":           halt,
		"avoiding":       avoiding,
		"mapping":        mapping,
		"exploringPoint": exploringPoint,
		"searchRefresh":  searchRefresh,
		"searchUnknown":  searchUnknown,
		"clearMap":       clearMap,
	}

	transitions := []flow.Transition{}
	add := func(from, trigger, to string) error {
		t, err := flow.NewTransition(from, trigger, to, nil)
		if err != nil {
			return err
		}
		transitions = append(transitions, t)
		return nil
	}

	for _, spec := range []struct{ from, trigger, to string }{
		{"halt", "blocked|front_blocked|rear_blocked", "avoiding"},
		{"avoiding", "completed", "mapping"},
		{"avoiding", "blocked", "halt"},
		{"mapping", "completed", "exploringPoint"},
		{"mapping", "found", "exploringPoint"},
		{"exploringPoint", "completed", "searchRefresh"},
		{"exploringPoint", "not_found", "searchUnknown"},
		{"searchRefresh", "completed|not_found", "halt"},
		{"searchRefresh", "blocked|front_blocked|rear_blocked", "avoiding"},
		{"searchUnknown", "completed|not_found", "clearMap"},
		{"searchUnknown", "blocked|front_blocked|rear_blocked", "avoiding"},
		{"clearMap", "completed", "halt"},
	} {
		if err := add(spec.from, spec.trigger, spec.to); err != nil {
			return nil, err
		}
	}

	return flow.NewFlow("halt", states, transitions, nil)
}
