package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/openra/ra-launcher/internal/bridge"
	"github.com/openra/ra-launcher/internal/catalog"
	"github.com/openra/ra-launcher/internal/config"
	"github.com/openra/ra-launcher/internal/controller"
	"github.com/openra/ra-launcher/internal/launch"
)

// runHeadless lists mods and/or launches one without opening a window
func runHeadless(outW io.Writer, cfg config.Config, opts options) error {
	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	events := newScriptBridge(logger)
	ctrl, err := newController(cfg, events, controller.LogNotifier{Logger: logger}, launch.NewExecStarter(logger), logger)
	if err != nil {
		return err
	}
	defer ctrl.Close()
	return headless(context.Background(), outW, ctrl, events, opts)
}

func headless(ctx context.Context, outW io.Writer, ctrl *controller.Controller, events *scriptBridge, opts options) error {
	ctx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()
	if err := ctrl.Init(ctx); err != nil {
		return err
	}

	if opts.List || (opts.Launch == "" && opts.Fetch == "") {
		printTree(outW, ctrl.Tree())
	}
	if opts.Launch != "" {
		if err := ctrl.LaunchMod(opts.Launch); err != nil {
			return &ExitError{Code: 1, Message: err.Error()}
		}
	}
	if opts.Fetch != "" {
		return fetchScript(ctx, outW, ctrl, events, opts.Fetch)
	}
	return nil
}

// fetchScript issues a fetch and prints the handler call its result renders to
func fetchScript(ctx context.Context, outW io.Writer, ctrl *controller.Controller, events *scriptBridge, url string) error {
	id := ctrl.FetchURL(url, fetchCallback)
	ev, err := events.Wait(ctx, id)
	if err != nil {
		return &ExitError{Code: 1, Message: fmt.Sprintf("fetch %s: %v", url, err)}
	}

	script, err := ev.Script()
	if err != nil {
		return &ExitError{Code: 1, Message: err.Error()}
	}
	fmt.Fprintln(outW, script)

	if !ev.OK() {
		return &ExitError{Code: 1, Message: "fetch failed: " + ev.Err}
	}
	return nil
}

// printTree writes both sidebar groups, indenting nested mods
func printTree(w io.Writer, tree catalog.Tree) {
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		n, ok := tree.Node(id)
		if !ok {
			return
		}
		label := n.Label
		if !n.IsGroup() && n.ModID != n.Label {
			label = fmt.Sprintf("%s (%s)", n.Label, n.ModID)
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), label)
		for _, child := range tree.ChildIDs(id) {
			walk(child, depth+1)
		}
	}
	for _, group := range tree.ChildIDs("") {
		walk(group, 0)
	}
}

// fetchCallback is the handler name fetches issued from the command line report to
const fetchCallback = "onFetchCompleted"

// scriptBridge logs every event and queues them for Wait
type scriptBridge struct {
	logger *slog.Logger
	events chan bridge.Event
}

func newScriptBridge(logger *slog.Logger) *scriptBridge {
	return &scriptBridge{logger: logger, events: make(chan bridge.Event, 16)}
}

func (b *scriptBridge) Deliver(ev bridge.Event) {
	b.logger.Info("Bridge event", "kind", ev.Kind.String(), "callback", ev.Callback, "key", ev.Key, "ok", ev.OK())
	select {
	case b.events <- ev:
	default:
		b.logger.Debug("Bridge queue full, event dropped", "kind", ev.Kind.String(), "request_id", ev.RequestID)
	}
}

// Wait returns the event answering requestID
func (b *scriptBridge) Wait(ctx context.Context, requestID string) (bridge.Event, error) {
	for {
		select {
		case ev := <-b.events:
			if ev.RequestID == requestID {
				return ev, nil
			}
		case <-ctx.Done():
			return bridge.Event{}, ctx.Err()
		}
	}
}
