package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/msalah0e/pathviz/internal/api"
	"github.com/msalah0e/pathviz/internal/controller"
	"github.com/msalah0e/pathviz/internal/graph"
	"github.com/msalah0e/pathviz/internal/layout"
	"github.com/msalah0e/pathviz/internal/ui"
)

// printer shows controller messages and remembers whether any failed.
type printer struct {
	w      io.Writer
	failed bool
	quiet  bool // hide successful reloads
}

func (p *printer) Notify(m controller.Message) {
	switch {
	case errors.Is(m.Err, controller.ErrNoPath):
		fmt.Fprintf(p.w, "  %s %s\n", ui.WarnIcon(), m.Text)
	case m.IsError():
		p.failed = true
		fmt.Fprintf(p.w, "  %s %s\n", ui.StatusIcon(false), ui.Bad.Sprint(m.Text))
	case m.Op == controller.OpReload:
		if !p.quiet {
			fmt.Fprintf(p.w, "  %s\n", ui.Subtle.Sprint(m.Text))
		}
	default:
		fmt.Fprintf(p.w, "  %s %s\n", ui.StatusIcon(true), m.Text)
	}
}

// err converts a printed failure into the command's exit status.
func (p *printer) err() error {
	if p.failed {
		return errReported
	}
	return nil
}

func newClient() *api.Client {
	client := api.NewClient(cfg.Server.URL, cfg.Server.Timeout.Duration)
	client.Logger = logger
	return client
}

// newEngine wires a controller to the configured service. A nil scheduler runs
// every call inline.
func newEngine(w io.Writer, sched controller.Scheduler) (*controller.Controller, *printer) {
	p := &printer{w: w}
	ctrl := controller.New(controller.Options{
		Service:   newClient(),
		Scheduler: sched,
		Projector: layout.New(cfg.Layout.Params()),
		Notifier:  p,
		Logger:    logger,
	})
	return ctrl, p
}

// loadGraph performs the initial reload of a one-shot command.
func loadGraph(ctx context.Context, ctrl *controller.Controller, p *printer) error {
	ctrl.Reload(ctx)
	return p.err()
}

func parseNodeID(raw string) (graph.NodeID, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q", raw)
	}
	return graph.NodeID(v), nil
}
