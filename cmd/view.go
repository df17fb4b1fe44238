package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/pathviz/internal/controller"
	"github.com/msalah0e/pathviz/internal/layout"
	"github.com/msalah0e/pathviz/internal/render"
	"github.com/msalah0e/pathviz/internal/session"
	"github.com/msalah0e/pathviz/internal/ui"
)

const viewHelp = `  click <id>                  pick a node (FROM, then TO)
  clear                       clear the selection
  edge <weight>               add an edge between the picked nodes
  node <id> [x y]             add a node
  link <from> <to> <weight>   add an edge
  weight <from> <to> <weight> change an edge weight
  path <start> <end> [algo]   find a shortest path (dijkstra or astar)
  find <id>                   show the zone of a node
  unite <id1> <id2>           merge two zones
  drag <id> <x> <y>           pin a node while dragging it
  release <id>                end a drag
  show                        print positions and edges
  status                      print selection, form and layout energy
  svg <file>                  export the current layout
  reload                      fetch the graph again
  wait                        hold further input until pending calls finish
  quit                        leave once pending calls finish`

func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Interactive session with a live layout",
		Long: "Run an interactive session. Commands are read line by line from stdin;\n" +
			"the layout keeps ticking in the background.\n\n" + viewHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			proj := layout.New(cfg.Layout.Params())
			loop := session.New(proj, cfg.Layout.TickInterval.Duration, logger)
			ctrl := controller.New(controller.Options{
				Service:   newClient(),
				Scheduler: loop,
				Projector: proj,
				Notifier:  &printer{w: out},
				Logger:    logger,
			})

			v := &viewer{out: out, ctrl: ctrl, loop: loop}
			ui.Banner(out, "interactive view, type help for commands")

			loop.Post(func(ctx context.Context) { ctrl.Reload(ctx) })
			return loop.Run(cmd.Context(), v.source(cmd.InOrStdin()))
		},
	}
}

// viewer dispatches typed commands. Every method runs on the loop goroutine.
type viewer struct {
	out  io.Writer
	ctrl *controller.Controller
	loop *session.Loop
}

// source feeds stdin lines to the loop. End of input drains like quit.
func (v *viewer) source(r io.Reader) session.Source {
	return func(ctx context.Context, post func(session.Task)) error {
		lines := make(chan string)
		errc := make(chan error, 1)
		go func() {
			sc := bufio.NewScanner(r)
			for sc.Scan() {
				select {
				case lines <- sc.Text():
				case <-ctx.Done():
					return
				}
			}
			errc <- sc.Err()
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case line := <-lines:
				if strings.TrimSpace(line) == "wait" {
					idle := make(chan struct{})
					post(func(context.Context) { v.ctrl.WhenIdle(func() { close(idle) }) })
					select {
					case <-idle:
					case <-ctx.Done():
						return nil
					}
					continue
				}
				post(func(ctx context.Context) { v.handle(ctx, line) })
			case err := <-errc:
				if err != nil {
					return err
				}
				post(v.quit)
				<-ctx.Done()
				return nil
			}
		}
	}
}

// quit stops the loop once pending calls finish.
func (v *viewer) quit(context.Context) {
	v.ctrl.WhenIdle(v.loop.Stop)
}

func (v *viewer) handle(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}

	switch name {
	case "click":
		id, err := parseNodeID(arg(0))
		if err != nil {
			v.fail(err)
			return
		}
		v.ctrl.ClickNode(id)
	case "clear":
		v.ctrl.ClickBackground()
	case "edge":
		v.ctrl.AddEdgeFromSelection(ctx, arg(0))
	case "node":
		v.ctrl.AddNode(ctx, controller.NodeInput{ID: arg(0), X: arg(1), Y: arg(2)})
	case "link":
		v.ctrl.AddEdge(ctx, controller.EdgeInput{From: arg(0), To: arg(1), Weight: arg(2)})
	case "weight":
		v.ctrl.UpdateEdgeWeight(ctx, controller.EdgeInput{From: arg(0), To: arg(1), Weight: arg(2)})
	case "path":
		v.ctrl.FindShortestPath(ctx, controller.PathInput{Start: arg(0), End: arg(1), Algorithm: arg(2)})
	case "find":
		v.ctrl.FindSet(ctx, arg(0))
	case "unite":
		v.ctrl.UniteSets(ctx, arg(0), arg(1))
	case "drag":
		v.drag(arg(0), arg(1), arg(2))
	case "release":
		id, err := parseNodeID(arg(0))
		if err != nil {
			v.fail(err)
			return
		}
		if !v.ctrl.Projector().DragEnd(id) {
			v.fail(fmt.Errorf("node %d is not being dragged", id))
		}
	case "show":
		render.Tables(v.out, v.ctrl.Projector().Frame(), v.ctrl.Overlay())
	case "status":
		v.status()
	case "svg":
		v.export(arg(0))
	case "reload":
		v.ctrl.Reload(ctx)
	case "help", "?":
		fmt.Fprintln(v.out, viewHelp)
	case "quit", "exit":
		v.quit(ctx)
	default:
		v.fail(fmt.Errorf("unknown command %q, type help", name))
	}
}

func (v *viewer) drag(rawID, rawX, rawY string) {
	id, err := parseNodeID(rawID)
	if err != nil {
		v.fail(err)
		return
	}
	x, errX := strconv.ParseFloat(rawX, 64)
	y, errY := strconv.ParseFloat(rawY, 64)
	if errX != nil || errY != nil {
		v.fail(errors.New("drag needs numeric x and y"))
		return
	}
	proj := v.ctrl.Projector()
	if !proj.Dragging(id) && !proj.DragStart(id) {
		v.fail(fmt.Errorf("node %d is not in the layout", id))
		return
	}
	proj.DragMove(id, x, y)
}

func (v *viewer) status() {
	proj := v.ctrl.Projector()
	form := v.ctrl.EdgeForm()
	state := "settled"
	if proj.Running() {
		state = "running"
	}
	fmt.Fprintf(v.out, "  %s %s\n", ui.Brand.Sprintf("%-10s", "selection"), v.ctrl.Selection())
	fmt.Fprintf(v.out, "  %s from=%q to=%q\n", ui.Brand.Sprintf("%-10s", "edge form"), form.From, form.To)
	fmt.Fprintf(v.out, "  %s %s (alpha %.3f)\n", ui.Brand.Sprintf("%-10s", "layout"), state, proj.Alpha())
	if r := v.ctrl.SetResult(); r != "" {
		fmt.Fprintf(v.out, "  %s %s\n", ui.Brand.Sprintf("%-10s", "zone"), r)
	}
	fmt.Fprintf(v.out, "  %s %d\n", ui.Brand.Sprintf("%-10s", "pending"), v.ctrl.Pending())
}

func (v *viewer) export(path string) {
	if path == "" {
		v.fail(errors.New("svg needs a file name"))
		return
	}
	proj := v.ctrl.Projector()
	params := proj.Params()
	var buf bytes.Buffer
	if err := render.SVG(&buf, proj.Frame(), v.ctrl.Overlay(), params.Width, params.Height); err != nil {
		v.fail(err)
		return
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		v.fail(err)
		return
	}
	fmt.Fprintf(v.out, "  %s Wrote %s\n", ui.StatusIcon(true), ui.Info.Sprint(path))
}

func (v *viewer) fail(err error) {
	fmt.Fprintf(v.out, "  %s %s\n", ui.StatusIcon(false), ui.Bad.Sprint(err))
}
