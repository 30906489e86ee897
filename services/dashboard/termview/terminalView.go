package termview

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"github.com/iulianpascalau/obd-dashboard/services/dashboard/common"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
)

var log = logger.GetOrCreate("termview")

const (
	refreshInterval = 250 * time.Millisecond
	cardsWidthRatio = 0.4
	minPlotPoints   = 2
)

// ErrNilController signals a nil controller
var ErrNilController = errors.New("nil controller")

// ErrNoTargets signals an empty graph target set
var ErrNoTargets = errors.New("no graph targets")

type graphPane struct {
	plot  *widgets.Plot
	empty *widgets.Paragraph
	view  common.GraphView
}

// terminalView paints the cards as a list and every graph target as a line plot
type terminalView struct {
	controller Controller
	draw       func(items ...ui.Drawable)

	mut       sync.Mutex
	cardOrder []string
	cards     map[string]common.CardView
	list      *widgets.List
	status    *widgets.Paragraph
	panes     map[string]*graphPane
	targets   []string
	grid      *ui.Grid
	dirty     bool
}

// NewTerminalView creates a terminal view for the fixed set of graph targets
func NewTerminalView(targets []string, controller Controller) (*terminalView, error) {
	if check.IfNil(controller) {
		return nil, ErrNilController
	}
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	sortedTargets := make([]string, len(targets))
	copy(sortedTargets, targets)
	sort.Strings(sortedTargets)

	list := widgets.NewList()
	list.Title = "Live data"
	list.TextStyle = ui.NewStyle(ui.ColorYellow)
	list.SelectedRowStyle = ui.NewStyle(ui.ColorBlack, ui.ColorYellow)
	list.WrapText = false

	status := widgets.NewParagraph()
	status.Title = "Keys"

	panes := make(map[string]*graphPane, len(sortedTargets))
	for _, target := range sortedTargets {
		plot := widgets.NewPlot()
		plot.Title = target
		plot.LineColors = []ui.Color{ui.ColorCyan}
		plot.Marker = widgets.MarkerBraille

		empty := widgets.NewParagraph()
		empty.Title = target
		empty.Text = "no metric tracked"

		panes[target] = &graphPane{
			plot:  plot,
			empty: empty,
			view:  common.GraphView{Target: target},
		}
	}

	tv := &terminalView{
		controller: controller,
		draw:       ui.Render,
		cards:      make(map[string]common.CardView),
		list:       list,
		status:     status,
		panes:      panes,
		targets:    sortedTargets,
		grid:       ui.NewGrid(),
	}
	tv.updateStatus()
	tv.relayout()

	return tv, nil
}

// RenderCard updates the row of the card
func (tv *terminalView) RenderCard(card common.CardView) {
	tv.mut.Lock()
	defer tv.mut.Unlock()

	_, found := tv.cards[card.Key]
	if !found {
		tv.cardOrder = append(tv.cardOrder, card.Key)
	}
	tv.cards[card.Key] = card
	tv.updateRows()
}

// ClearCards removes every row
func (tv *terminalView) ClearCards() {
	tv.mut.Lock()
	defer tv.mut.Unlock()

	tv.cardOrder = nil
	tv.cards = make(map[string]common.CardView)
	tv.list.SelectedRow = 0
	tv.updateRows()
}

// RenderGraph replaces the plot of the graph target
func (tv *terminalView) RenderGraph(graph common.GraphView) {
	tv.mut.Lock()
	defer tv.mut.Unlock()

	pane, found := tv.panes[graph.Target]
	if !found {
		log.Trace("graph for unknown target ignored", "target", graph.Target)
		return
	}

	pane.view = graph
	title := fmt.Sprintf("%s: %s (%s)", graph.Target, graph.Metric, graph.Unit)
	pane.plot.Title = title
	pane.empty.Title = title
	pane.empty.Text = "waiting for samples"

	values := make([]float64, 0, len(graph.Samples))
	labels := make([]string, 0, len(graph.Samples))
	for _, sample := range graph.Samples {
		if sample.Value == nil {
			continue
		}
		values = append(values, *sample.Value)
		labels = append(labels, sample.Label)
	}
	pane.plot.Data = [][]float64{values}
	pane.plot.DataLabels = labels
	pane.plot.MaxVal = 0
	if maxValue(values) <= 0 {
		pane.plot.MaxVal = 1
	}

	tv.relayout()
}

func maxValue(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	result := values[0]
	for _, value := range values[1:] {
		if value > result {
			result = value
		}
	}

	return result
}

func cardRow(card common.CardView) string {
	row := fmt.Sprintf("%s: %s", card.Title, card.DisplayedValue)
	if len(card.DisplayedUnit) > 0 {
		row += " " + card.DisplayedUnit
	}
	if card.Frozen {
		row += " [frozen]"
	}

	return row
}

func (tv *terminalView) updateRows() {
	rows := make([]string, 0, len(tv.cardOrder))
	for _, key := range tv.cardOrder {
		rows = append(rows, cardRow(tv.cards[key]))
	}
	tv.list.Rows = rows
	if tv.list.SelectedRow >= len(rows) && len(rows) > 0 {
		tv.list.SelectedRow = len(rows) - 1
	}
	tv.dirty = true
}

func (tv *terminalView) updateStatus() {
	state := "live"
	if tv.controller.Paused() {
		state = "paused"
	}
	tv.status.Text = fmt.Sprintf("[%s] j/k select, f freeze, p pause, c clear, q quit", state)
	tv.dirty = true
}

func (tv *terminalView) relayout() {
	rows := make([]interface{}, 0, len(tv.targets))
	ratio := 1.0 / float64(len(tv.targets))
	for _, target := range tv.targets {
		pane := tv.panes[target]
		var drawable ui.Drawable = pane.empty
		if len(pane.plot.Data) > 0 && len(pane.plot.Data[0]) >= minPlotPoints {
			drawable = pane.plot
		}
		rows = append(rows, ui.NewRow(ratio, drawable))
	}

	tv.grid.Items = nil
	tv.grid.Set(
		ui.NewRow(0.9,
			ui.NewCol(cardsWidthRatio, tv.list),
			ui.NewCol(1-cardsWidthRatio, rows...),
		),
		ui.NewRow(0.1, tv.status),
	)
	tv.dirty = true
}

// handleKey applies one keyboard event. Returns true if the view should quit.
func (tv *terminalView) handleKey(id string) bool {
	switch id {
	case "q", "<C-c>":
		return true
	case "j", "<Down>":
		tv.mut.Lock()
		tv.list.ScrollDown()
		tv.dirty = true
		tv.mut.Unlock()
	case "k", "<Up>":
		tv.mut.Lock()
		tv.list.ScrollUp()
		tv.dirty = true
		tv.mut.Unlock()
	case "f":
		card, found := tv.selectedCard()
		if !found {
			return false
		}
		_, err := tv.controller.SetFrozen(card.Key, !card.Frozen)
		if err != nil {
			log.Debug("freeze toggle failed", "card", card.Title, "error", err)
		}
	case "p":
		tv.controller.SetPaused(!tv.controller.Paused())
		tv.mut.Lock()
		tv.updateStatus()
		tv.mut.Unlock()
	case "c":
		tv.controller.ClearView()
	}

	return false
}

func (tv *terminalView) selectedCard() (common.CardView, bool) {
	tv.mut.Lock()
	defer tv.mut.Unlock()

	if len(tv.cardOrder) == 0 {
		return common.CardView{}, false
	}

	idx := tv.list.SelectedRow
	if idx < 0 || idx >= len(tv.cardOrder) {
		return common.CardView{}, false
	}

	return tv.cards[tv.cardOrder[idx]], true
}

func (tv *terminalView) redraw(force bool) {
	tv.mut.Lock()
	defer tv.mut.Unlock()

	if !tv.dirty && !force {
		return
	}
	tv.dirty = false
	tv.draw(tv.grid)
}

// Run takes over the terminal until the context is done or the user quits
func (tv *terminalView) Run(ctx context.Context) error {
	err := ui.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize the terminal: %w", err)
	}
	defer ui.Close()

	tv.mut.Lock()
	width, height := ui.TerminalDimensions()
	tv.grid.SetRect(0, 0, width, height)
	tv.relayout()
	tv.mut.Unlock()
	tv.redraw(true)

	events := ui.PollEvents()
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			if e.Type == ui.ResizeEvent {
				payload := e.Payload.(ui.Resize)
				tv.mut.Lock()
				tv.grid.SetRect(0, 0, payload.Width, payload.Height)
				tv.mut.Unlock()
				ui.Clear()
				tv.redraw(true)
				continue
			}
			if tv.handleKey(e.ID) {
				return nil
			}
			tv.redraw(false)
		case <-ticker.C:
			tv.redraw(false)
		}
	}
}

// IsInterfaceNil returns true if the value under the interface is nil
func (tv *terminalView) IsInterfaceNil() bool {
	return tv == nil
}
