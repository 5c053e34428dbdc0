package tui

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"qubsim/circuit"
	"qubsim/sim"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
)

const (
	defaultQubits   = 2
	defaultShots    = 1024
	defaultSavePath = "circuit.qasm"
)

type options struct {
	runner   *sim.Runner
	logger   *zap.Logger
	qubits   int
	shots    int
	seed     *uint64
	savePath string
}

// Option configures the editor Model.
type Option func(*options)

// WithRunner sets the Runner used for the run key. By default a Runner with
// default settings and the configured logger is used.
func WithRunner(r *sim.Runner) Option {
	return func(o *options) { o.runner = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithQubits sets the starting register size. It is clamped to the editor
// bounds.
func WithQubits(n int) Option {
	return func(o *options) { o.qubits = n }
}

func WithShots(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shots = n
		}
	}
}

// WithSeed fixes the sampling seed of every run.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithSavePath sets where Ctrl+S writes the QASM.
func WithSavePath(path string) Option {
	return func(o *options) { o.savePath = path }
}

// results is one finished run as shown in the results panel.
type results struct {
	numQubits int
	ops       string
	shots     int
	seed      uint64
	counts    sim.Counts
	qubits    []sim.QubitProbability
	elapsed   time.Duration
}

// runFinishedMsg carries a run back into Update. seq identifies the run so
// late results of a superseded run are dropped.
type runFinishedMsg struct {
	seq int
	res *results
	err error
}

// Model represents the TUI application state.
type Model struct {
	circuit   *circuit.Circuit
	runner    *sim.Runner
	logger    *zap.Logger
	shots     int
	seed      *uint64
	savePath  string
	maxQubits int

	cursorQubit int
	cursorStep  int
	width       int
	height      int
	qasmEditor  textarea.Model
	focus       focus
	lastQASM    string
	qasmErr     error
	statusMsg   string // transient status message (e.g. save confirmation)

	// Menu state
	menuCat  int
	menuItem int

	// Target selection for controlled gates; the cursor qubit is the control
	pendingKind sim.Kind
	targetQubit int

	// Run state. Results of the last successful run stay visible when a
	// later run fails.
	running   bool
	runSeq    int
	cancelRun context.CancelFunc
	results   *results
	runErr    error
}

// New returns the editor model.
func New(opts ...Option) Model {
	o := options{
		qubits:   defaultQubits,
		shots:    defaultShots,
		savePath: defaultSavePath,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.runner == nil {
		o.runner = sim.NewRunner(sim.WithLogger(o.logger))
	}
	maxQubits := min(circuit.MaxEditorQubits, o.runner.MaxQubits())

	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	m := Model{
		circuit:    circuit.New(max(1, min(o.qubits, maxQubits))),
		runner:     o.runner,
		logger:     o.logger,
		shots:      o.shots,
		seed:       o.seed,
		savePath:   o.savePath,
		maxQubits:  maxQubits,
		qasmEditor: ta,
		focus:      focusCircuit,
	}
	m.syncFromCircuit()
	return m
}

func (m *Model) syncFromCircuit() {
	qasm := m.circuit.ToQASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm
	m.qasmErr = nil
}

// parseQASMInput replaces the circuit when the editor holds valid QASM. On
// a parse error the circuit is kept and the error is shown in the panel.
func (m *Model) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	m.lastQASM = qasm

	c, err := circuit.ParseQASM(qasm)
	if err == nil && (c.NumQubits < 1 || c.NumQubits > m.maxQubits) {
		err = errors.Errorf("qreg size must be in [1, %d], got %d", m.maxQubits, c.NumQubits)
	}
	if err != nil {
		m.qasmErr = err
		return
	}
	m.qasmErr = nil
	m.circuit = c
	m.cursorQubit = min(m.cursorQubit, c.NumQubits-1)
}

// placePending builds the pending gate at the cursor. target is only used
// by controlled gates, whose control is the cursor qubit.
func (m *Model) placePending(target int) bool {
	var (
		g   sim.Gate
		err error
	)
	if m.pendingKind.Controlled() {
		g, err = sim.NewGate(m.pendingKind, target, m.cursorQubit)
	} else {
		g, err = sim.NewGate(m.pendingKind, m.cursorQubit)
	}
	m.pendingKind = 0
	if err != nil {
		m.statusMsg = err.Error()
		return false
	}
	return m.placeGate(g)
}

// placeGate places g at the cursor step, replacing gates on its qubits.
// Returns false if another gate's wire blocks the slot.
func (m *Model) placeGate(g sim.Gate) bool {
	saved, savedSteps := slices.Clone(m.circuit.Gates), m.circuit.MaxSteps
	for _, q := range g.Qubits() {
		m.circuit.RemoveAt(m.cursorStep, q)
	}
	if err := m.circuit.Add(g, m.cursorStep); err != nil {
		m.circuit.Gates, m.circuit.MaxSteps = saved, savedSteps
		m.statusMsg = "Cannot place: qubit already used by another gate at this step"
		return false
	}

	m.cursorStep++
	m.syncFromCircuit()
	return true
}

// startRun snapshots the circuit and returns the command executing it.
func (m *Model) startRun() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.runSeq++
	m.running = true
	m.cancelRun = cancel

	var (
		seq    = m.runSeq
		runner = m.runner
		n      = m.circuit.NumQubits
		ops    = m.circuit.Operations()
		shots  = m.shots
		seed   = rand.Uint64()
	)
	if m.seed != nil {
		seed = *m.seed
	}

	return func() tea.Msg {
		defer cancel()
		start := time.Now()

		counts, state, err := runner.RunState(ctx, n, ops, shots, sim.WithSeed(seed))
		if err != nil {
			return runFinishedMsg{seq: seq, err: err}
		}
		return runFinishedMsg{seq: seq, res: &results{
			numQubits: n,
			ops:       circuit.FormatOps(ops),
			shots:     shots,
			seed:      seed,
			counts:    counts,
			qubits:    state.QubitProbabilities(),
			elapsed:   time.Since(start),
		}}
	}
}

func (m *Model) stopRun() {
	if m.cancelRun != nil {
		m.cancelRun()
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmEditor.SetWidth(qasmW)
		circH := msg.Height - controlsHeight - resultsHeight - 2
		m.qasmEditor.SetHeight(max(circH-8, 4))

	case runFinishedMsg:
		if msg.seq != m.runSeq {
			break
		}
		m.running = false
		m.cancelRun = nil
		switch {
		case errors.Is(msg.err, context.Canceled):
			m.statusMsg = "Run cancelled"
		case msg.err != nil:
			m.runErr = msg.err
		default:
			m.results = msg.res
			m.runErr = nil
			m.logger.Debug("editor run finished",
				zap.Int("outcomes", len(msg.res.counts)),
				zap.Duration("elapsed", msg.res.elapsed),
			)
		}

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			m.stopRun()
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				m.stopRun()
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "r":
				if !m.running {
					cmds = append(cmds, m.startRun())
				}
			case "esc":
				if m.running {
					m.stopRun()
				}
			case "ctrl+r":
				m.circuit.Clear()
				m.cursorStep = 0
				m.syncFromCircuit()
			case "ctrl+s":
				if err := os.WriteFile(m.savePath, []byte(m.circuit.ToQASM()), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved " + m.savePath
					m.logger.Info("saved circuit", zap.String("path", m.savePath))
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circuit.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				m.cursorStep++
			case "+", "=":
				if m.circuit.NumQubits < m.maxQubits {
					m.circuit.SetNumQubits(m.circuit.NumQubits + 1)
					m.syncFromCircuit()
				}
			case "-":
				if m.circuit.NumQubits > 1 {
					m.circuit.SetNumQubits(m.circuit.NumQubits - 1)
					m.cursorQubit = min(m.cursorQubit, m.circuit.NumQubits-1)
					m.syncFromCircuit()
				}
			case "a":
				m.focus = focusMenu
				m.menuCat = 0
				m.menuItem = 0
			case "backspace", "delete":
				m.circuit.RemoveAt(m.cursorStep, m.cursorQubit)
				m.syncFromCircuit()
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuItem > 0 {
					m.menuItem--
				}
			case "down", "j":
				if m.menuItem < len(gateMenu[m.menuCat].items)-1 {
					m.menuItem++
				}
			case "left", "h":
				if m.menuCat > 0 {
					m.menuCat--
					m.menuItem = 0
				}
			case "right", "l":
				if m.menuCat < len(gateMenu)-1 {
					m.menuCat++
					m.menuItem = 0
				}
			case "enter":
				item := m.selectedMenuItem()
				m.pendingKind = item.kind

				if !item.needsTarget() {
					if m.placePending(-1) {
						m.focus = focusCircuit
					}
					break
				}
				if m.circuit.NumQubits < 2 {
					m.statusMsg = fmt.Sprintf("%s needs at least two qubits", item.kind)
					m.pendingKind = 0
					m.focus = focusCircuit
					break
				}
				m.focus = focusSelectTarget
				m.targetQubit = m.cursorQubit + 1
				if m.targetQubit >= m.circuit.NumQubits {
					m.targetQubit = m.cursorQubit - 1
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
				m.pendingKind = 0
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.circuit.NumQubits; next++ {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				m.placePending(m.targetQubit)
				m.focus = focusCircuit
			}

		case focusQASM:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	circuitHeight := max(m.height-controlsHeight-resultsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, circuitHeight)
	resultsPanel := m.renderResultsPanel(m.width-4, resultsHeight-2)
	controlsPanel := m.renderControlsPanel(m.width-4, controlsHeight-2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, resultsPanel, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}
	return frame
}

// Run starts the interactive editor on the terminal and blocks until the
// user quits.
func Run(ctx context.Context, opts ...Option) error {
	p := tea.NewProgram(New(opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return errors.Wrap(err, "run editor")
}
