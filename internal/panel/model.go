// Interactive control panel for the radar-simulation engine
package panel

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"gmti-panel/internal/config"
	"gmti-panel/internal/engine"
	"gmti-panel/internal/remote"
	"gmti-panel/internal/scenario"
)

const (
	maxLogLines = 1000
	noFocus     = -1
)

const (
	fieldTaps = iota
	fieldRangeBins
	fieldDopplerBins
	fieldFrequency
	fieldNoise
	fieldSeed
	fieldCount
)

var fieldLabels = [fieldCount]string{"taps", "range_bins", "doppler_bins", "frequency", "noise", "seed"}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Model is the bubbletea model for the control panel. Engine output and
// polled snapshots arrive as messages sent by TUIWriter; key presses drive
// the supervisor and the remote client directly.
type Model struct {
	cfg    *config.PanelConfig
	sup    *engine.Supervisor
	client *remote.Client
	poller *remote.Poller

	params scenario.Params
	inputs [fieldCount]textinput.Model
	focus  int

	scenarios    []scenario.File
	scenarioIdx  int
	scenarioName string
	scenarioDesc string

	profile    []float64
	detections int
	haveData   bool

	logs       []string
	vp         viewport.Model
	autoscroll bool
	wrap       bool
	help       bool

	width  int
	height int
	now    func() time.Time
}

// New builds the panel model. poller may be nil when snapshot recording is
// not wired, for example in tests.
func New(cfg *config.PanelConfig, sup *engine.Supervisor, client *remote.Client, poller *remote.Poller) Model {
	m := Model{
		cfg:        cfg,
		sup:        sup,
		client:     client,
		poller:     poller,
		params:     scenario.Defaults(),
		focus:      noFocus,
		vp:         viewport.New(0, 0),
		autoscroll: true,
		now:        time.Now,
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 24
		ti.Width = 10
		m.inputs[i] = ti
	}
	m.setInputsFromParams()

	dir := filepath.Join(cfg.ProjectRoot, cfg.ScenarioDir)
	files, err := scenario.List(dir)
	if err != nil {
		m.appendLog(err.Error())
	} else if len(files) == 0 {
		m.appendLog(fmt.Sprintf("no scenario files in %s", dir))
	} else {
		m.scenarios = files
		// First l press selects the first file.
		m.scenarioIdx = -1
		m.appendLog(fmt.Sprintf("%d scenario files in %s", len(files), dir))
	}
	m.appendLog("press h for key bindings")
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case snapshotMsg:
		m.profile = msg.row.PowerProfile
		m.detections = msg.row.DetectionCount
		m.haveData = true
	case engineLogMsg:
		m.appendLog(msg.line)
	case engineExitMsg:
		// State is read live from the supervisor; the message only forces a
		// redraw so the footer indicator flips without waiting for input.
	case submitMsg:
		if msg.err != nil {
			m.appendLog(fmt.Sprintf("run failed: %v", msg.err))
			break
		}
		line := fmt.Sprintf("run accepted: status=%s detections=%d", msg.res.Status, msg.res.Detections)
		if msg.res.Description != "" {
			line += " " + msg.res.Description
		}
		m.appendLog(line)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help {
		switch msg.String() {
		case "h", "?", "esc", "q":
			m.help = false
			m.updateViewportHeight()
		}
		return m, nil
	}

	// While a parameter field is focused, everything except focus movement
	// goes to the input.
	if m.focus != noFocus {
		switch msg.String() {
		case "tab", "enter":
			m.commitField(m.focus)
			m.setFocus(m.focus + 1)
		case "shift+tab":
			m.commitField(m.focus)
			m.setFocus(m.focus - 1)
		case "esc":
			m.commitField(m.focus)
			m.setFocus(noFocus)
		default:
			var cmd tea.Cmd
			m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.setFocus(0)
	case "S":
		m.sup.Start()
	case "K":
		sup := m.sup
		return m, func() tea.Msg {
			sup.Stop()
			return engineExitMsg{}
		}
	case "r":
		return m.runScenario()
	case "l":
		m.cycleScenario(1)
	case "L":
		m.cycleScenario(-1)
	case "s":
		m.autoscroll = !m.autoscroll
		if m.autoscroll {
			m.vp.GotoBottom()
		}
	case "w":
		m.wrap = !m.wrap
		m.refreshViewport()
	case "h", "?":
		m.help = true
	default:
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
	}
	return m, nil
}

// runScenario submits the current parameters. Submission is refused when the
// engine is not running.
func (m Model) runScenario() (tea.Model, tea.Cmd) {
	if m.sup == nil || m.sup.State() != engine.Running {
		m.appendLog("engine is not running; press S to start it first")
		return m, nil
	}
	params, err := m.paramsFromInputs()
	if err != nil {
		m.appendLog("invalid parameters: " + err.Error())
		return m, nil
	}
	if err := params.Validate(); err != nil {
		m.appendLog("invalid parameters: " + err.Error())
		return m, nil
	}
	m.params = params
	params.Scenario = m.scenarioName
	params.Description = m.scenarioDesc
	m.appendLog(fmt.Sprintf("submitting taps=%d range_bins=%d doppler_bins=%d frequency=%g noise=%g seed=%d",
		params.Taps, params.RangeBins, params.DopplerBins, params.Frequency, params.Noise, params.Seed))
	client := m.client
	return m, func() tea.Msg {
		res, err := client.Submit(context.Background(), params)
		return submitMsg{res: res, err: err}
	}
}

// cycleScenario selects the next or previous scenario file and loads it over
// the current parameter values.
func (m *Model) cycleScenario(step int) {
	if len(m.scenarios) == 0 {
		m.appendLog("no scenario files to cycle through")
		return
	}
	m.scenarioIdx = (m.scenarioIdx + step + len(m.scenarios)) % len(m.scenarios)
	file := m.scenarios[m.scenarioIdx]

	params, found, err := scenario.LoadFile(file.Path, m.params)
	if err != nil {
		m.appendLog(fmt.Sprintf("load %s: %v", file.Name, err))
		return
	}
	m.params = params
	m.scenarioName = params.Scenario
	m.scenarioDesc = params.Description
	m.setInputsFromParams()
	if m.poller != nil {
		m.poller.SetLabel(params.Scenario)
	}
	m.appendLog(fmt.Sprintf("loaded scenario %s (%d fields)", params.Scenario, len(found)))
}

func (m *Model) setFocus(idx int) {
	if idx >= fieldCount {
		idx = noFocus
	}
	if idx < noFocus {
		idx = fieldCount - 1
	}
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = idx
	if idx != noFocus {
		m.inputs[idx].Focus()
		m.inputs[idx].CursorEnd()
	}
}

// commitField parses one input back into params; unparsable text reverts to
// the last good value.
func (m *Model) commitField(idx int) {
	val := strings.TrimSpace(m.inputs[idx].Value())
	var err error
	switch idx {
	case fieldTaps:
		m.params.Taps, err = strconv.Atoi(val)
	case fieldRangeBins:
		m.params.RangeBins, err = strconv.Atoi(val)
	case fieldDopplerBins:
		m.params.DopplerBins, err = strconv.Atoi(val)
	case fieldFrequency:
		m.params.Frequency, err = strconv.ParseFloat(val, 64)
	case fieldNoise:
		m.params.Noise, err = strconv.ParseFloat(val, 64)
	case fieldSeed:
		m.params.Seed, err = strconv.ParseUint(val, 10, 64)
	}
	if err != nil {
		m.appendLog(fmt.Sprintf("%s: %q is not a valid value", fieldLabels[idx], val))
		m.setInputsFromParams()
	}
}

func (m *Model) paramsFromInputs() (scenario.Params, error) {
	p := m.params
	var err error
	if p.Taps, err = strconv.Atoi(strings.TrimSpace(m.inputs[fieldTaps].Value())); err != nil {
		return p, fmt.Errorf("taps: %w", err)
	}
	if p.RangeBins, err = strconv.Atoi(strings.TrimSpace(m.inputs[fieldRangeBins].Value())); err != nil {
		return p, fmt.Errorf("range_bins: %w", err)
	}
	if p.DopplerBins, err = strconv.Atoi(strings.TrimSpace(m.inputs[fieldDopplerBins].Value())); err != nil {
		return p, fmt.Errorf("doppler_bins: %w", err)
	}
	if p.Frequency, err = strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldFrequency].Value()), 64); err != nil {
		return p, fmt.Errorf("frequency: %w", err)
	}
	if p.Noise, err = strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldNoise].Value()), 64); err != nil {
		return p, fmt.Errorf("noise: %w", err)
	}
	if p.Seed, err = strconv.ParseUint(strings.TrimSpace(m.inputs[fieldSeed].Value()), 10, 64); err != nil {
		return p, fmt.Errorf("seed: %w", err)
	}
	return p, nil
}

func (m *Model) setInputsFromParams() {
	m.inputs[fieldTaps].SetValue(strconv.Itoa(m.params.Taps))
	m.inputs[fieldRangeBins].SetValue(strconv.Itoa(m.params.RangeBins))
	m.inputs[fieldDopplerBins].SetValue(strconv.Itoa(m.params.DopplerBins))
	m.inputs[fieldFrequency].SetValue(strconv.FormatFloat(m.params.Frequency, 'g', -1, 64))
	m.inputs[fieldNoise].SetValue(strconv.FormatFloat(m.params.Noise, 'g', -1, 64))
	m.inputs[fieldSeed].SetValue(strconv.FormatUint(m.params.Seed, 10))
}

func (m *Model) appendLog(text string) {
	line := fmt.Sprintf("%s[%s]%s %s", colorGray, m.now().Format("15:04:05"), colorReset, text)
	m.logs = append(m.logs, line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap && m.vp.Width > 0 {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m Model) chartHeight() int {
	h := m.height / 3
	if h < 5 {
		h = 5
	}
	if h > 12 {
		h = 12
	}
	return h
}

func (m *Model) updateViewportHeight() {
	headerHeight := lipgloss.Height(m.renderHeader())
	footerHeight := lipgloss.Height(m.renderFooter())
	// header, chart, log heading and footer plus three dividers
	h := m.height - headerHeight - m.chartHeight() - footerHeight - 4
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m Model) View() string {
	if m.help {
		return m.renderHelp()
	}
	width := m.width
	if width < 20 {
		width = 20
	}
	var profile []float64
	if m.haveData {
		profile = m.profile
	}
	divider := strings.Repeat("─", width)
	sections := []string{
		m.renderHeader(),
		divider,
		RenderChart(profile, m.detections, width, m.chartHeight()),
		divider,
		"Engine Log:",
		m.vp.View(),
		divider,
		m.renderFooter(),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("GMTI Control Panel")
	name := m.scenarioName
	if name == "" {
		name = "defaults"
	}
	scenarioLine := fmt.Sprintf("Scenario: %s", name)
	if m.scenarioDesc != "" {
		scenarioLine += fmt.Sprintf(" (%s)", m.scenarioDesc)
	}

	parts := make([]string, 0, fieldCount)
	for i, in := range m.inputs {
		parts = append(parts, labelStyle.Render(fieldLabels[i]+"=")+in.View())
	}
	paramsLine := strings.Join(parts, "  ")
	return strings.Join([]string{title, scenarioLine, paramsLine}, "\n")
}

func (m Model) renderFooter() string {
	stateColor := colorRed
	switch m.sup.State() {
	case engine.Running:
		stateColor = colorGreen
	case engine.Starting:
		stateColor = colorYellow
	}
	state := fmt.Sprintf("Engine: %s%s%s", stateColor, m.sup.State(), colorReset)

	dataColor := lipgloss.Color("9")
	if m.haveData {
		dataColor = lipgloss.Color("10")
	}
	wrapColor := lipgloss.Color("9")
	if m.wrap {
		wrapColor = lipgloss.Color("10")
	}
	scrollColor := lipgloss.Color("10")
	if !m.autoscroll {
		scrollColor = lipgloss.Color("9")
	}
	dataIndicator := lipgloss.NewStyle().Foreground(dataColor).Render("●")
	wrapIndicator := lipgloss.NewStyle().Foreground(wrapColor).Render("●")
	scrollIndicator := lipgloss.NewStyle().Foreground(scrollColor).Render("●")
	return fmt.Sprintf("%s | Data %s | Wrap %s | Scroll %s | h help | q quit", state, dataIndicator, wrapIndicator, scrollIndicator)
}

func (m Model) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" tab       edit parameters (tab/shift+tab move, esc done)",
		" S         start the engine",
		" K         stop the engine",
		" r         run the current configuration",
		" l / L     next / previous scenario preset",
		" s         toggle auto-scroll",
		" w         toggle log wrapping",
		" h/?       toggle this help view",
		" q         quit",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
