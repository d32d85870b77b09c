// Package tui implements the interactive repository view: the incremental
// file reveal, the stack analysis modal, and the continue workflow.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/repolens/repolens/internal/analysis"
	"github.com/repolens/repolens/internal/repo"
	"github.com/repolens/repolens/internal/tree"
)

// Lister fetches the complete file listing for a repository.
type Lister interface {
	AllFiles(ctx context.Context, repoID string) ([]string, error)
}

// Config wires the view's collaborators.
type Config struct {
	Repos  []repo.Repo
	Lister Lister
	Logger *zap.Logger
}

// activateMsg starts the fetch/reveal/analysis sequence for the current
// repository.
type activateMsg struct{}

// filesLoadedMsg delivers the fetch result, stamped with the activation it
// belongs to.
type filesLoadedMsg struct {
	activation int
	files      []string
	err        error
}

type revealTickMsg struct{ activation int }

type analysisReadyMsg struct{ activation int }

type spinnerTickMsg time.Time

// visibleNode pairs a tree node with its indentation depth for rendering.
type visibleNode struct {
	node  *tree.Node
	depth int
}

// Model drives one repository's reveal and analysis at a time.
type Model struct {
	lister Lister
	logger *zap.Logger
	keys   KeyMap

	repos   []repo.Repo
	current int

	// activation increases on every restart. Messages stamped with an older
	// value belong to a superseded sequence and are dropped on arrival.
	activation int

	fetching   bool
	files      []string
	visible    int
	root       *tree.Node
	filesError string

	modalOpen       bool
	analyzing       bool
	continueVisible bool
	summary         *analysis.Summary

	status     string
	spinnerIdx int

	cursor    int
	offset    int
	collapsed map[string]bool

	width  int
	height int
}

// New builds the initial model. The sequence starts when Init's message is
// processed.
func New(cfg Config) Model {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	repos := cfg.Repos
	if len(repos) == 0 {
		repos = []repo.Repo{{}}
	}
	return Model{
		lister:    cfg.Lister,
		logger:    logger,
		keys:      DefaultKeyMap(),
		repos:     repos,
		root:      tree.Build(nil),
		collapsed: make(map[string]bool),
		status:    "Starting...",
	}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg { return activateMsg{} }
}

func (m Model) fetchFilesCmd(activation int, target repo.Repo) tea.Cmd {
	return func() tea.Msg {
		files, err := m.lister.AllFiles(context.Background(), target.ID)
		return filesLoadedMsg{activation: activation, files: files, err: err}
	}
}

func revealTickCmd(activation int) tea.Cmd {
	return tea.Tick(revealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{activation: activation}
	})
}

func analysisDelayCmd(activation int) tea.Cmd {
	return tea.Tick(analysisDelay, func(time.Time) tea.Msg {
		return analysisReadyMsg{activation: activation}
	})
}

func spinnerTickCmd() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

// beginActivation supersedes any running sequence and starts the fetch for
// the current repository.
func (m *Model) beginActivation() tea.Cmd {
	m.activation++
	target := m.repos[m.current]
	m.fetching = true
	m.files = nil
	m.visible = 0
	m.root = tree.Build(nil)
	m.filesError = ""
	m.modalOpen = true
	m.analyzing = true
	m.continueVisible = false
	m.summary = nil
	m.cursor = 0
	m.offset = 0
	m.collapsed = make(map[string]bool)
	m.status = fmt.Sprintf("Loading file list for %s...", target.Label())
	m.logger.Info("analysis started",
		zap.Int("activation", m.activation),
		zap.String("repository", target.Label()))
	return tea.Batch(m.fetchFilesCmd(m.activation, target), spinnerTickCmd())
}

func (m Model) busy() bool {
	if m.filesError != "" {
		return false
	}
	return m.fetching || m.analyzing || m.visible < len(m.files)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activateMsg:
		cmd := m.beginActivation()
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case filesLoadedMsg:
		return m.updateFilesLoaded(msg)
	case revealTickMsg:
		return m.updateRevealTick(msg)
	case analysisReadyMsg:
		return m.updateAnalysisReady(msg)
	case spinnerTickMsg:
		if m.busy() {
			m.spinnerIdx = (m.spinnerIdx + 1) % len(spinnerFrames)
			return m, spinnerTickCmd()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateFilesLoaded(msg filesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.activation != m.activation {
		m.logger.Debug("stale listing discarded", zap.Int("activation", msg.activation))
		return m, nil
	}
	m.fetching = false
	if msg.err != nil {
		m.filesError = msg.err.Error()
		m.modalOpen = false
		m.analyzing = false
		m.continueVisible = false
		m.status = "File listing failed"
		m.logger.Warn("file listing failed",
			zap.Int("activation", msg.activation),
			zap.Error(msg.err))
		return m, nil
	}
	m.files = msg.files
	m.visible = 0
	m.root = tree.Build(nil)
	if len(m.files) == 0 {
		m.status = "Repository has no files"
		return m, analysisDelayCmd(m.activation)
	}
	m.status = fmt.Sprintf("Revealing files... (0/%d)", len(m.files))
	return m, tea.Batch(revealTickCmd(m.activation), analysisDelayCmd(m.activation))
}

func (m Model) updateRevealTick(msg revealTickMsg) (tea.Model, tea.Cmd) {
	if msg.activation != m.activation || m.visible >= len(m.files) {
		return m, nil
	}
	m.visible++
	m.root = tree.Build(m.files[:m.visible])
	m.clampCursor()
	if m.visible < len(m.files) {
		m.status = fmt.Sprintf("Revealing files... (%d/%d)", m.visible, len(m.files))
		return m, revealTickCmd(m.activation)
	}
	m.status = fmt.Sprintf("%d files revealed", len(m.files))
	return m, nil
}

func (m Model) updateAnalysisReady(msg analysisReadyMsg) (tea.Model, tea.Cmd) {
	if msg.activation != m.activation {
		return m, nil
	}
	summary := analysis.Summarize(m.repos[m.current].Label(), m.files)
	m.summary = &summary
	m.analyzing = false
	m.logger.Info("analysis ready",
		zap.Int("activation", msg.activation),
		zap.Int("files", summary.TotalFiles),
		zap.String("fingerprint", fmt.Sprintf("%016x", summary.Fingerprint)))
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.NextRepo) {
		if len(m.repos) > 1 {
			m.current = (m.current + 1) % len(m.repos)
			cmd := m.beginActivation()
			return m, cmd
		}
		return m, nil
	}
	if m.modalOpen {
		return m.updateModalKey(msg)
	}
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Toggle):
		m.toggleFold()
	case key.Matches(msg, m.keys.Continue):
		if m.continueVisible {
			m.modalOpen = true
			m.continueVisible = false
			m.status = fmt.Sprintf("%d files revealed", m.visible)
		}
	case key.Matches(msg, m.keys.Retry):
		if m.filesError != "" {
			cmd := m.beginActivation()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Cancel):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		// Dismissal is blocked while the analysis is pending.
		if !m.analyzing {
			m.modalOpen = false
			m.continueVisible = true
			m.status = "Analysis dismissed"
		}
	case key.Matches(msg, m.keys.Generate):
		if !m.analyzing {
			m.modalOpen = false
			m.continueVisible = false
			m.status = fmt.Sprintf("CI generation requested for %s", m.repos[m.current].Label())
			m.logger.Info("ci generation requested",
				zap.String("repository", m.repos[m.current].Label()))
		}
	}
	return m, nil
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if !m.modalOpen {
			m.cursor--
			m.clampCursor()
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if !m.modalOpen {
			m.cursor++
			m.clampCursor()
		}
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if !m.modalOpen || m.analyzing {
		return m, nil
	}
	// Clicks inside the modal never dismiss it.
	if m.modalBounds().contains(msg.X, msg.Y) {
		return m, nil
	}
	m.modalOpen = false
	m.continueVisible = true
	m.status = "Analysis dismissed"
	return m, nil
}

func (m Model) visibleNodes() []visibleNode {
	var nodes []visibleNode
	var walk func(parent *tree.Node, depth int)
	walk = func(parent *tree.Node, depth int) {
		for _, child := range parent.Children {
			nodes = append(nodes, visibleNode{node: child, depth: depth})
			if len(child.Children) > 0 && !m.collapsed[child.Path] {
				walk(child, depth+1)
			}
		}
	}
	walk(m.root, 0)
	return nodes
}

func (m *Model) toggleFold() {
	nodes := m.visibleNodes()
	if m.cursor < 0 || m.cursor >= len(nodes) {
		return
	}
	target := nodes[m.cursor].node
	if len(target.Children) == 0 {
		return
	}
	if m.collapsed[target.Path] {
		delete(m.collapsed, target.Path)
	} else {
		m.collapsed[target.Path] = true
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	total := len(m.visibleNodes())
	if total == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= total {
		m.cursor = total - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	rows := m.contentHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) contentHeight() int {
	rows := m.height - headerHeight - footerHeight
	if rows < minContentHeight {
		rows = minContentHeight
	}
	return rows
}
