package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/repolens/repolens/internal/analysis"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	var view strings.Builder
	m.writeHeader(&view)
	switch {
	case m.filesError != "":
		m.writeCentered(&view, m.errorView())
	case m.modalOpen:
		m.writeCentered(&view, m.modalView())
	default:
		m.writeTree(&view)
	}
	view.WriteString("\n")
	view.WriteString(helpStyle.Render(m.helpLine()))
	return view.String()
}

// writeHeader emits exactly headerHeight rows: title, status, one blank.
func (m Model) writeHeader(view *strings.Builder) {
	target := m.repos[m.current]
	position := ""
	if len(m.repos) > 1 {
		position = dimStyle.Render(fmt.Sprintf("  %d/%d", m.current+1, len(m.repos)))
	}
	fmt.Fprintf(view, "  %s  %s%s\n", titleStyle.Render("repolens"), labelStyle.Render(target.Label()), position)

	status := m.status
	if m.busy() {
		status = spinnerFrames[m.spinnerIdx] + " " + status
	}
	fmt.Fprintf(view, "  %s\n\n", statusStyle.Render(status))
}

func (m Model) writeTree(view *strings.Builder) {
	nodes := m.visibleNodes()
	rows := m.contentHeight()
	placeholder := "  no files revealed yet"
	if !m.fetching && len(m.files) == 0 {
		placeholder = "  repository has no files"
	}
	for row := 0; row < rows; row++ {
		index := m.offset + row
		switch {
		case len(nodes) == 0 && row == 0:
			view.WriteString(dimStyle.Render(placeholder))
		case index < len(nodes):
			view.WriteString(m.renderNodeLine(nodes[index], index == m.cursor))
		}
		view.WriteString("\n")
	}
}

func (m Model) renderNodeLine(item visibleNode, selected bool) string {
	prefix := "  "
	if selected {
		prefix = cursorStyle.Render("▶ ")
	}
	indent := strings.Repeat("  ", item.depth)
	glyph := "  "
	if item.node.IsDir() || len(item.node.Children) > 0 {
		if m.collapsed[item.node.Path] {
			glyph = "▸ "
		} else {
			glyph = "▾ "
		}
	}
	name := item.node.Name
	if item.node.IsDir() {
		name += "/"
	}
	name = truncateName(name, m.width-len(indent)-6)
	if item.node.IsDir() {
		name = dirStyle.Render(name)
	} else {
		name = fileStyle.Render(name)
	}
	return prefix + indent + glyph + name
}

func truncateName(name string, max int) string {
	if max < 4 {
		return name
	}
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max-2]) + ".."
}

// writeCentered fills the content area with the box centered in it, emitting
// exactly contentHeight rows. modalBounds relies on the same arithmetic.
func (m Model) writeCentered(view *strings.Builder, box string) {
	rows := m.contentHeight()
	lines := strings.Split(box, "\n")
	topPad := (rows - len(lines)) / 2
	if topPad < 0 {
		topPad = 0
	}
	leftPad := (m.width - lipgloss.Width(box)) / 2
	if leftPad < 0 {
		leftPad = 0
	}
	row := 0
	for ; row < topPad; row++ {
		view.WriteString("\n")
	}
	for _, line := range lines {
		if row >= rows {
			break
		}
		view.WriteString(strings.Repeat(" ", leftPad) + line + "\n")
		row++
	}
	for ; row < rows; row++ {
		view.WriteString("\n")
	}
}

type rect struct {
	left, top, right, bottom int
}

func (r rect) contains(x, y int) bool {
	return x >= r.left && x < r.right && y >= r.top && y < r.bottom
}

// modalBounds returns the screen rectangle writeCentered gives the modal.
func (m Model) modalBounds() rect {
	box := m.modalView()
	boxWidth := lipgloss.Width(box)
	boxHeight := lipgloss.Height(box)
	rows := m.contentHeight()
	left := (m.width - boxWidth) / 2
	if left < 0 {
		left = 0
	}
	top := headerHeight + (rows-boxHeight)/2
	if top < headerHeight {
		top = headerHeight
	}
	bottom := top + boxHeight
	if bottom > headerHeight+rows {
		bottom = headerHeight + rows
	}
	return rect{left: left, top: top, right: left + boxWidth, bottom: bottom}
}

func (m Model) boxWidth() int {
	width := modalWidth
	if width > m.width-4 {
		width = m.width - 4
	}
	if width < 20 {
		width = 20
	}
	return width
}

func (m Model) modalView() string {
	if m.analyzing || m.summary == nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			modalTitleStyle.Render("Stack Analysis"),
			dimStyle.Render(m.repos[m.current].Label()),
			"",
			spinnerFrames[m.spinnerIdx]+" Analyzing repository stack...",
		)
		return modalStyle.Width(m.boxWidth()).Render(content)
	}
	return modalStyle.Width(m.boxWidth()).Render(m.summaryContent())
}

func (m Model) summaryContent() string {
	summary := m.summary
	lines := []string{
		modalTitleStyle.Render("Stack Analysis"),
		dimStyle.Render(summary.RepoLabel),
		"",
		fmt.Sprintf("%d files  %s", summary.TotalFiles,
			dimStyle.Render(fmt.Sprintf("digest %016x", summary.Fingerprint))),
		"",
	}
	counts := summary.Counts()
	shown := counts
	if len(shown) > modalMaxExtensionRows {
		shown = shown[:modalMaxExtensionRows]
	}
	for _, entry := range shown {
		lines = append(lines, extensionRow(entry, summary.TotalFiles))
	}
	if hidden := len(counts) - len(shown); hidden > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("+%d more", hidden)))
	}
	if len(counts) == 0 {
		lines = append(lines, dimStyle.Render("no files to analyze"))
	}
	lines = append(lines, "", helpStyle.Render(helpEntry(m.keys.Generate)+" • "+helpEntry(m.keys.Cancel)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func extensionRow(entry analysis.ExtensionCount, total int) string {
	percent := 0.0
	if total > 0 {
		percent = float64(entry.Count) / float64(total) * 100
	}
	filled := 0
	if total > 0 {
		filled = int(float64(modalBarWidth)*float64(entry.Count)/float64(total) + 0.5)
	}
	if filled > modalBarWidth {
		filled = modalBarWidth
	}
	bar := barStyle(percent).Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", modalBarWidth-filled))
	return fmt.Sprintf("%-10s %s %3d %5.1f%%", entry.Extension, bar, entry.Count, percent)
}

func barStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 50:
		return barHighStyle
	case percent >= 20:
		return barMidStyle
	default:
		return barLowStyle
	}
}

func (m Model) errorView() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		errorTitleStyle.Render("File listing failed"),
		"",
		m.filesError,
		"",
		dimStyle.Render(helpEntry(m.keys.Retry)),
	)
	return errorBoxStyle.Width(m.boxWidth()).Render(content)
}

func helpEntry(binding key.Binding) string {
	help := binding.Help()
	return help.Key + " " + help.Desc
}

func (m Model) helpLine() string {
	var parts []string
	switch {
	case m.filesError != "":
		parts = append(parts, helpEntry(m.keys.Retry))
	case m.modalOpen:
		if !m.analyzing {
			parts = append(parts, helpEntry(m.keys.Generate), helpEntry(m.keys.Cancel))
		}
	default:
		parts = append(parts, "↑/↓ move", helpEntry(m.keys.Toggle))
		if m.continueVisible {
			parts = append(parts, helpEntry(m.keys.Continue))
		}
	}
	if len(m.repos) > 1 {
		parts = append(parts, helpEntry(m.keys.NextRepo))
	}
	parts = append(parts, helpEntry(m.keys.Quit))
	return "  " + strings.Join(parts, " • ")
}
