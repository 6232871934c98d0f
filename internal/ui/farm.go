package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yotip/homestead/internal/profile"
)

// placement is an object's cell on the rendered canvas.
type placement struct {
	ID    string
	Label string
	Row   int
	Col   int
}

// objectLabel is the text drawn for an object kind.
func objectLabel(kind string) string {
	switch kind {
	case "dog":
		return "(U^w^)"
	case "cat":
		return "=^.^="
	case "house":
		return "[/\\_]"
	default:
		return "[" + truncate(kind, 8) + "]"
	}
}

// layoutCanvas maps percentage positions onto a width x height grid. Labels
// never run past the right edge; objects that would overlap on a row are
// pushed right in list order.
func layoutCanvas(objects []profile.DecorativeObject, width, height int) []placement {
	if width <= 0 || height <= 0 {
		return nil
	}
	out := make([]placement, 0, len(objects))
	for _, o := range objects {
		label := objectLabel(o.Kind)
		pos := profile.ClampPosition(o.Position)
		span := maxInt(width-lipgloss.Width(label), 0)
		out = append(out, placement{
			ID:    o.ID,
			Label: label,
			Row:   int(math.Round(pos.Top / 100 * float64(height-1))),
			Col:   int(math.Round(pos.Left / 100 * float64(span))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})

	cursor, row := 0, -1
	for i := range out {
		if out[i].Row != row {
			row, cursor = out[i].Row, 0
		}
		if out[i].Col < cursor {
			out[i].Col = cursor
		}
		cursor = out[i].Col + lipgloss.Width(out[i].Label) + 1
	}
	return out
}

// handleFarmKey selects and moves objects on the canvas.
func (m Model) handleFarmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	objs := m.snapshot.Profile.Objects
	if len(objs) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextObject):
		m.selectObject(1)
	case key.Matches(msg, m.keys.PrevObject):
		m.selectObject(-1)
	case key.Matches(msg, m.keys.Up):
		m.nudge(-nudgeStep, 0)
	case key.Matches(msg, m.keys.Down):
		m.nudge(nudgeStep, 0)
	case key.Matches(msg, m.keys.Left):
		m.nudge(0, -nudgeStep)
	case key.Matches(msg, m.keys.Right):
		m.nudge(0, nudgeStep)
	case key.Matches(msg, m.keys.BigUp):
		m.nudge(-nudgeStepLarge, 0)
	case key.Matches(msg, m.keys.BigDown):
		m.nudge(nudgeStepLarge, 0)
	case key.Matches(msg, m.keys.BigLeft):
		m.nudge(0, -nudgeStepLarge)
	case key.Matches(msg, m.keys.BigRight):
		m.nudge(0, nudgeStepLarge)
	case key.Matches(msg, m.keys.Place):
		m.commitLayout()
	case key.Matches(msg, m.keys.RemoveObject):
		m.removeSelected()
	}
	return m, nil
}

func (m *Model) selectObject(delta int) {
	objs := m.snapshot.Profile.Objects
	m.commitLayout()
	idx := objectIndex(objs, m.selectedObject)
	if idx < 0 {
		idx = 0
	} else {
		idx = ((idx+delta)%len(objs) + len(objs)) % len(objs)
	}
	m.selectedObject = objs[idx].ID
}

func (m *Model) nudge(dTop, dLeft float64) {
	eng := m.engine()
	if eng == nil || m.selectedObject == "" {
		return
	}
	if err := eng.Nudge(m.selectedObject, dTop, dLeft); err != nil {
		m.report("", err)
		return
	}
	m.layoutDirty = true
}

// commitLayout persists pending moves, like the end of a drag.
func (m *Model) commitLayout() {
	if !m.layoutDirty {
		return
	}
	m.layoutDirty = false
	if eng := m.engine(); eng != nil {
		eng.CommitPositions()
	}
}

func (m *Model) removeSelected() {
	eng := m.engine()
	if eng == nil || m.selectedObject == "" {
		return
	}
	m.commitLayout()
	id := m.selectedObject
	name := id
	if idx := objectIndex(m.snapshot.Profile.Objects, id); idx >= 0 {
		name = displayName(m.snapshot.Profile.Objects[idx])
	}
	if err := eng.Remove(id); err != nil {
		m.report("", err)
		return
	}
	m.selectedObject = ""
	m.report(fmt.Sprintf("Removed the %s.", strings.ToLower(name)), nil)
}

func objectIndex(objs []profile.DecorativeObject, id string) int {
	for i, o := range objs {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func displayName(o profile.DecorativeObject) string {
	if o.Name != "" {
		return o.Name
	}
	return titleCase(o.Kind)
}

// renderFarm draws the canvas and, on wide terminals, the object list.
func (m Model) renderFarm(width, height int) string {
	styles := m.theme.Styles()
	objs := m.snapshot.Profile.Objects

	sidebarWidth := 0
	if width >= LayoutSidebarWidth {
		sidebarWidth = 30
	}
	canvasWidth := width - sidebarWidth - 2
	canvasHeight := height - 2
	if canvasWidth < 10 || canvasHeight < 3 {
		return ""
	}

	var body string
	if len(objs) == 0 {
		body = lipgloss.Place(canvasWidth, canvasHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("Your farm is empty. Visit the shop (3) to buy something."),
			lipgloss.WithWhitespaceBackground(lipgloss.Color(m.theme.Background)))
	} else {
		body = m.renderCanvas(layoutCanvas(objs, canvasWidth, canvasHeight), canvasWidth, canvasHeight)
	}
	canvas := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Primary)).
		Background(lipgloss.Color(m.theme.Background)).
		Render(body)

	if sidebarWidth == 0 {
		return canvas
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.renderObjectList(sidebarWidth, height))
}

func (m Model) renderCanvas(places []placement, width, height int) string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)
	item := styles.Text.Bold(true)

	rows := make([][]placement, height)
	for _, p := range places {
		if p.Row >= 0 && p.Row < height {
			rows[p.Row] = append(rows[p.Row], p)
		}
	}

	lines := make([]string, height)
	for r := range rows {
		var b strings.Builder
		col := 0
		for _, p := range rows[r] {
			if p.Col+lipgloss.Width(p.Label) > width {
				break
			}
			b.WriteString(bg.Spaces(p.Col - col))
			style := item
			if p.ID == m.selectedObject {
				style = styles.Selected
			}
			b.WriteString(style.Render(p.Label))
			col = p.Col + lipgloss.Width(p.Label)
		}
		lines[r] = bg.FillLine(b.String(), width)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderObjectList(width, height int) string {
	styles := m.theme.Styles()
	objs := m.snapshot.Profile.Objects

	var b strings.Builder
	b.WriteString(styles.AccentText.Render("Objects"))
	b.WriteString("\n")
	for i, o := range objs {
		if i >= height-4 {
			b.WriteString(styles.FaintText.Render(fmt.Sprintf("+%d more", len(objs)-i)))
			break
		}
		line := fmt.Sprintf("%-8s %3.0f,%3.0f", truncate(displayName(o), 8), o.Position.Left, o.Position.Top)
		if o.ID == m.selectedObject {
			b.WriteString(styles.Selected.Render(padRight(line, width-2)))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	if m.layoutDirty {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render("enter to place"))
	}
	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(b.String())
}
