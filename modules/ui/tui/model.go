package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Vigilant-co/nimble-trace-core/modules/ui/core"
)

// Messages sent into the program from outside the Update loop
type (
	snapshotMsg    core.Snapshot
	notifyMsg      core.Notification
	toastExpireMsg struct{ id int }
)

// Sites offered by the filter cycle; empty string means all sites.
var filterSites = []string{"", "amazon", "digikala", "ebay", "aliexpress", "walmart", "bestbuy", "target", "newegg"}

// Column cycle for the sort key
var sortFields = []string{core.SortByLastUpdated, core.SortByName, core.SortByPrice, core.SortByChange}

// Model is the Bubble Tea model for the dashboard
type Model struct {
	controller *core.Controller
	keys       KeyMap

	snapshot core.Snapshot
	cursor   int
	width    int
	height   int

	searching bool
	search    textinput.Model
	spin      spinner.Model

	siteIdx int

	toast   *core.Notification
	toastID int
}

// NewModel creates the dashboard model
func NewModel(controller *core.Controller) *Model {
	search := textinput.New()
	search.Placeholder = "Search products..."
	search.CharLimit = 120
	search.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return &Model{
		controller: controller,
		keys:       DefaultKeyMap(),
		snapshot:   controller.Snapshot(),
		search:     search,
		spin:       spin,
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.FocusMsg:
		m.controller.SetVisible(true)
		return m, nil

	case tea.BlurMsg:
		m.controller.SetVisible(false)
		return m, nil

	case snapshotMsg:
		m.snapshot = core.Snapshot(msg)
		if m.cursor >= len(m.snapshot.Products) {
			m.cursor = len(m.snapshot.Products) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case notifyMsg:
		n := core.Notification(msg)
		m.toast = &n
		m.toastID++
		id := m.toastID
		return m, tea.Tick(5*time.Second, func(time.Time) tea.Msg {
			return toastExpireMsg{id: id}
		})

	case toastExpireMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.searching = false
			m.search.Blur()
			return m, nil
		case msg.Type == tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		// Debouncing lives in the controller; every edit is forwarded.
		m.controller.Apply(core.NewTrigger(core.TriggerSearch).WithValue(m.search.Value()))
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snapshot.Products)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if m.snapshot.HasPrevPage() {
			return m, m.trigger(core.NewTrigger(core.TriggerPrevPage))
		}
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		if m.snapshot.HasNextPage() {
			return m, m.trigger(core.NewTrigger(core.TriggerNextPage))
		}
		return m, nil

	case key.Matches(msg, m.keys.SiteFilter):
		m.siteIdx = (m.siteIdx + 1) % len(filterSites)
		site := filterSites[m.siteIdx]
		return m, m.trigger(core.NewTrigger(core.TriggerSiteFilter).WithValue(site))

	case key.Matches(msg, m.keys.SortField):
		next := nextSortField(m.snapshot.SortField)
		return m, m.trigger(core.NewTrigger(core.TriggerSort).WithValue(next))

	case key.Matches(msg, m.keys.SortOrder):
		field := m.snapshot.SortField
		return m, m.trigger(core.NewTrigger(core.TriggerSort).WithValue(field))

	case key.Matches(msg, m.keys.Refresh):
		return m, m.trigger(core.NewTrigger(core.TriggerRefresh))

	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(m.snapshot.Products) {
			id := m.snapshot.Products[m.cursor].ID
			return m, m.trigger(core.NewTrigger(core.TriggerDeleteProduct).WithValue(id))
		}
		return m, nil
	}

	return m, nil
}

// trigger applies a blocking controller trigger off the Update loop
func (m *Model) trigger(t *core.Trigger) tea.Cmd {
	return func() tea.Msg {
		m.controller.Apply(t)
		return nil
	}
}

func nextSortField(current string) string {
	for i, f := range sortFields {
		if f == current {
			return sortFields[(i+1)%len(sortFields)]
		}
	}
	return sortFields[0]
}

// View implements tea.Model
func (m *Model) View() string {
	var sections []string
	sections = append(sections, m.viewHeader())
	sections = append(sections, m.viewMetrics())
	if m.searching || m.search.Value() != "" {
		sections = append(sections, m.search.View())
	}
	sections = append(sections, m.viewTable())
	sections = append(sections, m.viewFooter())
	if m.toast != nil {
		sections = append(sections, toastStyle(m.toast.Level).Render(m.toast.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) viewHeader() string {
	title := TitleStyle.Render("NimbleTrace")

	conn := StatusAlertStyle.Render("● offline")
	if m.snapshot.Connected {
		conn = StatusStableStyle.Render("● live")
	}

	health := StatusStableStyle.Render("All Systems Operational")
	if !m.snapshot.ScraperHealthy {
		health = StatusWarningStyle.Render("Degraded Performance")
	}

	loading := ""
	if m.snapshot.Loading {
		loading = " " + m.spin.View()
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", conn, "  ", health, loading)
}

func (m *Model) viewMetrics() string {
	if !m.snapshot.HasMetrics {
		return CardLabelStyle.Render("metrics pending...")
	}
	metrics := m.snapshot.Metrics
	cards := []string{
		metricCard("Products", fmt.Sprintf("%d", metrics.TotalProducts), float64(metrics.ProductTrend)),
		metricCard("Alerts", fmt.Sprintf("%d", metrics.ActiveAlerts), float64(metrics.AlertTrend)),
		metricCard("Success", fmt.Sprintf("%.1f%%", metrics.SuccessRate), metrics.SuccessTrend),
		metricCard("Interval", metrics.AverageInterval, metrics.IntervalTrend),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(label, value string, trend float64) string {
	trendStr := ChangeUpStyle.Render(fmt.Sprintf("+%g", trend))
	if trend < 0 {
		trendStr = ChangeDownStyle.Render(fmt.Sprintf("%g", trend))
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		CardLabelStyle.Render(label),
		CardValueStyle.Render(value)+" "+trendStr,
	)
	return CardStyle.Render(body)
}

func (m *Model) viewTable() string {
	now := time.Now()

	header := fmt.Sprintf("%-34s %12s %12s %-14s %-8s", "Product", "Price", "24h Change", "Last Updated", "Status")
	lines := []string{TableHeaderStyle.Render(header)}

	if len(m.snapshot.Products) == 0 {
		lines = append(lines, CardLabelStyle.Render("No products found. Try adding a product or adjusting your filters."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for i, p := range m.snapshot.Products {
		row := core.BuildRow(p, now)

		name := fmt.Sprintf("%s %s", row.Icon, truncate(row.Name, 30))
		change := ChangeDownStyle.Render(fmt.Sprintf("%12s", row.Change))
		if row.ChangeUp {
			change = ChangeUpStyle.Render(fmt.Sprintf("%12s", row.Change))
		}

		line := fmt.Sprintf("%-34s %12s %s %-14s %s",
			name, row.Price, change, row.UpdatedAgo, statusStyle(row).Render(row.StatusLabel))

		if i == m.cursor {
			lines = append(lines, SelectedRowStyle.Render(line))
		} else {
			lines = append(lines, RowStyle.Render(line))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) viewFooter() string {
	sort := fmt.Sprintf("sort: %s %s", core.SortLabel(m.snapshot.SortField), m.snapshot.SortOrder)
	site := m.snapshot.Site
	if site == "" {
		site = "all sites"
	}
	pages := fmt.Sprintf("page %d/%d", m.snapshot.Page, m.snapshot.TotalPages)
	help := "/:search f:filter s/o:sort ←→:pages r:refresh x:delete q:quit"
	return FooterStyle.Render(fmt.Sprintf("%s · %s · %s · %s", pages, sort, site, help))
}

func statusStyle(row core.RowVM) lipgloss.Style {
	switch row.StatusLabel {
	case "Stable":
		return StatusStableStyle
	case "Warning":
		return StatusWarningStyle
	default:
		return StatusAlertStyle
	}
}

func toastStyle(level core.NotifyLevel) lipgloss.Style {
	switch level {
	case core.NotifySuccess:
		return ToastSuccessStyle
	case core.NotifyWarning:
		return ToastWarningStyle
	case core.NotifyError:
		return ToastErrorStyle
	default:
		return ToastInfoStyle
	}
}

// truncate cuts a string to a display width, never splitting a rune
func truncate(s string, max int) string {
	return runewidth.Truncate(s, max, "...")
}
