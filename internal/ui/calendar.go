package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yukitake212/first-hackathon-product/internal/schedule"
	"github.com/yukitake212/first-hackathon-product/models"
)

type calendarKeys struct {
	Left, Right, Up, Down key.Binding
	PrevMonth, NextMonth  key.Binding
	Today, Help, Quit     key.Binding
}

func (k calendarKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.PrevMonth, k.NextMonth, k.Help, k.Quit}
}

func (k calendarKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.PrevMonth, k.NextMonth, k.Today},
		{k.Help, k.Quit},
	}
}

var defaultCalendarKeys = calendarKeys{
	Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
	Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev week")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next week")),
	PrevMonth: key.NewBinding(key.WithKeys("p", "pgup"), key.WithHelp("p", "prev month")),
	NextMonth: key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "next month")),
	Today:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// CalendarModel is a month view: a day grid marking days with tasks and, below
// it, the tasks of the selected day.
type CalendarModel struct {
	tasks  []models.Task
	today  time.Time
	cursor time.Time
	keys   calendarKeys
	help   help.Model
}

// NewCalendarModel starts the view on today.
func NewCalendarModel(tasks []models.Task, today time.Time) CalendarModel {
	d := models.DayOf(today)
	return CalendarModel{
		tasks:  tasks,
		today:  d,
		cursor: d,
		keys:   defaultCalendarKeys,
		help:   help.New(),
	}
}

// Cursor returns the selected day.
func (m CalendarModel) Cursor() time.Time { return m.cursor }

func (m CalendarModel) Init() tea.Cmd { return nil }

func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Left):
			m.cursor = m.cursor.AddDate(0, 0, -1)
		case key.Matches(msg, m.keys.Right):
			m.cursor = m.cursor.AddDate(0, 0, 1)
		case key.Matches(msg, m.keys.Up):
			m.cursor = m.cursor.AddDate(0, 0, -7)
		case key.Matches(msg, m.keys.Down):
			m.cursor = m.cursor.AddDate(0, 0, 7)
		case key.Matches(msg, m.keys.PrevMonth):
			m.cursor = shiftMonth(m.cursor, -1)
		case key.Matches(msg, m.keys.NextMonth):
			m.cursor = shiftMonth(m.cursor, 1)
		case key.Matches(msg, m.keys.Today):
			m.cursor = m.today
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

// shiftMonth moves d by n months, clamping the day to the target month's length
// so Jan 31 + 1 month is Feb 28/29 rather than early March.
func shiftMonth(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d.Day(), last), 0, 0, 0, 0, time.UTC)
}

func (m CalendarModel) View() string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(m.cursor.Format("January 2006")) + "\n")
	sb.WriteString(StyleSubtle.Render(" Su  Mo  Tu  We  Th  Fr  Sa") + "\n")

	first := time.Date(m.cursor.Year(), m.cursor.Month(), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	sb.WriteString(strings.Repeat("    ", int(first.Weekday())))

	for day := 1; day <= days; day++ {
		d := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
		sb.WriteString(m.renderCell(d))
		if d.Weekday() == time.Saturday && day != days {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n\n")

	onDay := schedule.TasksOnDate(m.tasks, m.cursor)
	sb.WriteString(StyleSectionTitle.Render(m.cursor.Format("Mon Jan 02")) + "\n")
	if len(onDay) == 0 {
		sb.WriteString(StyleSubtle.Render("  No tasks.") + "\n")
	}
	for _, t := range onDay {
		sb.WriteString("  " + TaskLine(t, m.today) + "\n")
	}

	sb.WriteString("\n" + m.help.View(m.keys) + "\n")
	return sb.String()
}

func (m CalendarModel) renderCell(d time.Time) string {
	marker := " "
	hasTasks := false
	for _, t := range m.tasks {
		if schedule.OccursOn(t, d) {
			hasTasks = true
			if schedule.IsOverdue(t, m.today) {
				marker = StyleOverdue.Render("•")
				break
			}
			marker = StylePrimary.Render("•")
		}
	}

	num := fmt.Sprintf("%3d", d.Day())
	style := lipgloss.NewStyle()
	switch {
	case d.Equal(m.cursor):
		style = style.Reverse(true).Bold(true)
	case d.Equal(m.today):
		style = style.Underline(true).Foreground(ColorPrimary)
	case !hasTasks:
		style = style.Foreground(ColorSecondary)
	}
	return style.Render(num) + marker
}

// RunCalendar shows the month view full screen until the user quits.
func RunCalendar(tasks []models.Task, today time.Time) error {
	if _, err := tea.NewProgram(NewCalendarModel(tasks, today), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run calendar: %w", err)
	}
	return nil
}
