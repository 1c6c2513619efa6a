package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/reedy055/rpg/internal/engine"
	"github.com/reedy055/rpg/internal/ui"
)

type pane int

const (
	paneHabits pane = iota
	paneTasks
	paneChallenges
	paneCount
)

// row is one selectable line in a pane.
type row struct {
	id    string
	label string
	sub   string
	done  bool
}

type boardModel struct {
	ctx context.Context
	svc *engine.Service

	width  int
	height int

	pane     pane
	selected [paneCount]int

	lastLog string
}

type toggledMsg struct {
	label string
	done  bool
	err   error
}

func newBoardModel(ctx context.Context, svc *engine.Service) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return nil
}

func (m boardModel) rows(p pane) []row {
	st := m.svc.State()
	day := st.Today.Day
	var out []row

	switch p {
	case paneHabits:
		for _, h := range st.ActiveHabits() {
			hs := st.Today.HabitsStatus[h.ID]
			sub := fmt.Sprintf("+%d pts", h.PointsOnComplete)
			if h.Kind == engine.HabitCounter {
				sub = fmt.Sprintf("%d/%d • +%d pts when done", hs.Tally, h.TargetPerDay, h.PointsOnComplete)
			}
			out = append(out, row{id: h.ID, label: h.Name, sub: sub, done: hs.Done})
		}
	case paneTasks:
		for _, t := range m.svc.TodosForDay(day) {
			out = append(out, row{id: t.ID, label: t.Name, sub: fmt.Sprintf("+%d pts", t.Points), done: t.Done})
		}
	case paneChallenges:
		for _, c := range m.svc.AssignedChallenges(day) {
			out = append(out, row{
				id:    c.ID,
				label: c.Name,
				sub:   fmt.Sprintf("+%d pts", c.Points),
				done:  m.svc.ChallengeDoneToday(c.ID),
			})
		}
	}
	return out
}

func (m boardModel) toggleCmd(p pane, r row) tea.Cmd {
	return func() tea.Msg {
		var (
			done bool
			err  error
		)
		switch p {
		case paneHabits:
			h := m.svc.State().HabitByID(r.id)
			if h != nil && h.Kind == engine.HabitCounter {
				var hs engine.HabitStatus
				hs, err = m.svc.AdjustHabitTally(m.ctx, r.id, +1)
				done = hs.Done
			} else {
				done, err = m.svc.ToggleHabit(m.ctx, r.id)
			}
		case paneTasks:
			done, err = m.svc.ToggleTodo(m.ctx, r.id)
		case paneChallenges:
			done, err = m.svc.ToggleChallenge(m.ctx, r.id)
		}
		return toggledMsg{label: r.label, done: done, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case toggledMsg:
		if msg.err != nil {
			m.lastLog = "Failed: " + msg.err.Error()
			return m, nil
		}
		verb := "Undone"
		if msg.done {
			verb = "Done"
		}
		m.lastLog = fmt.Sprintf("%s: %s at %s", verb, msg.label, time.Now().Format("15:04:05"))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "l", "right":
			m.pane = (m.pane + 1) % paneCount
			return m, nil
		case "shift+tab", "h", "left":
			m.pane = (m.pane + paneCount - 1) % paneCount
			return m, nil
		case "up", "k":
			if m.selected[m.pane] > 0 {
				m.selected[m.pane]--
			}
			return m, nil
		case "down", "j":
			if m.selected[m.pane] < len(m.rows(m.pane))-1 {
				m.selected[m.pane]++
			}
			return m, nil
		case "enter", " ":
			rows := m.rows(m.pane)
			sel := m.selected[m.pane]
			if sel >= 0 && sel < len(rows) {
				return m, m.toggleCmd(m.pane, rows[sel])
			}
			return m, nil
		}
	}
	return m, nil
}

func paneTitle(p pane) string {
	switch p {
	case paneHabits:
		return ui.IconHabit + " Habits"
	case paneTasks:
		return ui.IconTask + " Today's Tasks"
	case paneChallenges:
		return ui.IconTarget + " Challenges"
	default:
		return ""
	}
}

func (m boardModel) renderPane(p pane) string {
	var b strings.Builder
	title := paneTitle(p)
	if p == m.pane {
		b.WriteString(ui.PanelTitle.Render(title) + "\n")
	} else {
		b.WriteString(ui.Muted.Render(title) + "\n")
	}

	rows := m.rows(p)
	if len(rows) == 0 {
		b.WriteString(ui.Muted.Render("  (empty)") + "\n")
	}
	for i, r := range rows {
		line := fmt.Sprintf("%s %s %s", ui.DoneMark(r.done), r.label, ui.Muted.Render(r.sub))
		if p == m.pane && i == m.selected[p] {
			line = ui.SelectedRow.Render("› " + r.label + " " + r.sub)
		}
		b.WriteString("  " + line + "\n")
	}
	return ui.Panel.Render(strings.TrimRight(b.String(), "\n"))
}

func (m boardModel) header() string {
	st := m.svc.State()
	goal := st.Settings.DailyGoal
	pct := 0
	if goal > 0 {
		pct = st.Today.Points * 100 / goal
	}
	return fmt.Sprintf("%s  %s %d pts  %s %d  %s %d   %s",
		ui.Heading(ui.IconSparkle, "LifeRPG"),
		ui.IconSparkle, st.Today.Points,
		ui.IconCoin, st.Profile.Coins,
		ui.IconStreak, st.Streak.Current,
		ui.Bar(pct, -1, 20),
	)
}

func (m boardModel) View() string {
	var b strings.Builder
	b.WriteString(m.header() + "\n\n")
	for p := pane(0); p < paneCount; p++ {
		b.WriteString(m.renderPane(p) + "\n")
	}
	b.WriteString("\n" + ui.Muted.Render("tab: switch pane • j/k: move • enter: toggle • q: quit") + "\n")
	b.WriteString(ui.Muted.Render(m.lastLog) + "\n")
	return b.String()
}
