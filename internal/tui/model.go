// Package tui is the terminal front end: an editable board on the left and
// the chat transcript on the right.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BuzzLyutic/taskchat/internal/board"
	"github.com/BuzzLyutic/taskchat/internal/gateway"
	"github.com/BuzzLyutic/taskchat/internal/model"
)

// Layout constants
const (
	DefaultWidth  = 100
	DefaultHeight = 30
	chromeHeight  = 8 // headers, input box, help line
)

type focus int

const (
	focusInput focus = iota
	focusBoard
)

type editKind int

const (
	editNone editKind = iota
	editTitle
	editDescription
)

// row is one selectable line on the board. Epic rows have no taskID; tasks
// from task-only responses have no epicID.
type row struct {
	epicID string
	taskID string
}

func (r row) isTask() bool { return r.taskID != "" }

type chatResultMsg struct {
	pendingID string
	result    gateway.Result
	err       error
}

type Model struct {
	ctx    context.Context
	board  *board.Board
	client board.Chatter

	input      textinput.Model
	editor     textinput.Model
	transcript viewport.Model
	spinner    spinner.Model

	focus   focus
	cursor  int
	editing editKind
	editRow row
	notice  string

	width, height int
}

func New(ctx context.Context, b *board.Board, c board.Chatter) Model {
	input := textinput.New()
	input.Placeholder = "Message"
	input.Prompt = "› "
	input.Focus()

	editor := textinput.New()
	editor.Prompt = "edit › "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleSubtle

	m := Model{
		ctx:        ctx,
		board:      b,
		client:     c,
		input:      input,
		editor:     editor,
		transcript: viewport.New(DefaultWidth/2, DefaultHeight-chromeHeight),
		spinner:    sp,
	}
	m.resize(DefaultWidth, DefaultHeight)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.board.Pending() > 0 {
			m.refreshTranscript()
		}
		return m, cmd

	case chatResultMsg:
		m.board.Complete(msg.pendingID, msg.result, msg.err)
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.editing != editNone {
			return m.updateEditor(msg)
		}
		if msg.String() == "tab" {
			m.toggleFocus()
			return m, nil
		}
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateBoard(msg)
	}

	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "enter" {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	text := m.input.Value()
	pendingID, ok := m.board.Begin(text)
	if !ok {
		return m, nil
	}
	m.input.Reset()
	m.refreshTranscript()
	return m, m.chat(pendingID, text)
}

func (m Model) chat(pendingID, text string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.client.Chat(m.ctx, text)
		return chatResultMsg{pendingID: pendingID, result: res, err: err}
	}
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	m.notice = ""

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		return m, nil
	case "n":
		m.board.AddEpic()
		m.cursor = m.indexOfLastEpic()
		return m, nil
	}

	if len(rows) == 0 {
		return m, nil
	}
	cur := rows[m.cursor]
	epic, task := m.lookup(cur)

	var err error
	switch msg.String() {
	case "enter", " ", "space":
		if !cur.isTask() {
			m.board.ToggleExpanded(cur.epicID)
		}
	case "s":
		if cur.isTask() {
			err = m.board.UpdateTask(cur.epicID, cur.taskID, board.TaskPatch{Status: board.Ptr(task.Status.Next())})
		} else {
			err = m.board.UpdateEpic(cur.epicID, board.EpicPatch{Status: board.Ptr(epic.Status.Next())})
		}
	case "p":
		if cur.isTask() {
			err = m.board.UpdateTask(cur.epicID, cur.taskID, board.TaskPatch{Priority: board.Ptr(task.Priority.Next())})
		}
	case "a":
		_, err = m.board.AddTask(cur.epicID)
		if err == nil && cur.epicID != "" && !m.board.IsExpanded(cur.epicID) {
			m.board.ToggleExpanded(cur.epicID)
		}
	case "d":
		if cur.isTask() {
			err = m.board.DeleteTask(cur.epicID, cur.taskID)
		} else {
			err = m.board.DeleteEpic(cur.epicID)
		}
	case "e", "E":
		kind, value := editTitle, epic.Title
		if cur.isTask() {
			value = task.Title
		}
		if msg.String() == "E" {
			kind, value = editDescription, epic.Description
			if cur.isTask() {
				value = task.Description
			}
		}
		m.editing, m.editRow = kind, cur
		m.editor.SetValue(value)
		m.editor.CursorEnd()
		return m, m.editor.Focus()
	}

	if err != nil {
		m.notice = err.Error()
	}
	m.clampCursor()
	return m, nil
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopEditing()
		return m, nil
	case "enter":
		value := m.editor.Value()
		var err error
		switch {
		case m.editRow.isTask() && m.editing == editTitle:
			err = m.board.UpdateTask(m.editRow.epicID, m.editRow.taskID, board.TaskPatch{Title: &value})
		case m.editRow.isTask():
			err = m.board.UpdateTask(m.editRow.epicID, m.editRow.taskID, board.TaskPatch{Description: &value})
		case m.editing == editTitle:
			err = m.board.UpdateEpic(m.editRow.epicID, board.EpicPatch{Title: &value})
		default:
			err = m.board.UpdateEpic(m.editRow.epicID, board.EpicPatch{Description: &value})
		}
		if err != nil {
			m.notice = err.Error()
		}
		m.stopEditing()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) stopEditing() {
	m.editing = editNone
	m.editRow = row{}
	m.editor.Blur()
	m.editor.Reset()
}

func (m *Model) toggleFocus() {
	if m.focus == focusInput {
		m.focus = focusBoard
		m.input.Blur()
		return
	}
	m.focus = focusInput
	m.input.Focus()
}

// rows flattens the board into selectable lines: each epic, then its tasks
// when expanded, then any task-only entries.
func (m Model) rows() []row {
	var rows []row
	for _, e := range m.board.Epics() {
		rows = append(rows, row{epicID: e.ID})
		if m.board.IsExpanded(e.ID) {
			for _, t := range e.Tasks {
				rows = append(rows, row{epicID: e.ID, taskID: t.ID})
			}
		}
	}
	for _, t := range m.board.Tasks() {
		rows = append(rows, row{taskID: t.ID})
	}
	return rows
}

func (m Model) lookup(r row) (model.Epic, model.Task) {
	var tasks []model.Task
	var epic model.Epic
	if r.epicID == "" {
		tasks = m.board.Tasks()
	} else {
		for _, e := range m.board.Epics() {
			if e.ID == r.epicID {
				epic, tasks = e, e.Tasks
				break
			}
		}
	}
	for _, t := range tasks {
		if t.ID == r.taskID {
			return epic, t
		}
	}
	return epic, model.Task{}
}

func (m Model) indexOfLastEpic() int {
	rows := m.rows()
	for i := len(rows) - 1; i >= 0; i-- {
		if !rows[i].isTask() {
			return i
		}
	}
	return 0
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	paneWidth := width/2 - 4
	if paneWidth < 20 {
		paneWidth = 20
	}
	m.input.Width = paneWidth - 4
	m.editor.Width = paneWidth - 10
	m.transcript.Width = paneWidth
	m.transcript.Height = max(height-chromeHeight, 3)
	m.refreshTranscript()
}

func (m *Model) refreshTranscript() {
	wrap := lipgloss.NewStyle().Width(m.transcript.Width)
	var lines []string
	for _, e := range m.board.Transcript() {
		var line string
		switch {
		case e.Sender == board.SenderUser:
			line = StyleUser.Render("You: ") + e.Text
		case e.Pending:
			line = m.spinner.View() + " " + StyleSubtle.Render(e.Text)
		case e.Error:
			line = StyleError.Render(e.Text)
		default:
			line = StyleText.Render(e.Text)
		}
		lines = append(lines, wrap.Render(line))
	}
	m.transcript.SetContent(strings.Join(lines, "\n\n"))
	m.transcript.GotoBottom()
}

func (m Model) View() string {
	paneWidth := m.width/2 - 4

	boardStyle, chatStyle := StylePane, StyleFocusedPane
	if m.focus == focusBoard || m.editing != editNone {
		boardStyle, chatStyle = StyleFocusedPane, StylePane
	}

	left := boardStyle.Width(paneWidth).Render(m.boardView())
	right := chatStyle.Width(paneWidth).Render(lipgloss.JoinVertical(lipgloss.Left,
		StyleHeader.Render("Chatbox"),
		m.transcript.View(),
		"",
		m.input.View(),
	))

	help := StyleSubtle.Render("tab focus • enter send/expand • s status • p priority • e/E edit • a add task • n new epic • d delete • ctrl+c quit")
	return lipgloss.JoinVertical(lipgloss.Left, lipgloss.JoinHorizontal(lipgloss.Top, left, right), help)
}

func (m Model) boardView() string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render("Task Manager"))
	sb.WriteString("\n")

	rows := m.rows()
	if len(rows) == 0 {
		sb.WriteString(StyleSubtle.Render("No epics yet. Describe some work in the chat."))
	}

	for i, r := range rows {
		epic, task := m.lookup(r)
		cursor := "  "
		if m.focus == focusBoard && i == m.cursor {
			cursor = StyleSelected.Render("> ")
		}

		var line string
		if r.isTask() {
			indent := "    "
			if r.epicID == "" {
				indent = ""
			}
			line = fmt.Sprintf("%s%s %s %s", indent, StyleText.Render(task.Title),
				PriorityStyle(task.Priority).Render(string(task.Priority)),
				StatusStyle(task.Status).Render(string(task.Status)))
		} else {
			arrow := "▶"
			if m.board.IsExpanded(epic.ID) {
				arrow = "▼"
			}
			line = fmt.Sprintf("%s %s %s", arrow, StyleTitle.Render(epic.Title),
				StatusStyle(epic.Status).Render(string(epic.Status)))
			if epic.Description != "" {
				line += "\n    " + StyleSubtle.Render(epic.Description)
			}
		}
		sb.WriteString("\n" + cursor + line)
	}

	if m.editing != editNone {
		sb.WriteString("\n\n" + m.editor.View())
	}
	if m.notice != "" {
		sb.WriteString("\n\n" + StyleError.Render(m.notice))
	}
	return sb.String()
}
