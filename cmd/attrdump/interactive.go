package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cilscope/cilscope/metadata/attrs"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	result   *attrs.Value
	inputs   []textinput.Model
	focusIdx int
	state    modelState
}

type modelState int

const (
	stateInput modelState = iota
	stateShowResult
)

const (
	inputBlob = iota
	inputParams
)

func newInteractiveModel(signature string) *interactiveModel {
	blob := textinput.New()
	blob.Prompt = "blob (hex): "
	blob.Placeholder = "01 00 2A 00 00 00 00 00"
	blob.Width = 60
	blob.Focus()

	params := textinput.New()
	params.Prompt = "params: "
	params.Placeholder = "i4,string"
	params.Width = 60
	params.SetValue(signature)

	return &interactiveModel{
		inputs: []textinput.Model{blob, params},
		state:  stateInput,
	}
}

type parseResultMsg struct {
	err   error
	value *attrs.Value
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state == stateShowResult {
				return m, tea.Quit
			}

		case "tab":
			if m.state == stateInput {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "enter":
			switch m.state {
			case stateInput:
				return m, m.parseBlob
			case stateShowResult:
				m.state = stateInput
				m.result = nil
				m.err = nil
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			if m.state == stateShowResult {
				m.state = stateInput
				m.result = nil
				m.err = nil
				m.inputs[m.focusIdx].Focus()
			}
		}

	case parseResultMsg:
		m.result = msg.value
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInput {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) parseBlob() tea.Msg {
	data, err := decodeHex(m.inputs[inputBlob].Value())
	if err != nil {
		return parseResultMsg{err: fmt.Errorf("decode hex: %w", err)}
	}

	params, err := parseSignature(m.inputs[inputParams].Value())
	if err != nil {
		return parseResultMsg{err: fmt.Errorf("parse signature: %w", err)}
	}

	value, err := attrs.ParseData(data, params)
	if err != nil {
		return parseResultMsg{err: err}
	}
	return parseResultMsg{value: value}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Attribute Blob Inspector"))
	b.WriteString("\n\n")

	switch m.state {
	case stateInput:
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter parse • ctrl+c quit"))

	case stateShowResult:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.formatResult())
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatResult() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fixed arguments: %d\n", len(m.result.FixedArgs))
	for i, arg := range m.result.FixedArgs {
		fmt.Fprintf(&b, "  [%d] %s %s\n",
			i, kindStyle.Render(arg.Kind.String()), resultStyle.Render(arg.String()))
	}
	fmt.Fprintf(&b, "Named arguments: %d\n", len(m.result.NamedArgs))
	for _, na := range m.result.NamedArgs {
		role := "property"
		if na.IsField {
			role = "field"
		}
		fmt.Fprintf(&b, "  %s %s %s = %s\n",
			role, kindStyle.Render(na.ArgType), na.Name, resultStyle.Render(na.Value.String()))
	}
	return strings.TrimRight(b.String(), "\n")
}

func runInteractive(signature string) error {
	p := tea.NewProgram(newInteractiveModel(signature), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
