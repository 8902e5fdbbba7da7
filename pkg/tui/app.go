// Package tui renders the booking wizard in the terminal. It drives the same
// booking service as the HTTP API, so the CRM registration and the WhatsApp
// hand-off behave identically.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"rental-booking/pkg/services"
	"rental-booking/pkg/wizard"
)

// keyMap defines the wizard key bindings
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Edit   key.Binding
	Cancel key.Binding
	Next   key.Binding
	Back   key.Binding
	Submit key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Edit, k.Next, k.Back, k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Edit, k.Cancel},
		{k.Next, k.Back, k.Submit, k.Reset, k.Quit},
	}
}

func newKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "haut")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "bas")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "choisir")),
		Right:  key.NewBinding(key.WithKeys("right", "l", " "), key.WithHelp("→", "suivant")),
		Edit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("entrée", "modifier")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("échap", "annuler")),
		Next:   key.NewBinding(key.WithKeys("n", "pgdown"), key.WithHelp("n", "étape suivante")),
		Back:   key.NewBinding(key.WithKeys("b", "pgup"), key.WithHelp("b", "retour")),
		Submit: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "envoyer")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "nouvelle demande")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quitter")),
	}
}

// submitDoneMsg carries the outcome of a submit run off the UI loop
type submitDoneMsg struct {
	result services.SubmitResult
	err    error
}

// WizardModel is the bubbletea model of one booking session
type WizardModel struct {
	ctx     context.Context
	booking *services.BookingService
	opener  services.LinkOpener
	fields  map[wizard.Step][]field

	SessionID string
	State     wizard.State

	Cursor  int
	Editing bool
	Input   textinput.Model

	Notice *services.Notice
	Err    error

	Width  int
	Height int

	Help help.Model
	Keys keyMap
}

// NewWizardModel opens a session on booking and returns its model
func NewWizardModel(ctx context.Context, booking *services.BookingService, opener services.LinkOpener) (WizardModel, error) {
	id, state, err := booking.Create(ctx, nil)
	if err != nil {
		return WizardModel{}, fmt.Errorf("error creating session: %w", err)
	}

	input := textinput.New()
	input.CharLimit = 255

	return WizardModel{
		ctx:       ctx,
		booking:   booking,
		opener:    opener,
		fields:    stepFields(booking.Catalog()),
		SessionID: id,
		State:     state,
		Input:     input,
		Help:      help.New(),
		Keys:      newKeyMap(),
	}, nil
}

// Init initializes the model
func (m WizardModel) Init() tea.Cmd {
	return nil
}

// Update handles all messages
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		return m, nil

	case submitDoneMsg:
		if msg.result.Notice.Message == "" {
			// Rejected before anything was built
			m.State.Submitting = false
			m.Err = msg.err
			return m, nil
		}
		notice := msg.result.Notice
		m.State = msg.result.State
		m.Notice = &notice
		m.Err = nil
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Editing {
			return m.updateEditing(msg)
		}
		if m.State.Submitted {
			return m.updateSubmitted(msg)
		}
		if m.State.Submitting {
			return m, nil
		}
		return m.updateForm(msg)
	}

	return m, nil
}

func (m WizardModel) currentFields() []field {
	return m.fields[m.State.Step]
}

func (m WizardModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.currentFields()

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}

	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(fields)-1 {
			m.Cursor++
		}

	case key.Matches(msg, m.Keys.Left):
		return m.cycle(fields[m.Cursor], -1), nil

	case key.Matches(msg, m.Keys.Right):
		return m.cycle(fields[m.Cursor], 1), nil

	case key.Matches(msg, m.Keys.Edit):
		f := fields[m.Cursor]
		if f.kind != kindText {
			return m.cycle(f, 1), nil
		}
		m.Editing = true
		m.Input.SetValue(f.value(m.State))
		m.Input.CursorEnd()
		m.Input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.Keys.Next):
		prevStep := m.State.Step
		m = m.apply(m.booking.Next(m.ctx, m.SessionID))
		if m.State.Step != prevStep {
			m.Cursor = 0
		}

	case key.Matches(msg, m.Keys.Back):
		prevStep := m.State.Step
		m = m.apply(m.booking.Back(m.ctx, m.SessionID))
		if m.State.Step != prevStep {
			m.Cursor = 0
		}

	case key.Matches(msg, m.Keys.Submit):
		if !m.State.CanSubmit() {
			return m, nil
		}
		m.State.Submitting = true
		return m, m.submit()
	}

	return m, nil
}

func (m WizardModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		m.Editing = false
		m.Input.Blur()
		return m, nil

	case key.Matches(msg, m.Keys.Edit):
		f := m.currentFields()[m.Cursor]
		m.Editing = false
		m.Input.Blur()
		return m.apply(m.booking.Update(m.ctx, m.SessionID, f.update(strings.TrimSpace(m.Input.Value())))), nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m WizardModel) updateSubmitted(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Reset):
		m = m.apply(m.booking.Reset(m.ctx, m.SessionID))
		m.Notice = nil
		m.Cursor = 0
	}
	return m, nil
}

// cycle moves a choice, toggle or vehicle field to its next value
func (m WizardModel) cycle(f field, delta int) WizardModel {
	switch f.kind {
	case kindToggle:
		return m.apply(m.booking.Update(m.ctx, m.SessionID, f.update(f.value(m.State))))

	case kindChoice:
		v, ok := f.cycle(m.State, delta)
		if !ok {
			return m
		}
		return m.apply(m.booking.Update(m.ctx, m.SessionID, f.update(v)))

	case kindVehicle:
		name, ok := f.cycle(m.State, delta)
		if !ok {
			return m
		}
		if name == "" {
			return m.apply(m.booking.ClearVehicle(m.ctx, m.SessionID))
		}
		return m.apply(m.booking.SelectVehicle(m.ctx, m.SessionID, name))
	}
	return m
}

// apply records the result of a booking call. A rejected change leaves the
// displayed state as it was and shows the reason.
func (m WizardModel) apply(state wizard.State, err error) WizardModel {
	if err != nil {
		m.Err = err
		return m
	}
	m.Err = nil
	m.State = state
	return m
}

func (m WizardModel) submit() tea.Cmd {
	ctx, booking, opener, id := m.ctx, m.booking, m.opener, m.SessionID
	return func() tea.Msg {
		res, err := booking.Submit(ctx, id, "", opener)
		return submitDoneMsg{result: res, err: err}
	}
}

// View renders the current screen
func (m WizardModel) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(AppName))
	b.WriteString("\n")

	if m.State.Submitted {
		b.WriteString(m.renderSubmitted())
	} else {
		b.WriteString(m.renderSteps())
		b.WriteString("\n\n")
		b.WriteString(m.renderFields())
		b.WriteString(m.renderStatus())
	}

	b.WriteString(HelpStyle.Render(m.Help.View(m.Keys)))
	return b.String()
}

func (m WizardModel) renderSteps() string {
	parts := make([]string, 0, len(wizard.Steps))
	for _, s := range wizard.Steps {
		label := fmt.Sprintf("%d %s", int(s), s.String())
		if s == m.State.Step {
			parts = append(parts, CurrentStepStyle.Render(label))
		} else {
			parts = append(parts, StepStyle.Render(label))
		}
	}
	return strings.Join(parts, StepStyle.Render("  ›  "))
}

func (m WizardModel) renderFields() string {
	var b strings.Builder
	for i, f := range m.currentFields() {
		value := f.shown(m.State)
		if m.Editing && i == m.Cursor {
			value = m.Input.View()
		}
		label := f.label
		if f.required {
			label += " *"
		}

		line := LabelStyle.Render(label) + value
		if i == m.Cursor {
			b.WriteString(SelectedFieldStyle.Render("> " + line))
		} else {
			b.WriteString(FieldStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m WizardModel) renderStatus() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.State.Submitting:
		b.WriteString(HintStyle.Render("Envoi en cours..."))
	case m.State.Step == wizard.StepContact && !m.State.CanSubmit():
		b.WriteString(HintStyle.Render("Renseignez vos coordonnées et un numéro de téléphone valide pour envoyer."))
	case m.State.Step == wizard.StepContact:
		b.WriteString(HintStyle.Render("Appuyez sur s pour envoyer votre demande."))
	case !m.State.CanGoNext():
		b.WriteString(HintStyle.Render("Complétez les champs obligatoires (*) pour continuer."))
	}

	if m.Notice != nil && m.Notice.Kind == services.NoticeError {
		b.WriteString("\n" + ErrorStyle.Render(m.Notice.Message))
	}
	if m.Err != nil {
		b.WriteString("\n" + ErrorStyle.Render(m.Err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m WizardModel) renderSubmitted() string {
	var b strings.Builder
	if m.Notice != nil {
		b.WriteString(SuccessStyle.Render(m.Notice.Message))
		b.WriteString("\n\n")
	}
	b.WriteString("Si WhatsApp ne s'est pas ouvert, utilisez ce lien :\n")
	b.WriteString(LinkStyle.Render(m.State.WhatsAppLink))
	b.WriteString("\n")
	return b.String()
}

// Run starts the terminal wizard and blocks until the user quits
func Run(ctx context.Context, booking *services.BookingService, opener services.LinkOpener) error {
	model, err := NewWizardModel(ctx, booking, opener)
	if err != nil {
		return err
	}
	defer booking.Delete(model.SessionID)

	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("error running wizard: %w", err)
	}
	return nil
}
