package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Johannes-Berggren/mkgitbranch/internal/config"
	"github.com/Johannes-Berggren/mkgitbranch/internal/logger"
	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
	"github.com/Johannes-Berggren/mkgitbranch/internal/validation"
)

type branchCreatedMsg struct {
	name string
	err  error
}

type branchCopiedMsg struct {
	name string
	err  error
}

type timeoutMsg struct {
	generation int
}

// Actions performs the two side effects the form can trigger.
type Actions interface {
	CreateBranch(ctx context.Context, name string) error
	Copy(name string) error
}

// FormOptions configures a BranchForm.
type FormOptions struct {
	Context   context.Context
	Config    config.Config
	Validator *validation.Validator
	Actions   Actions
	Logger    *logger.Logger

	// Username, Jira and Type prefill the inputs.
	Username string
	Jira     string
	Type     string

	// Dark selects the dark palette.
	Dark bool
	// Err is shown in the error banner when the form opens.
	Err error
	// Notices are shown under the preview when the form opens.
	Notices []string
}

// BranchForm is the branch name dialog: four fields, a live preview and the
// copy / create actions.
type BranchForm struct {
	ctx       context.Context
	cfg       config.Config
	validator *validation.Validator
	actions   Actions
	logger    *logger.Logger
	styles    styles

	inputs  [4]textinput.Model
	typeIdx int
	focus   models.Field
	draft   models.Draft

	busy     bool
	copied   string
	err      error
	notices  []string
	timeout  time.Duration
	activity int
	result   Result
	width    int
}

func NewBranchForm(opts FormOptions) *BranchForm {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	v := opts.Validator
	if v == nil {
		v = validation.FromConfig(opts.Config, opts.Logger)
	}

	f := &BranchForm{
		ctx:       ctx,
		cfg:       opts.Config,
		validator: v,
		actions:   opts.Actions,
		logger:    opts.Logger.Named("ui"),
		styles:    newStyles(opts.Config.Theme.Palette(opts.Dark)),
		err:       opts.Err,
		notices:   opts.Notices,
		timeout:   opts.Config.Timeout(),
		result:    Result{Outcome: OutcomeCancelled},
	}

	widths := opts.Config.FieldWidths
	f.inputs[models.FieldUsername] = newInput("username", widths.Username, 32)
	f.inputs[models.FieldType] = newInput("type", widths.Type, 0)
	f.inputs[models.FieldJira] = newInput(opts.Config.JiraPrefix+"ABC-123", widths.Jira, 16)
	f.inputs[models.FieldDescription] = newInput("short-description", widths.Description, 64)

	f.setValue(models.FieldUsername, opts.Username)

	for i, t := range v.Types() {
		if t == opts.Type {
			f.typeIdx = i
		}
	}
	f.syncType()

	jira := opts.Jira
	if jira == "" {
		jira = opts.Config.JiraPrefix
	}
	f.setValue(models.FieldJira, jira)
	f.setValue(models.FieldDescription, "")

	f.focusStart()
	return f
}

func newInput(placeholder string, width, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = width
	return ti
}

// focusStart places the cursor according to cursor_start.
func (f *BranchForm) focusStart() {
	jira := &f.inputs[models.FieldJira]

	switch f.cfg.CursorStart {
	case config.CursorUsername:
		if !f.cfg.UsernameReadonly {
			f.setFocus(models.FieldUsername)
			f.inputs[models.FieldUsername].CursorStart()
			return
		}
	case config.CursorJiraStart:
		f.setFocus(models.FieldJira)
		jira.CursorStart()
		return
	case config.CursorJiraAfterDash:
		f.setFocus(models.FieldJira)
		if i := strings.IndexByte(jira.Value(), '-'); i >= 0 {
			jira.SetCursor(i + 1)
		} else {
			jira.CursorStart()
		}
		return
	}

	if f.draft.Status(models.FieldJira) == models.StatusValid {
		f.setFocus(models.FieldDescription)
		f.inputs[models.FieldDescription].CursorStart()
		return
	}
	f.setFocus(models.FieldJira)
	jira.CursorStart()
}

func (f *BranchForm) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, f.touch())
}

func (f *BranchForm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		f.width = msg.Width
		return f, nil

	case timeoutMsg:
		if msg.generation != f.activity || f.busy {
			return f, nil
		}
		f.logger.Error().Dur("timeout", f.timeout).Msg("no input, closing")
		f.result = Result{Outcome: OutcomeTimedOut, Err: fmt.Errorf("no input for %s", f.timeout)}
		return f, tea.Quit

	case branchCreatedMsg:
		f.busy = false
		if msg.err != nil {
			f.err = msg.err
			return f, f.touch()
		}
		f.result = Result{Outcome: OutcomeCreated, Branch: msg.name}
		return f, tea.Quit

	case branchCopiedMsg:
		if msg.err != nil {
			f.err = msg.err
			return f, nil
		}
		f.copied = msg.name
		f.err = nil
		f.notices = []string{"Copied " + msg.name + " to the clipboard"}
		return f, nil

	case tea.KeyMsg:
		if f.busy {
			return f, nil
		}
		return f.handleKey(msg)
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *BranchForm) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	touch := f.touch()

	switch {
	case key.Matches(msg, keys.cancel):
		if f.copied != "" {
			f.result = Result{Outcome: OutcomeCopied, Branch: f.copied}
		}
		return f, tea.Quit

	case key.Matches(msg, keys.next):
		if f.focus == models.FieldJira && f.jumpAfterDash() {
			return f, touch
		}
		return f, tea.Batch(f.moveFocus(1), touch)

	case key.Matches(msg, keys.prev):
		return f, tea.Batch(f.moveFocus(-1), touch)

	case key.Matches(msg, keys.copy):
		if !f.draft.Complete() {
			f.err = fmt.Errorf("fix the highlighted fields before copying")
			return f, touch
		}
		return f, tea.Batch(f.copyCmd(f.branchName()), touch)

	case key.Matches(msg, keys.create):
		if !f.draft.Complete() {
			return f, tea.Batch(f.moveFocus(1), touch)
		}
		f.busy = true
		f.err = nil
		return f, f.createCmd(f.branchName())
	}

	if f.focus == models.FieldType {
		switch {
		case key.Matches(msg, keys.left):
			f.cycleType(-1)
		case key.Matches(msg, keys.right):
			f.cycleType(1)
		case msg.Type == tea.KeyRunes:
			f.selectTypeByPrefix(string(msg.Runes))
		}
		return f, touch
	}

	if f.focus == models.FieldUsername && f.cfg.UsernameReadonly {
		return f, touch
	}

	var cmd tea.Cmd
	in := &f.inputs[f.focus]
	*in, cmd = in.Update(msg)
	f.normalize(f.focus)
	return f, tea.Batch(cmd, touch)
}

// touch records activity and schedules the inactivity timeout. Older ticks
// carry a stale generation and are ignored.
func (f *BranchForm) touch() tea.Cmd {
	f.activity++
	if f.timeout <= 0 {
		return nil
	}
	gen := f.activity
	return tea.Tick(f.timeout, func(time.Time) tea.Msg {
		return timeoutMsg{generation: gen}
	})
}

// normalize filters the raw input of field and re-validates it, keeping the
// cursor where it was.
func (f *BranchForm) normalize(field models.Field) {
	in := &f.inputs[field]
	raw := in.Value()
	clean := validation.Normalize(field, raw)
	if clean != raw {
		pos := in.Position()
		in.SetValue(clean)
		in.SetCursor(min(pos, len(clean)))
	}
	f.validator.Set(&f.draft, field, clean)
}

func (f *BranchForm) setValue(field models.Field, value string) {
	f.inputs[field].SetValue(value)
	f.normalize(field)
}

func (f *BranchForm) syncType() {
	types := f.validator.Types()
	value := ""
	if len(types) > 0 {
		value = types[f.typeIdx%len(types)]
	}
	f.inputs[models.FieldType].SetValue(value)
	f.validator.Set(&f.draft, models.FieldType, value)
}

func (f *BranchForm) cycleType(delta int) {
	n := len(f.validator.Types())
	if n == 0 {
		return
	}
	f.typeIdx = ((f.typeIdx+delta)%n + n) % n
	f.syncType()
}

func (f *BranchForm) selectTypeByPrefix(prefix string) {
	prefix = strings.ToLower(prefix)
	types := f.validator.Types()
	for step := 1; step <= len(types); step++ {
		i := (f.typeIdx + step) % len(types)
		if strings.HasPrefix(types[i], prefix) {
			f.typeIdx = i
			f.syncType()
			return
		}
	}
}

// jumpAfterDash moves the ticket cursor past the project key dash when it
// sits before it, e.g. right after a "ABC-" prefill.
func (f *BranchForm) jumpAfterDash() bool {
	in := &f.inputs[models.FieldJira]
	dash := strings.IndexByte(in.Value(), '-')
	if dash < 0 || in.Position() > dash {
		return false
	}
	in.SetCursor(dash + 1)
	return true
}

func (f *BranchForm) focusable(field models.Field) bool {
	return !(field == models.FieldUsername && f.cfg.UsernameReadonly)
}

func (f *BranchForm) moveFocus(delta int) tea.Cmd {
	n := len(models.Fields)
	next := f.focus
	for range n {
		next = models.Field(((int(next)+delta)%n + n) % n)
		if f.focusable(next) {
			break
		}
	}
	return f.setFocus(next)
}

func (f *BranchForm) setFocus(field models.Field) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = field
	if field == models.FieldType {
		return nil
	}
	cmd := f.inputs[field].Focus()
	f.inputs[field].CursorEnd()
	return cmd
}

func (f *BranchForm) branchName() string {
	return f.draft.Format(f.cfg.BranchFormat)
}

func (f *BranchForm) createCmd(name string) tea.Cmd {
	ctx := f.ctx
	actions := f.actions
	return func() tea.Msg {
		if actions == nil {
			return branchCreatedMsg{name: name, err: fmt.Errorf("branch creation is not available")}
		}
		return branchCreatedMsg{name: name, err: actions.CreateBranch(ctx, name)}
	}
}

func (f *BranchForm) copyCmd(name string) tea.Cmd {
	actions := f.actions
	return func() tea.Msg {
		if actions == nil {
			return branchCopiedMsg{name: name, err: fmt.Errorf("clipboard is not available")}
		}
		return branchCopiedMsg{name: name, err: actions.Copy(name)}
	}
}

// Draft returns a copy of the current field values and statuses.
func (f *BranchForm) Draft() models.Draft {
	return f.draft
}

// Result is the outcome once the program has quit.
func (f *BranchForm) Result() Result {
	return f.result
}

func (f *BranchForm) View() string {
	var b strings.Builder

	b.WriteString(f.styles.title.Render("Generate Conventional Git Branch Name"))
	b.WriteString("\n")

	slash := f.styles.slash.Render("/")
	cols := make([]string, 0, 2*len(models.Fields))
	for i, field := range models.Fields {
		if i > 0 {
			cols = append(cols, lipgloss.JoinVertical(lipgloss.Center, slash, ""))
		}
		cols = append(cols, f.renderField(field))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	b.WriteString("\n")

	b.WriteString(f.styles.preview.Render(f.draft.Preview(f.cfg.BranchFormat)))
	b.WriteString("\n")

	for _, n := range f.notices {
		b.WriteString(f.styles.notice.Render(n) + "\n")
	}

	if f.err != nil {
		b.WriteString(f.styles.errorBox.Render(f.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(f.styles.help.Render(f.helpText()))
	return b.String()
}

func (f *BranchForm) renderField(field models.Field) string {
	in := f.inputs[field]
	width := in.Width

	var content string
	if field == models.FieldType {
		arrows := "‹ " + in.Value() + " ›"
		content = f.styles.forStatus(f.draft.Status(field)).Width(width).Render(arrows)
		if f.focus == field {
			content = f.styles.selected.Render(content)
		}
	} else {
		in.TextStyle = f.styles.forStatus(f.draft.Status(field))
		content = lipgloss.NewStyle().Width(width + 1).Render(in.View())
	}

	label := f.styles.label.Render(field.Label())
	return lipgloss.JoinVertical(lipgloss.Center, content, label)
}

func (f *BranchForm) helpText() string {
	if f.busy {
		return "creating branch..."
	}
	help := []string{"tab: next field", "←/→: change type"}
	if f.draft.Complete() {
		help = append(help, "enter: create", "ctrl+y: copy")
	}
	help = append(help, "esc: cancel")
	return strings.Join(help, " • ")
}
