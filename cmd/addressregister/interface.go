package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sindreglo/addressregister/bootstrap"
	"github.com/sindreglo/addressregister/core"
	"github.com/sindreglo/addressregister/flatfile"
)

var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#139DFF")).
			Align(lipgloss.Center)
	StyleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	StyleEvent    = lipgloss.NewStyle().Foreground(lipgloss.Color("#525252"))
	StyleSelected = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#139DFF"))
	StyleTable    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true)
)

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "tab left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "tab right"),
	),
	// Up is defined by the table, we're just putting it here for the help menu
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	// Down is defined by the table, we're just putting it here for the help menu
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add address"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit address"),
	),
	Remove: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "remove address"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	ImportTab: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "import .txt"),
	),
	ImportCSV: key.NewBinding(
		key.WithKeys("I"),
		key.WithHelp("I", "import .csv"),
	),
	ExportTab: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "export .txt"),
	),
	ExportCSV: key.NewBinding(
		key.WithKeys("O"),
		key.WithHelp("O", "export .csv"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "re-import changed file"),
	),
	Reset: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset register"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "force quit"),
	),
}

var searchFields = []struct {
	field       core.AddressField
	title       string
	placeholder string
}{
	{core.FieldZipCode, "Zip code", "0001"},
	{core.FieldPostal, "Postal", "OSLO"},
	{core.FieldMunicipalCode, "Municipal code", "0301"},
	{core.FieldMunicipalityName, "Municipality name", "OSLO"},
	{core.FieldCategory, "Category", "P"},
}

/**
 * MESSAGES
 */

type (
	addressSubmittedMsg struct {
		values []string
		// nil when adding a new address
		old *core.Address
	}
	removeConfirmedMsg struct {
		address core.Address
	}
	searchFieldChosenMsg struct {
		idx int
	}
	searchSubmittedMsg struct {
		query searchQuery
	}
	importConfirmedMsg struct {
		format    flatfile.Format
		overwrite bool
	}
	importPathMsg struct {
		format    flatfile.Format
		path      string
		overwrite bool
	}
	exportPathMsg struct {
		format flatfile.Format
		path   string
	}
	reloadConfirmedMsg struct {
		path string
	}
	resetConfirmedMsg struct{}
	quitConfirmedMsg  struct{}
)

type searchQuery struct {
	field core.AddressField
	query string
}

func (q searchQuery) String() string {
	return fmt.Sprintf("%s %q", q.field, q.query)
}

// answeredPrompter replays the answers the user already gave in the import dialogs.
type answeredPrompter struct {
	overwrite bool
}

var _ flatfile.Prompter = answeredPrompter{}

func (p answeredPrompter) ConfirmOverwrite() bool {
	return p.overwrite
}

// The extension was already checked by the path dialog.
func (answeredPrompter) ChooseAnother(flatfile.Format) (string, bool) {
	return "", false
}

type RegisterUI struct {
	app         *bootstrap.App
	watcher     *fileWatcher
	quitting    bool
	width       int
	height      int
	spinner     spinner.Model
	keys        keyMap
	help        help.Model
	tabs        *Tabs
	table       table.Model
	rows        []core.Address
	dialog      dialog
	lastSearch  *searchQuery
	changedFile string
	status      string
	succeeded   bool
	err         error
}

// NewUI creates the interface for the register of app.
// watcher is optional, a nil watcher disables change notifications for imported files.
func NewUI(app *bootstrap.App, watcher *fileWatcher) *RegisterUI {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = StyleTitle

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Zip code", Width: 10},          //nolint:mnd
			{Title: "Postal", Width: 24},            //nolint:mnd
			{Title: "Municipal code", Width: 16},    //nolint:mnd
			{Title: "Municipality name", Width: 24}, //nolint:mnd
			{Title: "Category", Width: 10},          //nolint:mnd
		}),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#139DFF"))
	t.SetStyles(styles)

	ui := &RegisterUI{
		app:     app,
		watcher: watcher,
		spinner: s,
		keys:    keys,
		help:    help.New(),
		tabs:    NewTabs(keys.Left, keys.Right),
		table:   t,
		status:  "Welcome to the address register! Press ? to view all commands.",
	}
	ui.refresh()
	return ui
}

func (ui *RegisterUI) Init() tea.Cmd {
	return ui.spinner.Tick
}

// Reload the visible rows from the register.
// The last search is repeated so the search results reflect additions and removals.
func (ui *RegisterUI) refresh() {
	r := ui.app.Register
	if ui.lastSearch != nil {
		if _, err := r.Search(ui.lastSearch.field, ui.lastSearch.query); err != nil {
			ui.err = err
		}
	}
	all := r.All()
	filtered := r.Filtered()
	ui.tabs.setCount(tabAll, len(all))
	ui.tabs.setCount(tabSearch, len(filtered))

	if ui.tabs.activeTab() == tabAll {
		ui.rows = all
	} else {
		ui.rows = filtered
	}
	rows := make([]table.Row, len(ui.rows))
	for i, a := range ui.rows {
		rows[i] = table.Row{
			a.ZipCode(),
			a.Postal(),
			a.MunicipalCode(),
			a.MunicipalityName(),
			string(a.Category()),
		}
	}
	ui.table.SetRows(rows)
	if ui.table.Cursor() >= len(rows) || ui.table.Cursor() < 0 {
		ui.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Returns the highlighted address or nil if the table is empty.
func (ui *RegisterUI) selected() *core.Address {
	idx := ui.table.Cursor()
	if idx < 0 || idx >= len(ui.rows) {
		return nil
	}
	address := ui.rows[idx]
	return &address
}

func (ui *RegisterUI) succeed(status string) {
	ui.status = status
	ui.succeeded = true
	ui.err = nil
}

func (ui *RegisterUI) fail(status string, err error) {
	ui.status = status
	ui.succeeded = false
	ui.err = err
	ui.app.Logger.Debug(status, "error", err)
}

/**
 * DIALOGS
 */

func (ui *RegisterUI) openAddressDialog(old *core.Address) {
	title := "Address Details - Add"
	fields := []formField{
		{label: "Zip code", placeholder: "0001", limit: 4},
		{label: "Postal", placeholder: "OSLO"},
		{label: "Municipal code", placeholder: "0301", limit: 4},
		{label: "Municipality name", placeholder: "OSLO"},
		{label: "Category", placeholder: "P", limit: 1},
	}
	if old != nil {
		title = "Address Details - Edit"
		for i, value := range []string{
			old.ZipCode(),
			old.Postal(),
			old.MunicipalCode(),
			old.MunicipalityName(),
			string(old.Category()),
		} {
			fields[i].value = value
		}
	}
	ui.dialog = newFormDialog(title, fields, func(values []string) tea.Msg {
		return addressSubmittedMsg{values: values, old: old}
	})
}

func (ui *RegisterUI) openSearchDialog() {
	options := make([]string, len(searchFields))
	for i, f := range searchFields {
		options[i] = f.title
	}
	ui.dialog = newChoiceDialog("Search in register by", options, func(idx int) tea.Msg {
		return searchFieldChosenMsg{idx: idx}
	})
}

func (ui *RegisterUI) openImportDialog(format flatfile.Format) {
	if ui.app.Register.Len() == 0 {
		ui.openImportPathDialog(format, false)
		return
	}
	ui.dialog = newConfirmDialog(
		"File Details - overwrite",
		"Import of file will overwrite all addresses in register.",
		func() tea.Msg { return importConfirmedMsg{format: format, overwrite: true} },
	)
}

func (ui *RegisterUI) openImportPathDialog(format flatfile.Format, overwrite bool) {
	ui.dialog = newFormDialog(
		fmt.Sprintf("Import from %s", format.Extension()),
		[]formField{{label: "File", value: ui.app.Cfg.Files.DefaultName + format.Extension()}},
		func(values []string) tea.Msg {
			return importPathMsg{format: format, path: values[0], overwrite: overwrite}
		},
	)
}

func (ui *RegisterUI) openExportDialog(format flatfile.Format) {
	ui.dialog = newFormDialog(
		fmt.Sprintf("Export to %s", format.Extension()),
		[]formField{{label: "File", value: ui.app.Cfg.Files.DefaultName + format.Extension()}},
		func(values []string) tea.Msg {
			return exportPathMsg{format: format, path: values[0]}
		},
	)
}

/**
 * ACTIONS
 */

func (ui *RegisterUI) submitAddress(msg addressSubmittedMsg) {
	address, err := core.ParseAddress(
		strings.TrimSpace(msg.values[0]),
		msg.values[1],
		strings.TrimSpace(msg.values[2]),
		msg.values[3],
		strings.ToUpper(msg.values[4]),
	)
	if err != nil {
		// Keep the form open so the input can be corrected
		var validationErr *core.ValidationError
		if errors.As(err, &validationErr) {
			err = validationErr
		}
		ui.fail("Address not valid", err)
		return
	}

	ui.dialog = nil
	if msg.old != nil {
		err = ui.app.Register.Edit(*msg.old, address)
	} else {
		err = ui.app.Register.Add(address)
	}
	if err != nil {
		ui.fail("Address not saved", err)
	} else {
		ui.succeed(fmt.Sprintf("Saved %v", address))
		ui.app.Logger.Debug("Address saved", "address", address.String(), "edit", msg.old != nil)
	}
	ui.refresh()
}

func (ui *RegisterUI) search(query searchQuery) {
	if query.field == core.FieldCategory {
		query.query = strings.ToUpper(query.query)
	}
	result, err := ui.app.Register.Search(query.field, query.query)
	if err != nil {
		ui.fail("Search failed", err)
		return
	}
	ui.lastSearch = &query
	ui.tabs.setName(tabSearch, fmt.Sprintf("Search: %v", query))
	ui.tabs.setActive(tabSearch)
	ui.succeed(fmt.Sprintf("Found %d addresses", len(result)))
	ui.refresh()
}

func (ui *RegisterUI) importFile(format flatfile.Format, path string, overwrite bool) {
	count, err := ui.app.Files.Import(format, path, answeredPrompter{overwrite: overwrite})
	if err != nil {
		ui.fail("Import failed", err)
		return
	}
	ui.changedFile = ""
	ui.succeed(fmt.Sprintf("Import successful, %d addresses loaded from %s", count, path))
	if ui.watcher != nil {
		if err := ui.watcher.Watch(path); err != nil {
			ui.app.Logger.Warn("Cannot watch imported file", "path", path, "error", err)
		}
	}
	ui.refresh()
}

func (ui *RegisterUI) reset() {
	ui.app.Register.Clear()
	ui.lastSearch = nil
	ui.tabs.setName(tabSearch, "Search results")
	ui.succeed("All addresses removed")
	ui.refresh()
}

//nolint:cyclop
func (ui *RegisterUI) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, ui.keys.ForceQuit):
		return tea.Quit
	case key.Matches(msg, ui.keys.Quit):
		ui.dialog = newConfirmDialog(
			"Confirmation Dialog",
			"Are you sure you want to exit this application?",
			func() tea.Msg { return quitConfirmedMsg{} },
		)
	case key.Matches(msg, ui.keys.Help):
		ui.help.ShowAll = !ui.help.ShowAll
	case key.Matches(msg, ui.keys.Left), key.Matches(msg, ui.keys.Right):
		ui.refresh()
	case key.Matches(msg, ui.keys.Add):
		ui.openAddressDialog(nil)
	case key.Matches(msg, ui.keys.Edit):
		selected := ui.selected()
		if selected == nil {
			ui.fail("Address not selected", errors.New("you must select an address from the list to edit"))
			return nil
		}
		ui.openAddressDialog(selected)
	case key.Matches(msg, ui.keys.Remove):
		selected := ui.selected()
		if selected == nil {
			ui.fail("Address not selected", errors.New("you must select an address from the list to remove"))
			return nil
		}
		address := *selected
		ui.dialog = newConfirmDialog(
			"Delete confirmation",
			fmt.Sprintf("Are you sure you want to delete this item?\n\n%v", address),
			func() tea.Msg { return removeConfirmedMsg{address: address} },
		)
	case key.Matches(msg, ui.keys.Search):
		ui.openSearchDialog()
	case key.Matches(msg, ui.keys.ImportTab):
		ui.openImportDialog(flatfile.FormatTab)
	case key.Matches(msg, ui.keys.ImportCSV):
		ui.openImportDialog(flatfile.FormatCSV)
	case key.Matches(msg, ui.keys.ExportTab):
		ui.openExportDialog(flatfile.FormatTab)
	case key.Matches(msg, ui.keys.ExportCSV):
		ui.openExportDialog(flatfile.FormatCSV)
	case key.Matches(msg, ui.keys.Reload):
		if len(ui.changedFile) == 0 {
			return nil
		}
		path := ui.changedFile
		ui.dialog = newConfirmDialog(
			"File Details - overwrite",
			fmt.Sprintf("%s changed on disk.\nImport of file will overwrite all addresses in register.", path),
			func() tea.Msg { return reloadConfirmedMsg{path: path} },
		)
	case key.Matches(msg, ui.keys.Reset):
		ui.dialog = newConfirmDialog(
			"Confirmation Dialog",
			"Are you sure you want to delete all addresses?",
			func() tea.Msg { return resetConfirmedMsg{} },
		)
	default:
		var cmd tea.Cmd
		ui.table, cmd = ui.table.Update(msg)
		return cmd
	}
	return nil
}

//nolint:cyclop
func (ui *RegisterUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		ui.help.Width = msg.Width
		ui.resize()

	case tea.KeyMsg:
		if ui.dialog != nil {
			ui.dialog, cmd = ui.dialog.Update(msg)
			return ui, cmd
		}
		ui.tabs, cmd = ui.tabs.Update(msg)
		cmds = append(cmds, cmd, ui.handleKey(msg))
		if ui.dialog != nil {
			cmds = append(cmds, textinput.Blink)
		}

	case closeDialogMsg:
		ui.dialog = nil

	case addressSubmittedMsg:
		ui.submitAddress(msg)

	case removeConfirmedMsg:
		ui.dialog = nil
		if err := ui.app.Register.Remove(msg.address); err != nil {
			ui.fail("Address not removed", err)
		} else {
			ui.succeed(fmt.Sprintf("Removed %v", msg.address))
		}
		ui.refresh()

	case searchFieldChosenMsg:
		f := searchFields[msg.idx]
		ui.dialog = newFormDialog(
			"Search - "+f.title,
			[]formField{{label: f.title, placeholder: f.placeholder}},
			func(values []string) tea.Msg {
				return searchSubmittedMsg{query: searchQuery{field: f.field, query: values[0]}}
			},
		)
		cmds = append(cmds, textinput.Blink)

	case searchSubmittedMsg:
		ui.dialog = nil
		ui.search(msg.query)

	case importConfirmedMsg:
		ui.openImportPathDialog(msg.format, msg.overwrite)
		cmds = append(cmds, textinput.Blink)

	case importPathMsg:
		path := ui.app.Path(strings.TrimSpace(msg.path))
		if !msg.format.Matches(path) {
			ui.app.Logger.Debug("File does not match format", "format", msg.format, "path", path)
			ui.dialog = newConfirmDialog(
				"File Details - Chosen file not valid",
				fmt.Sprintf("The chosen file type is not valid.\nPlease choose a %s file or cancel the operation.", msg.format.Extension()),
				func() tea.Msg { return importConfirmedMsg{format: msg.format, overwrite: msg.overwrite} },
			).withChoices("Select file", "Cancel")
			break
		}
		ui.dialog = nil
		ui.importFile(msg.format, path, msg.overwrite)

	case exportPathMsg:
		ui.dialog = nil
		path, err := ui.app.Files.Export(msg.format, ui.app.Path(strings.TrimSpace(msg.path)))
		if err != nil {
			ui.fail("Export failed", err)
		} else {
			ui.succeed("Export successful, register written to " + path)
		}

	case reloadConfirmedMsg:
		ui.dialog = nil
		format, err := flatfile.FormatFromPath(msg.path)
		if err != nil {
			ui.fail("Import failed", err)
			break
		}
		ui.importFile(format, msg.path, true)

	case resetConfirmedMsg:
		ui.dialog = nil
		ui.reset()

	case quitConfirmedMsg:
		ui.quitting = true
		return ui, tea.Quit

	case fileChangedMsg:
		ui.changedFile = msg.path
		ui.succeeded = false
		ui.status = fmt.Sprintf("%s changed on disk, press r to re-import", msg.path)

	case spinner.TickMsg:
		ui.spinner, cmd = ui.spinner.Update(msg)
		return ui, cmd

	default:
		// Cursor blinking and other internal messages of the active dialog
		if ui.dialog != nil {
			ui.dialog, cmd = ui.dialog.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return ui, tea.Batch(cmds...)
}

func (ui *RegisterUI) resize() {
	verticalMargin := lipgloss.Height(ui.HeaderView()) + lipgloss.Height(ui.FooterView()) + 2 //nolint:mnd
	ui.table.SetHeight(max(ui.height-verticalMargin, 1))
	ui.table.SetWidth(max(ui.width-2, 0)) //nolint:mnd
}

func (ui *RegisterUI) View() string {
	if ui.quitting {
		return "\nBye!\n"
	}
	if ui.width == 0 {
		return fmt.Sprintf("\n%vInitialising…\n", ui.spinner.View())
	}

	header := ui.HeaderView()
	footer := ui.FooterView()
	var body string
	if ui.dialog != nil {
		body = lipgloss.Place(
			ui.width,
			ui.table.Height()+2, //nolint:mnd
			lipgloss.Center,
			lipgloss.Center,
			ui.dialog.View(),
		)
	} else {
		body = StyleTable.Render(ui.table.View())
	}
	return header + body + footer
}

// The view above the address table
func (ui *RegisterUI) HeaderView() string {
	title := fmt.Sprintf("%s %s (%s) %s", ui.spinner.View(), ui.app.Cfg.App.Name, ui.app.Cfg.CountryName(), ui.spinner.View())
	header := StyleTitle.Width(ui.width).Render(title) + "\n"
	header += ui.tabs.View()
	return header + "\n"
}

// The view underneath the address table
func (ui *RegisterUI) FooterView() string {
	helpView := lipgloss.NewStyle().
		Width(ui.width).
		AlignHorizontal(lipgloss.Center).
		Render(ui.help.View(ui.keys))

	statusStyle := StyleEvent
	if ui.succeeded {
		statusStyle = StyleSucces
	}
	statusView := statusStyle.Width(ui.width).Render(ui.status)

	var errView string
	if ui.err != nil {
		errView = "\n" + StyleError.
			Width(ui.width).
			AlignHorizontal(lipgloss.Center).
			Render(fmt.Sprintf("[ERROR] %v", ui.err.Error()))
	}
	return "\n" + statusView + "\n" + helpView + errView
}

// KeyMap is basically only used to generate the help menu, we don't allow rebinding keys atm
type keyMap struct {
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Edit      key.Binding
	Remove    key.Binding
	Search    key.Binding
	ImportTab key.Binding
	ImportCSV key.Binding
	ExportTab key.Binding
	ExportCSV key.Binding
	Reload    key.Binding
	Reset     key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view. It's part
// of the key.Map interface.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Remove, k.Search, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view. It's part of the
// key.Map interface.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Add, k.Edit, k.Remove, k.Search},
		{k.ImportTab, k.ImportCSV, k.ExportTab, k.ExportCSV},
		{k.Reload, k.Reset, k.Help, k.Quit, k.ForceQuit},
	}
}
