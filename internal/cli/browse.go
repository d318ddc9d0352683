package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bpview/pkg/errors"
	"github.com/matzehuels/bpview/pkg/fit"
	"github.com/matzehuels/bpview/pkg/render"
	"github.com/matzehuels/bpview/pkg/source"
	"github.com/matzehuels/bpview/pkg/viewer"
)

var (
	browseDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	browseInputStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
	browseFocusStyle = browseInputStyle.BorderForeground(colorCyan)
	browseModalStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorCyan).
				Padding(0, 1)

	brailleStartStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	brailleMarkerStyle = lipgloss.NewStyle().Foreground(colorRed)
	braillePathStyle   = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	defaultListHeight = 15
	minListHeight     = 5
	listChrome        = 12 // lines around the table: input, heading, total, help

	defaultModalRows = 15
	minModalRows     = 5
	maxModalRows     = 25
	modalChrome      = 6
)

func (c *CLI) browseCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "browse [author]",
		Short: "Browse blueprints in the terminal",
		Long: `Browse opens an interactive blueprint browser. Type an author and press
enter to fetch their blueprints (an empty author lists everyone), move through
the table with the arrow keys and press enter to draw the selected blueprint.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			src, err := c.openSource(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}
			defer src.Close()

			m := NewBrowseModel(cmd.Context(), src, cfg.FitViewport(), c.Logger)
			if len(args) == 1 {
				m.Input = args[0]
				m.autoSearch = true
			}

			// The alt screen hides log output, so silence the logger while
			// the program runs.
			level := c.Logger.GetLevel()
			c.Logger.SetLevel(log.FatalLevel)
			defer c.Logger.SetLevel(level)

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "browse blueprints from a JSON or YAML file instead of the source")

	return cmd
}

// searchDoneMsg reports the end of a blueprint fetch.
type searchDoneMsg struct {
	err error
}

// BrowseModel is the bubbletea model of the terminal browser. Editing
// selects between the author input and the result table; an open
// blueprint is shown in a modal above both.
type BrowseModel struct {
	Input    string
	Editing  bool
	Loading  bool
	Searched bool
	Err      error

	Cursor int
	Offset int
	Height int

	ctx        context.Context
	viewer     *viewer.Viewer
	vp         fit.Viewport
	surface    render.BrailleSurface
	autoSearch bool
}

// NewBrowseModel creates a browser over src whose drawings are fitted to vp.
func NewBrowseModel(ctx context.Context, src source.Source, vp fit.Viewport, logger *log.Logger) BrowseModel {
	return BrowseModel{
		Editing: true,
		Height:  defaultListHeight,
		ctx:     ctx,
		viewer:  viewer.New(src, viewer.WithLogger(logger)),
		vp:      vp,
		surface: newBrailleSurface(defaultModalRows, vp),
	}
}

// newBrailleSurface sizes a canvas of rows lines with the viewport's aspect
// ratio. A braille cell is two dots wide and four tall.
func newBrailleSurface(rows int, vp fit.Viewport) render.BrailleSurface {
	cols := int(float64(rows*4) * vp.Width / vp.Height / 2)
	return render.BrailleSurface{Braille: render.NewBraille(cols, rows), VP: vp}
}

// Viewer returns the underlying viewer.
func (m BrowseModel) Viewer() *viewer.Viewer { return m.viewer }

func (m BrowseModel) Init() tea.Cmd {
	if m.autoSearch {
		return func() tea.Msg { return submitMsg{} }
	}
	return nil
}

// submitMsg starts the initial search for an author given on the command
// line.
type submitMsg struct{}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitMsg:
		return m.submit()

	case searchDoneMsg:
		m.Loading = false
		m.Searched = true
		m.Err = msg.err
		m.Cursor, m.Offset = 0, 0
		if msg.err == nil && len(m.viewer.Blueprints()) > 0 {
			m.Editing = false
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-listChrome, minListHeight)
		rows := min(max(msg.Height-modalChrome, minModalRows), maxModalRows)
		if _, cur := m.surface.Size(); cur != rows {
			m.surface = newBrailleSurface(rows, m.vp)
			if !m.Loading {
				m.viewer.SurfaceReady(m.surface)
			}
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Loading {
			return m, nil
		}
		switch {
		case m.viewer.IsOpen():
			return m.updateModal(msg)
		case m.Editing:
			return m.updateInput(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

func (m BrowseModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		m.viewer.Close()
	}
	return m, nil
}

func (m BrowseModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyTab, tea.KeyDown:
		if len(m.viewer.Blueprints()) > 0 {
			m.Editing = false
		}
	case tea.KeyBackspace:
		if r := []rune(m.Input); len(r) > 0 {
			m.Input = string(r[:len(r)-1])
		}
	case tea.KeyCtrlU:
		m.Input = ""
	case tea.KeyRunes, tea.KeySpace:
		m.Input += string(msg.Runes)
	}
	return m, nil
}

func (m BrowseModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	set := m.viewer.Blueprints()
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "/", "tab":
		m.Editing = true
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			if m.Cursor < m.Offset {
				m.Offset = m.Cursor
			}
		}
	case "down", "j":
		if m.Cursor < len(set)-1 {
			m.Cursor++
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case "enter":
		if m.Cursor >= len(set) {
			return m, nil
		}
		if err := m.viewer.Open(set[m.Cursor].Name); err != nil {
			m.Err = err
			return m, nil
		}
		m.viewer.SelectionChanged(m.surface)
	}
	return m, nil
}

// submit starts a fetch. The viewer is only touched by the fetch until
// searchDoneMsg arrives; Update ignores keys while Loading.
func (m BrowseModel) submit() (BrowseModel, tea.Cmd) {
	author := strings.TrimSpace(m.Input)
	m.Loading = true
	m.Err = nil
	m.viewer.SetAuthor(author)

	v, ctx := m.viewer, m.ctx
	return m, func() tea.Msg {
		return searchDoneMsg{err: v.Search(ctx)}
	}
}

// View never reads the viewer while a fetch is running.
func (m BrowseModel) View() string {
	if !m.Loading && m.viewer.IsOpen() {
		return m.modalView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Blueprints"))
	b.WriteString("\n")

	inputStyle := browseInputStyle
	if m.Editing {
		inputStyle = browseFocusStyle
	}
	prompt := m.Input
	if m.Editing {
		prompt += "▏"
	}
	b.WriteString(inputStyle.Width(40).Render(browseDimStyle.Render("Author ") + prompt))
	b.WriteString("\n")

	switch {
	case m.Loading:
		b.WriteString(styleIconSpinner.Render("⠋") + " Fetching blueprints...\n")
	case m.Err != nil:
		b.WriteString(styleIconError.Render(iconError) + " " + errors.UserMessage(m.Err) + "\n")
	}

	if m.Loading {
		b.WriteString("\n")
		b.WriteString(browseDimStyle.Render("ctrl+c quit"))
		return b.String()
	}

	set := m.viewer.Blueprints()
	if m.Searched {
		b.WriteString("\n")
		b.WriteString(StyleTitle.Render(m.viewer.Heading()))
		b.WriteString("\n")
		if len(set) > 0 {
			cursor := -1
			if !m.Editing {
				cursor = m.Cursor
			}
			b.WriteString(blueprintTable(set, m.Offset, m.Height, cursor))
			b.WriteString("\n")
		}
		b.WriteString(totalLine(m.viewer.TotalPoints()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Editing {
		b.WriteString(browseDimStyle.Render("⏎ search  tab table  esc quit"))
	} else {
		b.WriteString(browseDimStyle.Render(fmt.Sprintf("↑/↓ navigate  ⏎ open  / search  q quit  [%d/%d]", m.Cursor+1, len(set))))
	}
	return b.String()
}

func (m BrowseModel) modalView() string {
	bp := m.viewer.Selected()
	drawing := m.surface.Render(paintBraille)

	var b strings.Builder
	b.WriteString(StyleTitle.Render(bp.Name))
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  %d points", bp.Len())))
	b.WriteString("\n")
	b.WriteString(drawing)
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("esc close"))
	return browseModalStyle.Render(b.String())
}

// paintBraille colours the start cell green and other markers red.
func paintBraille(cell string, kind render.CellKind) string {
	switch kind {
	case render.CellStart:
		return brailleStartStyle.Render(cell)
	case render.CellMarker:
		return brailleMarkerStyle.Render(cell)
	case render.CellPath:
		return braillePathStyle.Render(cell)
	}
	return cell
}
