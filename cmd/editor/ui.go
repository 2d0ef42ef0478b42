package main

import (
	"bytes"
	"strconv"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/tilescape/grid"
	"github.com/milk9111/tilescape/palette"
	"golang.org/x/image/font/gofont/goregular"
)

const leftPanelWidth = 240

// uiHandlers are the callbacks the panels invoke. All run on the game
// goroutine from inside ui.Update.
type uiHandlers struct {
	OnWidth      func(text string)
	OnHeight     func(text string)
	OnProjection func(p grid.Projection)
	OnMode       func(m palette.Mode)
	OnRows       func(text string)
	OnCols       func(text string)
	OnPasteImage func()
	OnSave       func()
	OnLoad       func(id string)
	OnNewMap     func()
	OnCopyID     func()
	OnPasteID    func()
}

// uiState describes the values the panels start with.
type uiState struct {
	Meta         grid.Metadata
	Mode         palette.Mode
	Rows, Cols   int
	PreviewWidth float64
}

type editorUI struct {
	ui *ebitenui.UI

	widthInput  *widget.TextInput
	heightInput *widget.TextInput
	rowsInput   *widget.TextInput
	colsInput   *widget.TextInput
	idInput     *widget.TextInput
	status      *widget.Text

	projection        *widget.RadioGroup
	projectionButtons map[grid.Projection]*widget.Button

	rightWidth int
	// suppress is set while fields are filled programmatically so the change
	// handlers do not feed the values back into the editor.
	suppress bool
}

func buildEditorUI(state uiState, h uiHandlers) *editorUI {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	eui := &editorUI{ui: ui, rightWidth: int(state.PreviewWidth) + 20}

	leftPanel := eui.buildLeftPanel(ui.PrimaryTheme, &fontFace, state, h)
	rightPanel := eui.buildRightPanel(&fontFace)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	leftPanel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	rightPanel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	root.AddChild(leftPanel)
	root.AddChild(rightPanel)
	ui.Container = root

	return eui
}

func (eui *editorUI) buildLeftPanel(theme *widget.Theme, fontFace *text.Face, state uiState, h uiHandlers) *widget.Container {
	panel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(leftPanelWidth, 400)),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelBackground)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 12, Bottom: 12, Left: 12, Right: 12}),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)

	field := func(label, initial string, onChange func(string)) *widget.TextInput {
		panel.AddChild(newLabel(label, fontFace))
		input := newTextInput(fontFace,
			widget.TextInputOpts.ChangedHandler(func(args *widget.TextInputChangedEventArgs) {
				if eui.suppress || onChange == nil {
					return
				}
				onChange(args.InputText)
			}),
		)
		input.SetText(initial)
		panel.AddChild(input)
		return input
	}

	panel.AddChild(newLabel("Map", fontFace))
	eui.suppress = true
	eui.widthInput = field("Width", strconv.Itoa(state.Meta.Width), h.OnWidth)
	eui.heightInput = field("Height", strconv.Itoa(state.Meta.Height), h.OnHeight)
	eui.suppress = false

	eui.projection, eui.projectionButtons = radioRow(panel, theme, fontFace,
		[]grid.Projection{grid.Flat, grid.Isometric}, state.Meta.Projection,
		func(p grid.Projection) string { return p.String() },
		func(p grid.Projection) {
			if !eui.suppress && h.OnProjection != nil {
				h.OnProjection(p)
			}
		})

	panel.AddChild(newLabel("Palette", fontFace))
	radioRow(panel, theme, fontFace,
		[]palette.Mode{palette.ModeIndividual, palette.ModeSheet}, state.Mode,
		func(m palette.Mode) string { return m.String() },
		func(m palette.Mode) {
			if h.OnMode != nil {
				h.OnMode(m)
			}
		})

	eui.suppress = true
	eui.rowsInput = field("Sheet rows", strconv.Itoa(state.Rows), h.OnRows)
	eui.colsInput = field("Sheet columns", strconv.Itoa(state.Cols), h.OnCols)
	eui.suppress = false
	panel.AddChild(newButton(theme, fontFace, "Paste image", h.OnPasteImage))

	panel.AddChild(newLabel("Storage", fontFace))
	eui.idInput = newTextInput(fontFace,
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			if h.OnLoad != nil && args.InputText != "" {
				h.OnLoad(args.InputText)
			}
		}),
	)
	panel.AddChild(eui.idInput)

	actions := newRow(6)
	actions.AddChild(newButton(theme, fontFace, "Save", h.OnSave))
	actions.AddChild(newButton(theme, fontFace, "Load", func() {
		if h.OnLoad != nil {
			h.OnLoad(eui.idInput.GetText())
		}
	}))
	panel.AddChild(actions)

	clip := newRow(6)
	clip.AddChild(newButton(theme, fontFace, "Copy id", h.OnCopyID))
	clip.AddChild(newButton(theme, fontFace, "Paste id", h.OnPasteID))
	panel.AddChild(clip)
	panel.AddChild(newButton(theme, fontFace, "New map", h.OnNewMap))

	eui.status = widget.NewText(widget.TextOpts.Text("", fontFace, statusColor))
	panel.AddChild(eui.status)
	return panel
}

func (eui *editorUI) buildRightPanel(fontFace *text.Face) *widget.Container {
	panel := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(eui.rightWidth, 400)),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelBackground)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 10, Bottom: 10, Left: 10, Right: 10}),
			),
		),
	)
	panel.AddChild(newLabel("Tiles (drop images here)", fontFace))
	return panel
}

// radioRow adds a row of toggle buttons that behave as a radio group.
func radioRow[T comparable](parent *widget.Container, theme *widget.Theme, fontFace *text.Face, values []T, initial T, name func(T) string, onChange func(T)) (*widget.RadioGroup, map[T]*widget.Button) {
	row := newRow(6)
	buttons := make(map[T]*widget.Button, len(values))
	elements := make([]widget.RadioGroupElement, 0, len(values))
	for _, v := range values {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(name(v), fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(96, 28)),
		)
		buttons[v] = btn
		elements = append(elements, btn)
		row.AddChild(btn)
	}
	parent.AddChild(row)

	var ready bool
	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if !ready {
				return
			}
			for v, b := range buttons {
				if args.Active == b {
					onChange(v)
					return
				}
			}
		}),
	)
	if b, ok := buttons[initial]; ok {
		group.SetActive(b)
	}
	ready = true
	return group, buttons
}

// ShowMap refreshes the map fields after a load or a new map.
func (eui *editorUI) ShowMap(meta grid.Metadata, id string) {
	eui.suppress = true
	defer func() { eui.suppress = false }()
	eui.widthInput.SetText(strconv.Itoa(meta.Width))
	eui.heightInput.SetText(strconv.Itoa(meta.Height))
	eui.idInput.SetText(id)
	if b, ok := eui.projectionButtons[meta.Projection]; ok {
		eui.projection.SetActive(b)
	}
}

func (eui *editorUI) SetStatus(msg string) {
	eui.status.Label = msg
}

// Typing reports whether a text field has keyboard focus.
func (eui *editorUI) Typing() bool {
	if fw := eui.ui.GetFocusedWidget(); fw != nil {
		_, ok := fw.(*widget.TextInput)
		return ok
	}
	return false
}
