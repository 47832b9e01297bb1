package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/board"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/input"
)

// palette maps swatch colors to the hex strings stored in paths.
var palette = []struct {
	hex string
	col color.Color
}{
	{"#1d1d1f", color.NRGBA{R: 0x1d, G: 0x1d, B: 0x1f, A: 255}},
	{"#e03131", color.NRGBA{R: 0xe0, G: 0x31, B: 0x31, A: 255}},
	{"#2f9e44", color.NRGBA{R: 0x2f, G: 0x9e, B: 0x44, A: 255}},
	{"#1971c2", color.NRGBA{R: 0x19, G: 0x71, B: 0xc2, A: 255}},
	{"#f08c00", color.NRGBA{R: 0xf0, G: 0x8c, B: 0x00, A: 255}},
	{"#ffd43b", color.NRGBA{R: 0xff, G: 0xd4, B: 0x3b, A: 255}},
}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func()
}

func newColorSwatch(c color.Color, tapped func()) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

// ToolbarActions are the non-tool commands the toolbar triggers.
type ToolbarActions struct {
	OnClear     func()
	OnUndo      func()
	OnRedo      func()
	OnExportPDF func()
	OnImportDoc func()
	OnPaste     func()
}

// NewToolbar builds the tool strip: tool buttons, color palette,
// stroke slider and board commands.
func NewToolbar(machine *input.Machine, bw *BoardWidget, actions ToolbarActions) fyne.CanvasObject {
	setTool := func(t board.Tool) {
		machine.SetTool(t)
		bw.Refresh()
	}

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { setTool(board.ToolPen) }),
		widget.NewToolbarAction(theme.ColorPaletteIcon(), func() { setTool(board.ToolHighlighter) }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() { setTool(board.ToolEraser) }),
		widget.NewToolbarAction(theme.DeleteIcon(), func() { setTool(board.ToolStrokeEraser) }),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), func() { setTool(board.ToolSelect) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), func() {
			if actions.OnUndo != nil {
				actions.OnUndo()
			}
		}),
		widget.NewToolbarAction(theme.ContentRedoIcon(), func() {
			if actions.OnRedo != nil {
				actions.OnRedo()
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentPasteIcon(), func() {
			if actions.OnPaste != nil {
				actions.OnPaste()
			}
		}),
		widget.NewToolbarAction(theme.FolderOpenIcon(), func() {
			if actions.OnImportDoc != nil {
				actions.OnImportDoc()
			}
		}),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			if actions.OnExportPDF != nil {
				actions.OnExportPDF()
			}
		}),
		widget.NewToolbarAction(theme.MediaReplayIcon(), func() {
			if actions.OnClear != nil {
				actions.OnClear()
			}
		}),
	)

	colorBox := container.NewHBox()
	for _, entry := range palette {
		hex := entry.hex
		colorBox.Add(newColorSwatch(entry.col, func() {
			machine.SetColor(hex)
		}))
	}

	strokeSlider := widget.NewSlider(1, 30)
	strokeSlider.SetValue(3)
	strokeSlider.OnChanged = func(val float64) {
		machine.SetWidth(val)
	}
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(140, 35)), strokeSlider)

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Traço:"),
		sliderBox,
		layout.NewSpacer(),
	)
}
