package ui

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/atotto/clipboard"

	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/config"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/docimport"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/export"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/geom"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/input"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/media"
	"github.com/antoniogilsonbjr/salinha-profe-gilson/internal/session"
)

// App ties the widgets to the session controller and the machine.
type App struct {
	cfg        *config.Config
	machine    *input.Machine
	controller *session.Controller

	// OpenDocument builds a page rasterizer for an import target. It
	// is the hook for the external PDF rendering collaborator; when
	// nil the import action reports the renderer as unavailable.
	OpenDocument func(path string) (docimport.Rasterizer, error)

	// JoinTarget, when set, pre-fills and triggers the guest join
	// flow on startup (share-link launch).
	JoinTarget string

	window fyne.Window
	board  *BoardWidget
	status *widget.Label
}

func NewApp(cfg *config.Config, machine *input.Machine, controller *session.Controller) *App {
	return &App{cfg: cfg, machine: machine, controller: controller}
}

// Run builds the window and blocks until the app exits.
func (a *App) Run() {
	fyneApp := app.New()
	a.window = fyneApp.NewWindow("Salinha")
	a.window.Resize(fyne.NewSize(1100, 760))

	a.board = NewBoardWidget(a.machine)
	a.status = widget.NewLabel("Pronto")

	toolbar := NewToolbar(a.machine, a.board, ToolbarActions{
		OnClear:     a.clearBoard,
		OnUndo:      func() { a.machine.Undo(); a.board.Refresh() },
		OnRedo:      func() { a.machine.Redo(); a.board.Refresh() },
		OnExportPDF: a.exportPDF,
		OnImportDoc: a.importDocument,
		OnPaste:     a.pasteImage,
	})

	a.wireSession()

	content := container.NewBorder(
		container.NewVBox(toolbar, a.sessionBar()),
		a.status,
		nil, nil,
		a.board,
	)
	a.window.SetContent(content)
	a.window.SetOnClosed(a.controller.Stop)

	if a.JoinTarget != "" {
		target := a.JoinTarget
		go func() {
			a.setStatus("Entrando na sala...")
			a.controller.Join(target)
		}()
	}

	a.window.ShowAndRun()
}

// sessionBar holds the host/join controls and the share link.
func (a *App) sessionBar() fyne.CanvasObject {
	linkLabel := widget.NewLabel("")
	joinEntry := widget.NewEntry()
	joinEntry.SetPlaceHolder("código da sala, ex. aula-1234")
	if _, room, err := session.ParseShareLink(a.JoinTarget); err == nil && room != "" {
		joinEntry.SetText(room)
	}

	hostBtn := widget.NewButton("Abrir sala", func() {
		room, link, err := a.controller.Host()
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		linkLabel.SetText(link)
		a.setStatus(fmt.Sprintf("Sala %s aberta, aguardando participante", room))
	})

	joinBtn := widget.NewButton("Entrar", func() {
		target := strings.TrimSpace(joinEntry.Text)
		if target == "" {
			return
		}
		a.setStatus("Entrando na sala...")
		go a.controller.Join(target)
	})

	copyBtn := widget.NewButton("Copiar link", func() {
		if linkLabel.Text == "" {
			return
		}
		if err := clipboard.WriteAll(linkLabel.Text); err != nil {
			log.Printf("[ui] clipboard write failed: %v", err)
			return
		}
		a.setStatus("Link copiado")
	})

	return container.NewHBox(hostBtn, copyBtn, linkLabel, widget.NewSeparator(), joinEntry, joinBtn)
}

// wireSession routes controller callbacks back onto the UI thread.
func (a *App) wireSession() {
	a.controller.OnStateChanged = func(state session.State, role session.Role) {
		fyne.Do(func() {
			a.status.SetText(fmt.Sprintf("Sessão: %s (%s)", state, role))
		})
	}
	a.controller.OnRemoteApplied = func() {
		fyne.Do(func() { a.board.Refresh() })
	}
	a.controller.OnFailure = func(msg string) {
		fyne.Do(func() {
			dialog.ShowInformation("Salinha", msg, a.window)
		})
	}
	a.controller.OnRemoteStream = func(s media.Stream) {
		log.Printf("[ui] remote media stream %s attached", s.ID())
	}
}

func (a *App) setStatus(text string) {
	fyne.Do(func() { a.status.SetText(text) })
}

func (a *App) clearBoard() {
	dialog.ShowConfirm("Limpar", "Apagar todo o quadro?", func(ok bool) {
		if ok {
			a.machine.ClearBoard()
			a.board.Refresh()
		}
	}, a.window)
}

func (a *App) exportPDF() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := export.PDF(path, a.machine.Store().Elements()); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.setStatus("Quadro exportado para " + path)
	}, a.window)
}

// pasteImage reads an image file path from the system clipboard and
// places the decoded bitmap on the board. Non-image clipboard content
// is ignored.
func (a *App) pasteImage() {
	text, err := clipboard.ReadAll()
	if err != nil || strings.TrimSpace(text) == "" {
		return
	}
	path := strings.TrimSpace(text)
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		dialog.ShowInformation("Salinha", "O conteúdo colado não é uma imagem.", a.window)
		return
	}
	w, h := a.board.CanvasSize()
	if _, err := a.machine.PasteImage(img, w, h); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.board.Refresh()
}

// importDocument runs the paginated-document import through the
// external rasterizer collaborator.
func (a *App) importDocument() {
	if a.OpenDocument == nil {
		dialog.ShowInformation("Salinha", "Nenhum renderizador de documentos disponível.", a.window)
		return
	}
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		rasterizer, err := a.OpenDocument(path)
		if err != nil {
			dialog.ShowInformation("Salinha", "Não foi possível abrir o documento.", a.window)
			return
		}
		center := a.board.VisibleCenter()
		elements, err := docimport.Import(context.Background(), rasterizer, docimport.Options{
			MaxPages: a.cfg.MaxImportPages,
			Spacing:  a.cfg.PageSpacing,
			Origin:   geom.Point{X: center.X, Y: center.Y},
		})
		if err != nil {
			dialog.ShowInformation("Salinha", "Falha ao importar o documento.", a.window)
			return
		}
		for _, e := range elements {
			a.machine.InsertElement(e)
		}
		a.board.Refresh()
		a.setStatus(fmt.Sprintf("%d página(s) importadas", len(elements)))
	}, a.window)
}
