package main

import (
	"image"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/tilescape/common"
	"github.com/milk9111/tilescape/config"
	"github.com/milk9111/tilescape/editor"
	"github.com/milk9111/tilescape/events"
	"github.com/milk9111/tilescape/grid"
	"github.com/milk9111/tilescape/palette"
	"github.com/milk9111/tilescape/render/gpu"
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
)

const previewTop = 40

// Game adapts the editor to ebiten: it feeds pointer and file input in and
// draws the canvas and palette preview between the UI panels.
type Game struct {
	ed   *editor.Editor
	loop *editor.Loop
	eui  *editorUI

	surface      *gpu.Surface
	canvas       *ebiten.Image
	preview      *ebiten.Image
	layout       palette.Layout
	previewStyle palette.PreviewStyle
	scroll       float64

	pointer pointerTracker
	width   int
	height  int

	configPath   string
	configWatch  *config.Watcher
	importWatch  *config.Watcher
	imports      *palette.ImportBatch
	newMap       grid.Metadata
	hasClipboard bool

	log logrus.FieldLogger
}

func (g *Game) canvasRect() common.Rect {
	w := float64(g.width - leftPanelWidth - g.eui.rightWidth)
	return common.Rect{X: leftPanelWidth, Y: 0, Width: math.Max(w, 1), Height: math.Max(float64(g.height), 1)}
}

func (g *Game) previewRect() common.Rect {
	return common.Rect{
		X:      float64(g.width-g.eui.rightWidth) + 10,
		Y:      previewTop,
		Width:  g.layout.Width,
		Height: math.Max(float64(g.height-previewTop-10), 1),
	}
}

func (g *Game) Update() error {
	g.eui.ui.Update()

	canvas := g.canvasRect()
	for _, ev := range g.pointer.Poll(canvas) {
		g.ed.HandlePointer(ev)
	}
	g.updatePreview()

	if files := ebiten.DroppedFiles(); files != nil {
		uploads, err := palette.ReadFS(files)
		if err != nil {
			g.log.WithError(err).Warn("read dropped files")
		} else if len(uploads) > 0 {
			g.ed.Palette().Upload(uploads)
		}
	}

	if !g.eui.Typing() && ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.save()
	}

	g.pollWatchers()
	return nil
}

func (g *Game) updatePreview() {
	r := g.previewRect()
	mx, my := ebiten.CursorPosition()
	p := common.Point{X: float64(mx), Y: float64(my)}
	if !r.Contains(p) {
		return
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		maxScroll := math.Max(g.layout.Height(g.ed.Palette().Len())-r.Height, 0)
		g.scroll = common.Clamp(g.scroll-wy*30, 0, maxScroll)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.ed.SelectPaletteAt(g.layout, p.X-r.X, p.Y-r.Y+g.scroll)
	}
}

func (g *Game) pollWatchers() {
	if g.configWatch != nil {
		select {
		case <-g.configWatch.Events:
			g.reloadConfig()
		case err := <-g.configWatch.Errors:
			g.log.WithError(err).Warn("config watcher")
		default:
		}
	}
	if g.importWatch != nil {
		now := time.Now()
	drain:
		for {
			select {
			case name, ok := <-g.importWatch.Events:
				if !ok {
					break drain
				}
				g.imports.Add(name, now)
			case err, ok := <-g.importWatch.Errors:
				if !ok {
					break drain
				}
				g.log.WithError(err).Warn("import watcher")
			default:
				break drain
			}
		}
		if names := g.imports.Ready(now); names != nil {
			g.importFiles(names)
		}
	}
}

// importFiles uploads the readable files among names as one batch.
func (g *Game) importFiles(names []string) {
	var uploads []palette.Upload
	for _, name := range names {
		u, err := palette.ReadFiles(name)
		if err != nil {
			g.log.WithError(err).Warn("read imported file")
			continue
		}
		uploads = append(uploads, u...)
	}
	if len(uploads) == 0 {
		return
	}
	g.log.WithField("files", len(uploads)).Info("importing tile images")
	g.ed.Palette().Upload(uploads)
}

// reloadConfig applies the colors and preview layout of an edited config
// file. Map and storage settings only take effect on restart.
func (g *Game) reloadConfig() {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		g.log.WithError(err).Warn("config reload rejected")
		g.eui.SetStatus("config error: " + err.Error())
		return
	}
	style, err := cfg.Style()
	if err != nil {
		g.log.WithError(err).Warn("config reload rejected")
		return
	}
	g.ed.Engine().Style = style
	layout := cfg.Layout()
	layout.Width = g.layout.Width
	g.layout = layout
	g.newMap = cfg.MapMetadata()
	g.log.WithField("path", g.configPath).Info("config reloaded")
	g.eui.SetStatus("config reloaded")
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.eui.ui.Draw(screen)

	canvas := g.canvasRect()
	cw, ch := int(canvas.Width), int(canvas.Height)
	if g.canvas == nil || g.canvas.Bounds().Dx() != cw || g.canvas.Bounds().Dy() != ch {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(cw, ch)
	}
	g.surface.SetTarget(g.canvas)
	g.loop.Step()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(canvas.X, canvas.Y)
	screen.DrawImage(g.canvas, op)

	g.drawPreview(screen)
}

func (g *Game) drawPreview(screen *ebiten.Image) {
	n := g.ed.Palette().Len()
	if n == 0 {
		return
	}
	pw, ph := int(g.layout.Width), int(math.Ceil(g.layout.Height(n)))
	if pw <= 0 || ph <= 0 {
		return
	}
	if g.preview == nil || g.preview.Bounds().Dx() != pw || g.preview.Bounds().Dy() != ph {
		if g.preview != nil {
			g.preview.Deallocate()
		}
		g.preview = ebiten.NewImage(pw, ph)
	}
	g.surface.SetTarget(g.preview)
	g.ed.Palette().Draw(g.surface, g.layout, g.previewStyle)

	r := g.previewRect()
	clip := screen.SubImage(image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))).(*ebiten.Image)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(r.X, r.Y-g.scroll)
	clip.DrawImage(g.preview, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Handle receives editor events after each tick.
func (g *Game) Handle(evt events.Event) {
	switch e := evt.(type) {
	case events.SaveCompleted:
		g.eui.ShowMap(g.ed.Meta(), e.ID)
		g.eui.SetStatus("saved " + e.ID)
	case events.SaveFailed:
		g.eui.SetStatus("save failed: " + e.Err.Error())
	case events.LoadFailed:
		g.eui.SetStatus("load failed: " + e.Err.Error())
	case events.MapLoaded:
		g.eui.ShowMap(e.Meta, e.ID)
		g.eui.SetStatus("loaded " + e.ID)
		g.forgetTextures()
	case events.PaletteChanged:
		g.scroll = 0
		g.forgetTextures()
		g.log.WithField("tiles", e.Count).Debug("palette changed")
	case events.PaletteSelected:
		g.log.WithField("index", e.Index).Debug("palette selected")
	}
}

// forgetTextures drops GPU copies no palette entry or placed tile uses.
func (g *Game) forgetTextures() {
	keep := make(map[string]bool)
	for _, e := range g.ed.Palette().Entries() {
		if e.Image != nil {
			keep[e.Image.ID] = true
		}
	}
	g.ed.Grid().Each(func(_ grid.Coord, t grid.Tile) bool {
		if t.Image != nil {
			keep[t.Image.ID] = true
		}
		return true
	})
	g.surface.Forget(keep)
}

func (g *Game) save() {
	if _, err := g.ed.Save(); err != nil {
		g.log.WithError(err).Error("save map")
	}
}

func (g *Game) load(id string) {
	if id == "" {
		g.eui.SetStatus("enter a map id to load")
		return
	}
	_ = g.ed.Load(id)
}

func (g *Game) copyID() {
	id := g.ed.MapID()
	if id == "" {
		g.eui.SetStatus("save the map first")
		return
	}
	if !g.hasClipboard {
		g.eui.SetStatus("clipboard unavailable")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(id))
	g.eui.SetStatus("copied " + id)
}

func (g *Game) pasteID() {
	if !g.hasClipboard {
		g.eui.SetStatus("clipboard unavailable")
		return
	}
	if data := clipboard.Read(clipboard.FmtText); len(data) > 0 {
		g.eui.idInput.SetText(string(data))
	}
}

func (g *Game) pasteImage() {
	if !g.hasClipboard {
		g.eui.SetStatus("clipboard unavailable")
		return
	}
	data := clipboard.Read(clipboard.FmtImage)
	if len(data) == 0 {
		g.eui.SetStatus("no image on the clipboard")
		return
	}
	g.ed.Palette().Upload([]palette.Upload{{Name: "clipboard.png", MIME: "image/png", Data: data}})
}

func (g *Game) newMapFromConfig() {
	g.ed.NewMap(g.newMap)
	g.eui.ShowMap(g.ed.Meta(), "")
	g.eui.SetStatus("new map")
	g.forgetTextures()
}

// Close stops the file watchers.
func (g *Game) Close() {
	if g.configWatch != nil {
		_ = g.configWatch.Close()
	}
	if g.importWatch != nil {
		_ = g.importWatch.Close()
	}
}
