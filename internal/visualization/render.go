// Package visualization draws a running world with ebiten.
package visualization

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"squad-formation-sim/internal/behaviour"
	"squad-formation-sim/internal/common"
	"squad-formation-sim/internal/simulation"
)

const (
	shipSize       = 7.0
	leaderRing     = 11.0
	waypointRadius = 2.0
	slotSize       = 4.0
)

var (
	backgroundColor = color.RGBA{10, 10, 18, 255}
	areaColor       = color.RGBA{60, 60, 80, 255}
	slotColor       = color.RGBA{255, 255, 255, 200}
	inactiveColor   = color.RGBA{90, 90, 90, 255}
	squadColors     = []color.RGBA{
		{80, 200, 255, 255},
		{255, 170, 60, 255},
		{120, 230, 120, 255},
		{240, 90, 140, 255},
		{200, 160, 255, 255},
	}
)

// Scene is what the renderer shows: a world and the area its behaviours
// lay their paths out in.
type Scene struct {
	World *simulation.World
	Area  common.Rect
}

// Loader builds a fresh scene, e.g. after its scenario file changed.
type Loader func() (Scene, error)

// Renderer implements ebiten.Game. Every Update steps the world by a fixed
// dt.
type Renderer struct {
	scene     Scene
	dt        float64
	projector *ViewportProjector
	logger    zerolog.Logger

	load    Loader
	changes <-chan string

	// view grows to keep every entity on screen without re-zooming each
	// frame.
	view      common.Rect
	paused    bool
	stepOnce  bool
	showPaths bool
	showSlots bool

	screenWidth  int
	screenHeight int
}

// NewRenderer creates a renderer stepping scene by dt per tick.
func NewRenderer(scene Scene, dt float64, logger zerolog.Logger) *Renderer {
	r := &Renderer{
		dt:        dt,
		projector: NewViewportProjector(),
		logger:    logger,
		showPaths: true,
		showSlots: true,
	}
	r.setScene(scene)
	return r
}

// WatchReload makes the renderer rebuild its scene with load whenever a
// value arrives on changes, and when R is pressed.
func (r *Renderer) WatchReload(changes <-chan string, load Loader) {
	r.changes = changes
	r.load = load
}

func (r *Renderer) setScene(scene Scene) {
	r.scene = scene
	r.view = Bounds(scene.Area, r.positions())
}

func (r *Renderer) reload(reason string) {
	if r.load == nil {
		return
	}
	scene, err := r.load()
	if err != nil {
		r.logger.Error().Err(err).Str("reason", reason).Msg("scenario reload failed, keeping the current one")
		return
	}
	r.setScene(scene)
	r.logger.Info().Str("reason", reason).Int("squads", len(scene.World.Squads())).Msg("scenario reloaded")
}

func (r *Renderer) positions() []common.Vector {
	var out []common.Vector
	for _, s := range r.scene.World.Squads() {
		for _, e := range s.Active() {
			out = append(out, e.GetPosition())
		}
	}
	return out
}

// Update is called every tick.
func (r *Renderer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		r.paused = !r.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		r.stepOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		r.showPaths = !r.showPaths
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		r.showSlots = !r.showSlots
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		r.view = Bounds(r.scene.Area, r.positions())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		r.reload("key")
	}

	changed := ""
	for drained := false; !drained; {
		select {
		case name, ok := <-r.changes:
			if !ok {
				r.changes = nil
				drained = true
				continue
			}
			changed = name
		default:
			drained = true
		}
	}
	if changed != "" {
		r.reload(changed)
	}

	if !r.paused || r.stepOnce {
		r.scene.World.Step(r.dt)
		r.stepOnce = false
	}

	r.view = Bounds(r.view, r.positions())
	r.projector.Fit(r.view, r.screenWidth, r.screenHeight)
	return nil
}

// Draw is called every frame to render the world.
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	a := r.scene.Area
	ax, ay := r.projector.ToScreen(a.Origin())
	s := float32(r.projector.Scale())
	vector.StrokeRect(screen, ax, ay, float32(a.Width)*s, float32(a.Height)*s, 1, areaColor, false)

	for i, squad := range r.scene.World.Squads() {
		clr := squadColors[i%len(squadColors)]
		if r.showPaths {
			r.drawPath(screen, squad, clr)
		}
		r.drawSquad(screen, squad, clr)
	}

	r.drawDebugInfo(screen)
}

func (r *Renderer) drawPath(screen *ebiten.Image, squad *simulation.Squad, clr color.RGBA) {
	d, ok := squad.Behaviour().(behaviour.PathDebugger)
	if !ok {
		return
	}
	faded := color.RGBA{clr.R / 3, clr.G / 3, clr.B / 3, 255}
	p := d.DebugPath()
	for i, pt := range p {
		x, y := r.projector.ToScreen(pt)
		vector.DrawFilledCircle(screen, x, y, waypointRadius, faded, true)
		if i > 0 {
			px, py := r.projector.ToScreen(p[i-1])
			vector.StrokeLine(screen, px, py, x, y, 1, faded, true)
		}
	}
}

func (r *Renderer) drawSquad(screen *ebiten.Image, squad *simulation.Squad, clr color.RGBA) {
	leader := squad.Leader()
	for _, e := range squad.Entities() {
		x, y := r.projector.ToScreen(e.GetPosition())
		if !e.IsActive() {
			vector.DrawFilledCircle(screen, x, y, 2, inactiveColor, true)
			continue
		}

		if t := e.Target(); e != leader && t != nil && t != simulation.Targetable(simulation.NAWaypoint()) {
			tx, ty := r.projector.ToScreen(t.GetPosition())
			vector.StrokeLine(screen, x, y, tx, ty, 1, color.RGBA{clr.R / 4, clr.G / 4, clr.B / 4, 255}, true)
		}
		drawShip(screen, x, y, e.GetRotation(), clr)

		if e == leader {
			vector.StrokeCircle(screen, x, y, leaderRing, 1.5, clr, true)
		} else if r.showSlots {
			r.drawSlot(screen, squad, e, leader)
		}
	}
}

// drawSlot marks where e's formation slot currently is, behind the leader.
func (r *Renderer) drawSlot(screen *ebiten.Image, squad *simulation.Squad, e, leader *simulation.Entity) {
	if leader == nil {
		return
	}
	delta, err := squad.PositionDelta(e, leader)
	if err != nil {
		return
	}
	slot := leader.Shift(delta.Rotate(leader.GetRotation() - math.Pi)).GetPosition()
	x, y := r.projector.ToScreen(slot)
	vector.DrawFilledRect(screen, x-slotSize/2, y-slotSize/2, slotSize, slotSize, slotColor, false)
}

// drawShip draws a triangle at (x, y) whose nose points along rotation.
// Rotation 0 points up the screen.
func drawShip(screen *ebiten.Image, x, y float32, rotation float64, clr color.RGBA) {
	corner := func(cx, cy float64) (float32, float32) {
		v := common.NewVector(cx, cy).Mul(shipSize).Rotate(rotation)
		return x + float32(v.X), y + float32(v.Y)
	}
	nx, ny := corner(0, -1)
	lx, ly := corner(-0.6, 0.7)
	rx, ry := corner(0.6, 0.7)
	vector.StrokeLine(screen, nx, ny, lx, ly, 1.5, clr, true)
	vector.StrokeLine(screen, lx, ly, rx, ry, 1.5, clr, true)
	vector.StrokeLine(screen, rx, ry, nx, ny, 1.5, clr, true)
}

func (r *Renderer) drawDebugInfo(screen *ebiten.Image) {
	w := r.scene.World
	var b strings.Builder
	fmt.Fprintf(&b, "t=%.1fs step %d  TPS %.0f FPS %.0f", w.SimulationTime(), w.Steps(), ebiten.ActualTPS(), ebiten.ActualFPS())
	if r.paused {
		b.WriteString("  PAUSED")
	}
	b.WriteByte('\n')
	for _, sum := range w.Summary() {
		fmt.Fprintf(&b, "%-12s %2d/%-2d %-7s spread %5.1f\n", sum.Name, sum.Active, sum.Total, sum.Result, sum.SpreadMean)
	}
	b.WriteString("[space] pause [n] step [p] paths [f] slots [z] fit [r] reload")
	ebitenutil.DebugPrint(screen, b.String())
}

// Layout is called when the window size changes.
func (r *Renderer) Layout(outsideWidth, outsideHeight int) (int, int) {
	r.screenWidth = outsideWidth
	r.screenHeight = outsideHeight
	return r.screenWidth, r.screenHeight
}
