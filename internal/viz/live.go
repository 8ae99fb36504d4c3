package viz

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/scene"
)

const (
	canvasCols      = 60
	canvasRows      = 24
	historyCapacity = 300
	orbitSegments   = 64
)

type TickMsg time.Time

type pauser interface {
	Paused() bool
}

type windControls interface {
	WindEnabled() bool
	WindStrength() float64
	Gravity() r3.Vec
}

// Model drives one scene interactively.
type Model struct {
	scene   scene.Scene
	frameDt float64
	canvas  *Canvas
	camera  *Camera
	pending scene.Commands
	rng     *rand.Rand

	energy []float64
	err    error
}

// NewModel frames the camera on the initial state of sc. The scene is
// advanced by 1/fps per tick.
func NewModel(sc scene.Scene, fps float64) Model {
	canvas := NewCanvas(canvasCols, canvasRows)
	w, h := canvas.PixelSize()
	center, radius := bounds(sc.State())
	if _, ok := sc.(*scene.Orbit); ok {
		center, radius = r3.Vec{}, 1.2
	}
	scale := 0.45 * float64(min(w, h)) / math.Max(radius, 1)

	return Model{
		scene:   sc,
		frameDt: 1 / fps,
		canvas:  canvas,
		camera:  NewCamera(center, scale),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		energy:  make([]float64, 0, historyCapacity),
	}
}

func bounds(x dynamo.State) (center r3.Vec, radius float64) {
	if x.Len() == 0 {
		return r3.Vec{}, 1
	}
	for _, p := range x.Positions {
		center = r3.Add(center, p)
	}
	center = r3.Scale(1/float64(x.Len()), center)
	for _, p := range x.Positions {
		radius = math.Max(radius, r3.Norm(r3.Sub(p, center)))
	}
	return center, radius
}

func tick(frameDt float64) tea.Cmd {
	return tea.Tick(time.Duration(frameDt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick(m.frameDt)
}

// Update queues commands on key presses and advances the scene on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case TickMsg:
		m.step()
		return m, tick(m.frameDt)
	}
	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.pending.TogglePause = !m.pending.TogglePause
	case "r":
		m.pending.Reset = true
		m.energy = m.energy[:0]
		m.err = nil
	case "p":
		m.pending.CyclePins = !m.pending.CyclePins
	case "w":
		m.pending.ToggleWind = !m.pending.ToggleWind
	case "b":
		m.pending.ToggleBall = !m.pending.ToggleBall
	case "+", "=":
		m.scaleWind(1.25)
	case "-", "_":
		m.scaleWind(0.8)
	case "g":
		if wc, ok := m.scene.Simulation().System().(windControls); ok {
			g := r3.Scale(-1, wc.Gravity())
			m.pending.Gravity = &g
		}
	case "d":
		m.kick()
	case "left":
		m.camera.Rotate(-0.1, 0)
	case "right":
		m.camera.Rotate(0.1, 0)
	case "up":
		m.camera.Rotate(0, 0.1)
	case "down":
		m.camera.Rotate(0, -0.1)
	case "z":
		m.camera.Zoom(1.2)
	case "x":
		m.camera.Zoom(1 / 1.2)
	}
	return m, nil
}

func (m *Model) scaleWind(factor float64) {
	wc, ok := m.scene.Simulation().System().(windControls)
	if !ok {
		return
	}
	s := wc.WindStrength()
	if m.pending.WindStrength != nil {
		s = *m.pending.WindStrength
	}
	s *= factor
	m.pending.WindStrength = &s
}

// kick drags a random free particle by a small random offset.
func (m *Model) kick() {
	sys := m.scene.Simulation().System()
	pins, _ := sys.(dynamo.Pinner)
	free := make([]int, 0, sys.NumParticles())
	for i := 0; i < sys.NumParticles(); i++ {
		if pins == nil || !pins.IsFixed(i) {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return
	}
	offset := r3.Vec{X: m.rng.Float64() - 0.5, Y: m.rng.Float64() - 0.5, Z: m.rng.Float64() - 0.5}
	m.pending.Drag = &scene.Drag{Particle: free[m.rng.Intn(len(free))], Offset: offset}
}

func (m *Model) step() {
	cmd := m.pending
	m.pending = scene.Commands{}
	if err := m.scene.Update(m.frameDt, cmd); err != nil {
		m.err = err
		return
	}
	m.err = nil

	if h, ok := m.scene.Simulation().System().(dynamo.Hamiltonian); ok {
		m.energy = append(m.energy, h.Energy(m.scene.State()))
		if len(m.energy) > historyCapacity {
			m.energy = m.energy[1:]
		}
	}
}

// Draw renders the current scene onto the canvas.
func (m *Model) Draw() {
	m.canvas.Clear()
	w, h := m.canvas.PixelSize()
	project := func(p r3.Vec) (int, int) {
		x, y, _ := m.camera.Project(p, w, h)
		return x, y
	}

	switch sc := m.scene.(type) {
	case *scene.Orbit:
		m.drawOrbitReference(project)
		for _, p := range sc.Positions() {
			x, y := project(p)
			m.canvas.Dot(x, y, 1)
		}
		return
	case *scene.Cloth:
		obs := sc.Obstacles()
		if obs.Sphere.Enabled {
			x, y := project(obs.Sphere.Center)
			m.canvas.Circle(x, y, int(math.Round(obs.Sphere.Radius*m.camera.Scale)))
		}
		if obs.Ground.Enabled {
			c := m.camera.Target
			x0, y0 := project(r3.Vec{X: c.X - 10, Y: obs.Ground.Height, Z: c.Z})
			x1, y1 := project(r3.Vec{X: c.X + 10, Y: obs.Ground.Height, Z: c.Z})
			m.canvas.Line(x0, y0, x1, y1)
		}
	}

	x := m.scene.State()
	sys := m.scene.Simulation().System()
	if net, ok := sys.(metrics.SpringNetwork); ok {
		for _, s := range net.Springs() {
			x0, y0 := project(x.Positions[s.Start])
			x1, y1 := project(x.Positions[s.End])
			m.canvas.Line(x0, y0, x1, y1)
		}
	}
	pins, _ := sys.(dynamo.Pinner)
	for i, p := range x.Positions {
		px, py := project(p)
		if pins != nil && pins.IsFixed(i) {
			m.canvas.Dot(px, py, 1)
		} else {
			m.canvas.Set(px, py)
		}
	}
}

func (m *Model) drawOrbitReference(project func(r3.Vec) (int, int)) {
	px, py := project(r3.Vec{X: 1})
	for k := 1; k <= orbitSegments; k++ {
		a := 2 * math.Pi * float64(k) / orbitSegments
		x, y := project(r3.Vec{X: math.Cos(a), Y: math.Sin(a)})
		m.canvas.Line(px, py, x, y)
		px, py = x, y
	}
}

// View renders the canvas next to the stats panel.
func (m Model) View() string {
	m.Draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(titleStyle.Render(strings.ToUpper(m.scene.Name())) + "\n")
	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render("ERROR: "+m.err.Error()) + "\n")
	case isPaused(m.scene):
		s.WriteString(pausedStyle.Render("PAUSED") + "\n")
	default:
		s.WriteString(onStyle.Render("RUNNING") + "\n")
	}
	s.WriteString("\n")

	sim := m.scene.Simulation()
	last := sim.LastFrame()
	s.WriteString(Row("Time", fmt.Sprintf("%.2fs", m.scene.Time())) + "\n")
	s.WriteString(Row("Sub-steps", fmt.Sprintf("%d x %.4f", last.SubSteps, last.StepDt)) + "\n")
	s.WriteString(Row("Rollover", fmt.Sprintf("%.4f", last.Rollover)) + "\n")
	s.WriteString(Row("Contacts", fmt.Sprintf("%d sphere / %d ground", last.Contacts.Sphere, last.Contacts.Ground)) + "\n")

	if wc, ok := sim.System().(windControls); ok {
		s.WriteString(Toggle("Wind", wc.WindEnabled()) + "\n")
		s.WriteString(Row("Strength", fmt.Sprintf("%.2f", wc.WindStrength())) + "\n")
		s.WriteString(Row("Gravity", fmt.Sprintf("%.1f", wc.Gravity().Y)) + "\n")
	}
	switch sc := m.scene.(type) {
	case *scene.Cloth:
		s.WriteString(Row("Pins", sc.Pins()) + "\n")
		s.WriteString(Toggle("Ball", sc.Ball().Enabled) + "\n")
	case *scene.Pendulum:
		s.WriteString(Toggle("Anchor", sc.Pinned()) + "\n")
	case *scene.Orbit:
		errs := sc.Errors()
		for i, k := range sc.Kinds() {
			s.WriteString(Row(k.String(), fmt.Sprintf("%.2e", errs[i])) + "\n")
		}
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("SP pause  R reset  P pins  W wind  +/- strength\nG gravity  B ball  D kick  ←↑↓→ orbit  Z/X zoom  Q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
}

func isPaused(sc scene.Scene) bool {
	p, ok := sc.(pauser)
	return ok && p.Paused()
}

// Run starts the interactive program and blocks until the user quits.
func Run(sc scene.Scene, fps float64) error {
	_, err := tea.NewProgram(NewModel(sc, fps), tea.WithAltScreen()).Run()
	return err
}
