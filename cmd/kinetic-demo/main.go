// Command kinetic-demo animates the motion variants in a terminal:
// an eased bar, a bouncing physics puck, a spring follower, a
// contiguous relay sequence and a point orbiting a Bézier loop, all
// driven by one tempo ticker. Optional speaker cues mark lifecycle
// events.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/kinetic/audio"
	"github.com/lixenwraith/kinetic/easing"
	"github.com/lixenwraith/kinetic/geom"
	"github.com/lixenwraith/kinetic/motion"
	"github.com/lixenwraith/kinetic/path"
	"github.com/lixenwraith/kinetic/physics"
	"github.com/lixenwraith/kinetic/tempo"
)

const (
	frameInterval = time.Second / 60
	barDuration   = 1500 * time.Millisecond
	relayStep     = 600 * time.Millisecond
	orbitLap      = 4 * time.Second
	puckRestDelay = 1500 * time.Millisecond
	puckSpan      = 100.0
)

var (
	curveFlag = flag.String("curve", "quadInOut", "easing curve driving the bar")
	audioFlag = flag.Bool("audio", false, "play lifecycle cues through the speaker")
)

type demo struct {
	screen tcell.Screen
	width  int
	height int

	clock  *tempo.Ticker
	player *audio.Player
	paused bool

	curveName string

	barValue float64
	bar      *motion.Motion

	puckX    float64
	puck     *motion.Motion
	puckRest time.Time

	springX float64
	spring  *motion.Motion

	relayValues [3]float64
	relay       *motion.Sequence

	orbitPos geom.Point
	orbit    *motion.Motion
}

func newDemo(curveName string, curve easing.Curve, player *audio.Player) (*demo, error) {
	d := &demo{
		curveName: curveName,
		player:    player,
	}

	bar, err := motion.New(&d.barValue, []motion.Prop{{Start: 0, End: 1}}, motion.Config{
		Duration:  barDuration,
		Easing:    curve,
		Reversing: true,
		Repeating: true,
	})
	if err != nil {
		return nil, err
	}
	d.bar = bar

	// Slot bounds double as collision walls; the puck bounces until
	// friction decays it to rest
	puck, err := motion.NewPhysics(&d.puckX, []motion.Prop{{Start: 0, End: puckSpan}}, motion.PhysicsConfig{
		Config: physics.Config{
			Velocity:           120,
			Friction:           0.6,
			Restitution:        0.7,
			CollisionDetection: true,
		},
	}, motion.Config{})
	if err != nil {
		return nil, err
	}
	d.puck = puck

	spring, err := motion.NewSpring(&d.springX, []motion.Prop{{Start: 0, End: 1}}, motion.SpringConfig{
		Frequency: 5,
		Damping:   0.35,
	}, motion.Config{
		Reversing: true,
		Repeating: true,
	})
	if err != nil {
		return nil, err
	}
	d.spring = spring

	steps := make([]motion.Moveable, 0, len(d.relayValues))
	for i := range d.relayValues {
		step, err := motion.New(&d.relayValues[i], []motion.Prop{{Start: 0, End: 1}}, motion.Config{
			Duration: relayStep,
			Easing:   easing.CubicInOut,
		})
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	relay, err := motion.NewSequence(steps, motion.SequenceConfig{
		Reversing: true,
		Mode:      motion.Contiguous,
		Repeating: true,
	})
	if err != nil {
		return nil, err
	}
	d.relay = relay

	loop, err := orbitLoop()
	if err != nil {
		return nil, err
	}
	orbit, err := motion.NewPath(path.NewState(loop, path.ContiguousEdges), &d.orbitPos, motion.PathConfig{
		PrecomputeResolution: 256,
	}, motion.Config{
		Duration:  orbitLap,
		Repeating: true,
	})
	if err != nil {
		return nil, err
	}
	d.orbit = orbit

	d.hookCues()

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	d.screen = screen
	d.width, d.height = screen.Size()

	d.clock = tempo.NewTicker(frameInterval)
	return d, nil
}

// orbitLoop builds a closed loop from four cubic segments
func orbitLoop() (*path.BezierPath, error) {
	const (
		c = 0.5
		r = 0.45
		k = 0.5523 * r
	)
	return path.NewBezierPath(
		path.MoveTo(geom.Pt(c+r, c)),
		path.CubicTo(geom.Pt(c+r, c+k), geom.Pt(c+k, c+r), geom.Pt(c, c+r)),
		path.CubicTo(geom.Pt(c-k, c+r), geom.Pt(c-r, c+k), geom.Pt(c-r, c)),
		path.CubicTo(geom.Pt(c-r, c-k), geom.Pt(c-k, c-r), geom.Pt(c, c-r)),
		path.CubicTo(geom.Pt(c+k, c-r), geom.Pt(c+r, c-k), geom.Pt(c+r, c)),
	)
}

// hookCues maps selected status events to speaker cues
func (d *demo) hookCues() {
	d.bar.OnStatus(func(s motion.Status) {
		switch s.Type {
		case motion.StatusStarted:
			d.player.PlayStart()
		case motion.StatusReversed:
			d.player.PlayReverse()
		}
	})
	d.puck.OnStatus(func(s motion.Status) {
		if s.Type == motion.StatusCompleted {
			d.player.PlayComplete()
		}
	})
	d.relay.OnStatus(func(s motion.Status) {
		if s.Type == motion.StatusStepped {
			d.player.PlayStep()
		}
	})
}

func (d *demo) moveables() []motion.Moveable {
	return []motion.Moveable{d.bar, d.puck, d.spring, d.relay, d.orbit}
}

func (d *demo) start() {
	for _, mv := range d.moveables() {
		mv.Start()
	}
}

func (d *demo) togglePause() {
	if d.paused {
		for _, mv := range d.moveables() {
			mv.Resume()
		}
	} else {
		for _, mv := range d.moveables() {
			mv.Pause()
		}
	}
	d.paused = !d.paused
}

// update advances every motion by one beat and revives the puck after
// it has rested
func (d *demo) update(now time.Time) {
	for _, mv := range d.moveables() {
		mv.Update(now)
	}

	if d.puck.State() != motion.Stopped {
		d.puckRest = time.Time{}
		return
	}
	if d.puckRest.IsZero() {
		d.puckRest = now
		return
	}
	if now.Sub(d.puckRest) >= puckRestDelay {
		d.puck.Start()
		d.puckRest = time.Time{}
	}
}

func (d *demo) run() {
	// Motions write through raw target pointers, so beats are forwarded
	// into the select loop and updates share the render goroutine
	beats := make(chan time.Time, 1)
	d.clock.Attach(tempo.ListenerFunc(func(now time.Time) {
		select {
		case beats <- now:
		default:
		}
	}))
	d.clock.Start()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	d.start()
	d.draw()

	for {
		select {
		case ev := <-eventChan:
			if !d.handleInput(ev) {
				return
			}
		case now := <-beats:
			if !d.paused {
				d.update(now)
			}
			d.draw()
		}
	}
}

func (d *demo) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case ' ':
				d.togglePause()
			}
		}
	case *tcell.EventResize:
		d.width, d.height = d.screen.Size()
		d.screen.Sync()
	}
	return true
}

func (d *demo) draw() {
	d.screen.Clear()

	w, h := d.width, d.height
	if w < 24 || h < 10 {
		d.screen.Show()
		return
	}

	margin := 2
	usable := w - 2*margin

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	labelStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	header := fmt.Sprintf("kinetic demo  [curve: %s]", d.curveName)
	if d.paused {
		header += "  PAUSED"
	}
	d.drawText(margin, 0, header, titleStyle)

	y := 2
	d.drawText(margin, y, "easing", labelStyle)
	d.drawFill(margin, y+1, usable, d.barValue, tcell.StyleDefault.Foreground(tcell.ColorGreen))
	y += 3

	d.drawText(margin, y, "physics", labelStyle)
	d.drawTrack(margin, y+1, usable, d.puckX/puckSpan, '●', tcell.StyleDefault.Foreground(tcell.ColorYellow))
	y += 3

	d.drawText(margin, y, "spring", labelStyle)
	d.drawTrack(margin, y+1, usable, d.springX, '◆', tcell.StyleDefault.Foreground(tcell.ColorRed))
	y += 3

	d.drawText(margin, y, "sequence", labelStyle)
	relayStyle := tcell.StyleDefault.Foreground(tcell.ColorPurple)
	for i, v := range d.relayValues {
		d.drawFill(margin, y+1+i, usable, v, relayStyle)
	}
	y += len(d.relayValues) + 2

	// The orbit box shrinks to whatever height remains above the footer
	boxH := h - y - 2
	if boxH > 9 {
		boxH = 9
	}
	if boxH >= 5 {
		d.drawText(margin, y, "path", labelStyle)
		d.drawOrbit(margin, y+1, boxH)
	}

	d.drawText(margin, h-1, "space: pause   q: quit", labelStyle)
	d.screen.Show()
}

func (d *demo) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range text {
		d.screen.SetContent(x+i, y, r, nil, style)
	}
}

// drawFill renders a bar filled to the given fraction of width
func (d *demo) drawFill(x, y, width int, frac float64, style tcell.Style) {
	filled := int(math.Round(clamp01(frac) * float64(width)))
	for i := 0; i < width; i++ {
		r := '░'
		if i < filled {
			r = '█'
		}
		d.screen.SetContent(x+i, y, r, nil, style)
	}
}

// drawTrack renders a marker at the given fraction along a dotted track
func (d *demo) drawTrack(x, y, width int, frac float64, marker rune, style tcell.Style) {
	trackStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i := 0; i < width; i++ {
		d.screen.SetContent(x+i, y, '·', nil, trackStyle)
	}
	pos := x + int(math.Round(clamp01(frac)*float64(width-1)))
	d.screen.SetContent(pos, y, marker, nil, style)
}

// drawOrbit renders the loop box with the traversal point inside.
// Width is twice the height to offset the cell aspect ratio.
func (d *demo) drawOrbit(x, y, boxH int) {
	boxW := 2 * boxH
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)

	for i := 1; i < boxW-1; i++ {
		d.screen.SetContent(x+i, y, '─', nil, borderStyle)
		d.screen.SetContent(x+i, y+boxH-1, '─', nil, borderStyle)
	}
	for j := 1; j < boxH-1; j++ {
		d.screen.SetContent(x, y+j, '│', nil, borderStyle)
		d.screen.SetContent(x+boxW-1, y+j, '│', nil, borderStyle)
	}
	d.screen.SetContent(x, y, '┌', nil, borderStyle)
	d.screen.SetContent(x+boxW-1, y, '┐', nil, borderStyle)
	d.screen.SetContent(x, y+boxH-1, '└', nil, borderStyle)
	d.screen.SetContent(x+boxW-1, y+boxH-1, '┘', nil, borderStyle)

	ix := x + 1 + int(math.Round(clamp01(d.orbitPos.X)*float64(boxW-3)))
	iy := y + 1 + int(math.Round(clamp01(d.orbitPos.Y)*float64(boxH-3)))
	d.screen.SetContent(ix, iy, '◆', nil, tcell.StyleDefault.Foreground(tcell.ColorAqua))
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

func (d *demo) cleanup() {
	d.clock.Stop()
	d.player.Cleanup()
	d.screen.Fini()
}

func main() {
	// Panic recovery: the deferred cleanup restores the terminal first,
	// then the trace lands on a sane screen
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nkinetic-demo crashed: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	curve, err := easing.ForName(*curveFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\navailable curves: %s\n", err, strings.Join(easing.Names(), ", "))
		os.Exit(1)
	}

	cfg := audio.LoadConfig()
	if *audioFlag {
		cfg.Enabled = true
	}
	player := audio.NewPlayer(cfg)
	if cfg.Enabled {
		if err := player.Initialize(); err != nil {
			fmt.Fprintf(os.Stderr, "Audio initialization failed: %v (continuing without audio)\n", err)
			cfg.Enabled = false
		}
	}

	d, err := newDemo(*curveFlag, curve, player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer d.cleanup()

	d.run()
}
