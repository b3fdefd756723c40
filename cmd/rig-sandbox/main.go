// Interactive skeleton viewer. Generates a synthetic figure-eight tracking
// path, runs the full tick pipeline against it and draws the solved skeleton
// top-down and from the side, with a click each time a foot replants.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/marionette/engine"
	"github.com/lixenwraith/marionette/parameter"
	"github.com/lixenwraith/marionette/rig"
	"github.com/lixenwraith/marionette/status"
	"github.com/lixenwraith/marionette/vmath"
)

var (
	knobFile = flag.String("knobs", "", "YAML knob file, hot reloaded on save")
	snapDir  = flag.String("snapshots", ".", "Directory for pose snapshots (space bar)")
	speed    = flag.Float64("speed", 0.25, "Figure-eight angular speed, rad/s")
)

const tickMs = 16

type Sandbox struct {
	screen        tcell.Screen
	width, height int

	store   *parameter.Store
	metrics *status.Registry
	rig     *engine.Rig

	phase    float64
	paused   bool
	snapshot bool // take a snapshot on the next tick

	audioInit bool
}

func NewSandbox() (*Sandbox, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	s := &Sandbox{
		screen:  screen,
		store:   parameter.NewStore(),
		metrics: status.NewRegistry(),
	}
	s.width, s.height = screen.Size()
	s.rig = engine.New(s.store, nil, s.metrics)
	s.rig.SnapshotDir = *snapDir

	if err := s.initAudio(); err != nil {
		// Non-fatal, sandbox can run without sound
		log.Printf("Audio initialization failed: %v", err)
	}

	return s, nil
}

func (s *Sandbox) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		s.audioInit = true
	}
	return err
}

func (s *Sandbox) playStepSound() {
	if !s.audioInit {
		return
	}
	sampleRate := beep.SampleRate(44100)
	duration := sampleRate.N(40 * time.Millisecond)
	sine, _ := generators.SineTone(sampleRate, 660)
	speaker.Play(beep.Take(duration, sine))
}

// trackingAt samples the synthetic figure-eight path. The head sways through
// a lemniscate on the floor plane while the hands swing in counter-phase.
func trackingAt(phase float64) *rig.TrackingFrame {
	headX := 0.6 * math.Sin(phase)
	headZ := 0.3 * math.Sin(2*phase)
	swing := 0.15 * math.Sin(3*phase)

	frame := &rig.TrackingFrame{}
	frame.HmdInStage = vmath.Transform{
		Translation: vmath.Vec3{X: headX, Y: 1.55, Z: headZ},
		Rotation:    vmath.QFromYRotation(0.3 * math.Sin(phase)),
	}
	frame.LeftGripInStage = vmath.TFromTranslation(
		vmath.Vec3{X: headX - 0.3, Y: 1.0, Z: headZ - 0.2 + swing})
	frame.RightGripInStage = vmath.TFromTranslation(
		vmath.Vec3{X: headX + 0.3, Y: 1.0, Z: headZ - 0.2 - swing})
	frame.LeftAimInStage = vmath.TFromTranslation(
		vmath.Vec3{X: headX - 0.3, Y: 1.0, Z: headZ - 0.25 + swing})
	frame.RightAimInStage = vmath.TFromTranslation(
		vmath.Vec3{X: headX + 0.3, Y: 1.0, Z: headZ - 0.25 - swing})
	return frame
}

func (s *Sandbox) tick() {
	if s.paused {
		return
	}
	s.phase += *speed * tickMs / 1000.0

	frame := trackingAt(s.phase)
	frame.MenuPressed = s.snapshot
	s.snapshot = false

	report := s.rig.Tick(frame)
	if report.Replanted {
		s.playStepSound()
	}
}

// bone pairs drawn as line segments between solved node positions
var bones = [][2]rig.NodeID{
	{rig.HeadCenter, rig.Torso},
	{rig.Torso, rig.Pelvis},
	{rig.Torso, rig.LeftUpperArm},
	{rig.LeftUpperArm, rig.LeftLowerArm},
	{rig.LeftLowerArm, rig.LeftPalm},
	{rig.Torso, rig.RightUpperArm},
	{rig.RightUpperArm, rig.RightLowerArm},
	{rig.RightLowerArm, rig.RightPalm},
	{rig.Pelvis, rig.LeftUpperLeg},
	{rig.LeftUpperLeg, rig.LeftLowerLeg},
	{rig.LeftLowerLeg, rig.LeftFoot},
	{rig.Pelvis, rig.RightUpperLeg},
	{rig.RightUpperLeg, rig.RightLowerLeg},
	{rig.RightLowerLeg, rig.RightFoot},
}

// view maps a stage-space point into one of the two panels. Top panel is the
// side view (X right, Y up), bottom panel looks down (X right, Z down).
func (s *Sandbox) view(p vmath.Vec3, side bool) (int, int) {
	panelH := s.height / 2
	scale := float64(panelH) / 2.5
	cx := float64(s.width) / 2

	x := cx + p.X*scale*2 // terminal cells are ~2:1
	if side {
		return int(x), panelH - 1 - int(p.Y*scale)
	}
	return int(x), panelH + panelH/2 + int(p.Z*scale)
}

func (s *Sandbox) drawSegment(a, b vmath.Vec3, side bool, style tcell.Style) {
	x0, y0 := s.view(a, side)
	x1, y1 := s.view(b, side)

	steps := int(math.Max(math.Abs(float64(x1-x0)), math.Abs(float64(y1-y0))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(t*float64(x1-x0))
		y := y0 + int(t*float64(y1-y0))
		if x >= 0 && x < s.width && y >= 0 && y < s.height {
			s.screen.SetContent(x, y, '·', nil, style)
		}
	}
}

func (s *Sandbox) draw() {
	s.screen.Clear()
	pose := s.rig.Pose()

	boneStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	jointStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	footStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for _, side := range []bool{true, false} {
		for _, b := range bones {
			s.drawSegment(pose.Positions[b[0]], pose.Positions[b[1]], side, boneStyle)
		}
		for node := rig.NodeID(0); node < rig.NodeCount; node++ {
			x, y := s.view(pose.Positions[node], side)
			if x < 0 || x >= s.width || y < 0 || y >= s.height {
				continue
			}
			style := jointStyle
			r := 'o'
			switch node {
			case rig.LeftFoot, rig.RightFoot:
				style = footStyle
				r = '#'
			case rig.Hmd:
				r = '@'
			case rig.BalancePoint:
				style = footStyle
				r = '+'
			}
			s.screen.SetContent(x, y, r, nil, style)
		}
	}

	line := fmt.Sprintf(" residual %.4f | steps %d | space: snapshot  p: pause  q: quit",
		s.metrics.Float(status.KeySphericalResidual).Get(),
		s.metrics.Int(status.KeySteps).Load())
	for i, r := range line {
		if i >= s.width {
			break
		}
		s.screen.SetContent(i, s.height-1, r, nil, tcell.StyleDefault)
	}

	s.screen.Show()
}

func (s *Sandbox) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'p':
				s.paused = !s.paused
			case ' ':
				s.snapshot = true
			}
		}
	case *tcell.EventResize:
		s.width, s.height = s.screen.Size()
	}
	return true
}

func (s *Sandbox) run() {
	ticker := time.NewTicker(tickMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- s.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !s.handleInput(ev) {
				return
			}
		case <-ticker.C:
			s.tick()
			s.draw()
		}
	}
}

func (s *Sandbox) cleanup() {
	if s.audioInit {
		speaker.Close()
	}
	s.screen.Fini()
}

func main() {
	flag.Parse()

	sandbox, err := NewSandbox()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer sandbox.cleanup()

	if *knobFile != "" {
		if err := parameter.Load(sandbox.store, *knobFile); err != nil {
			log.Printf("knob file: %v", err)
		}
		stop, err := parameter.Watch(sandbox.store, *knobFile, func(err error) {
			log.Printf("knob reload: %v", err)
		})
		if err != nil {
			log.Printf("knob watch: %v", err)
		} else {
			defer stop()
		}
	}

	sandbox.run()
}
