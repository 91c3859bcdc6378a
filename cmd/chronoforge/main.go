// Command chronoforge is a small terminal demo of the scheduler package:
// it ticks a trail of cells across a tcell screen, each tick scheduled
// through one of the four execution strategies, and renders the
// observed jitter as a color gradient.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lixenwraith/chronoforge/audio"
	"github.com/lixenwraith/chronoforge/clock"
	"github.com/lixenwraith/chronoforge/constant"
	"github.com/lixenwraith/chronoforge/core"
	"github.com/lixenwraith/chronoforge/event"
	"github.com/lixenwraith/chronoforge/scheduler"
	"github.com/lixenwraith/chronoforge/status"
	"github.com/lixenwraith/chronoforge/trigger"
)

// screenResetter adapts a tcell.Screen to core.Resettable so the crash
// handler can restore the terminal without importing tcell itself.
type screenResetter struct{ screen tcell.Screen }

func (r screenResetter) Fini() { r.screen.Fini() }

func strategyFromName(name string) scheduler.Strategy {
	switch name {
	case "highres":
		return scheduler.HighRes
	case "lowres":
		return scheduler.LowRes
	case "polled":
		return scheduler.Polled
	default:
		return scheduler.Background
	}
}

func main() {
	configPath := flag.String("config", "chronoforge.toml", "path to the demo's TOML config file")
	flag.Parse()

	cfg, configWarnings, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chronoforge: load config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := setupLogging(cfg.Debug, "chronoforge.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "chronoforge: setup logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	sessionID := uuid.New().String()
	logger.Infow("session starting", "session_id", sessionID, "strategy", cfg.Strategy)
	for _, w := range configWarnings {
		logger.Warnw("config warning", "detail", w)
	}

	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chronoforge: new screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "chronoforge: init screen: %v\n", err)
		os.Exit(1)
	}
	core.RegisterCrashTerminal(screenResetter{screen: screen})
	defer func() {
		core.RegisterCrashTerminal(nil)
		screen.Fini()
	}()

	audioSvc := audio.NewService()
	if err := audioSvc.Init(cfg.Muted); err != nil {
		logger.Warnw("audio init failed, continuing muted", "err", err)
	}
	if err := audioSvc.Start(); err != nil {
		logger.Warnw("audio start failed, continuing muted", "err", err)
	}
	defer audioSvc.Stop()

	registry := status.NewRegistry()

	var metrics *scheduler.JitterCollector
	if cfg.MetricsAddr != "" {
		metrics = scheduler.NewJitterCollector(4096)
		promReg := prometheus.NewRegistry()
		promReg.MustRegister(metrics)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(promReg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorw("metrics server stopped", "err", err)
			}
		}()
		defer srv.Close()
	}

	opts := []scheduler.Option{scheduler.WithLogger(logger), scheduler.WithClock(clock.Default())}
	if cfg.Aggressive {
		opts = append(opts, scheduler.WithAggressiveJitter())
	}
	if cfg.Primed {
		opts = append(opts, scheduler.WithPrimedJitter())
	}
	if metrics != nil {
		opts = append(opts, scheduler.WithMetrics(metrics))
	}

	strategy := strategyFromName(cfg.Strategy)
	sched := scheduler.New(strategy, opts...)

	d := newDashboard(screen, sched, audioSvc, registry, sessionID)
	d.run(strategy)
}

// tick is the payload carried by each recurring trail-advance event.
// scheduledUs lets the listener compute its own observed jitter for the
// trail color, independent of the scheduler's internal compensator.
type tick struct {
	n           int
	scheduledUs int64
}

type dashboard struct {
	screen    tcell.Screen
	sched     *scheduler.Scheduler
	audio     *audio.Service
	registry  *status.Registry
	sessionID string
	buf       *core.Buffer
	drawable  core.Area
	ev        event.Event[tick]
	done      chan struct{}
	mode      core.DisplayMode
}

func newDashboard(screen tcell.Screen, sched *scheduler.Scheduler, audioSvc *audio.Service, registry *status.Registry, sessionID string) *dashboard {
	w, h := screen.Size()
	buf := core.NewBuffer(w, h)
	d := &dashboard{
		screen:    screen,
		sched:     sched,
		audio:     audioSvc,
		registry:  registry,
		sessionID: sessionID,
		buf:       buf,
		drawable:  core.Area{X: 0, Y: 1, Width: w, Height: max0(h - 2)},
		done:      make(chan struct{}),
	}
	d.ev.AddListener(d.onTick)
	return d
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// onTick advances the trail by one cell, colors it by observed jitter,
// records a metric, occasionally chimes, and reschedules itself. This
// self-rescheduling pattern is how a one-shot Trigger becomes a
// recurring timeline event: there is no repeat primitive in Schedule
// itself.
func (d *dashboard) onTick(e *event.Event[tick]) {
	t := e.Payload()
	if d.drawable.Empty() {
		return
	}
	col := t.n % d.drawable.Width
	row := d.drawable.Y + (t.n/d.drawable.Width)%d.drawable.Height

	deltaUs := clock.Default().NowUs() - t.scheduledUs
	color := core.JitterHeat(deltaUs, 2000)
	style := core.StyleDefault.Background(tcell.NewRGBColor(int32(color.R), int32(color.G), int32(color.B)))
	d.buf.SetContent(col, row, '█', style, 0)
	d.paintTrailFade(col, row, color)

	d.registry.Ints.Get("ticks").Add(1)
	d.registry.Floats.Get("last_delta_us").Set(float64(deltaUs))

	if t.n%20 == 0 {
		if p := d.audio.Player(); p != nil {
			p.Play(core.SoundBell)
		}
	}

	select {
	case <-d.done:
		return
	default:
	}

	nextAtUs := t.scheduledUs + int64(constant.FrameUpdateInterval/time.Microsecond)
	next := tick{n: t.n + 1, scheduledUs: nextAtUs}
	trig := trigger.New(&d.ev, next)
	if _, err := d.sched.Schedule(trig, nextAtUs); err != nil {
		// Background scheduler poisoned underneath us; stop
		// advancing the trail rather than spinning on a broken worker.
		return
	}
}

// paintTrailFade dims the two cells behind the lead one, giving the
// trail a short comet tail instead of a single bare pixel.
func (d *dashboard) paintTrailFade(col, row int, lead core.RGB) {
	fades := []float64{0.45, 0.2}
	for i, factor := range fades {
		tailCol := col - i - 1
		if tailCol < 0 {
			tailCol += d.drawable.Width
		}
		faded := lead.Scale(factor)
		style := core.StyleDefault.Background(tcell.NewRGBColor(int32(faded.R), int32(faded.G), int32(faded.B)))
		d.buf.SetContent(tailCol, row, '▓', style, 0)
	}
}

func (d *dashboard) render() {
	w, h := d.buf.Width(), d.buf.Height()
	for y := 0; y < h; y++ {
		line := d.buf.GetLine(y)
		for x := 0; x < w; x++ {
			cell := line[x]
			d.screen.SetContent(x, y, cell.Rune, nil, cell.Style)
		}
	}
	header := fmt.Sprintf(" chronoforge  session=%s  strategy=%s  ticks=%d  d=%.0fus  (q to quit)",
		d.sessionID[:8], d.sched.Strategy(), d.registry.Ints.Get("ticks").Load(), d.registry.Floats.Get("last_delta_us").Get())
	for i, r := range header {
		if i >= w {
			break
		}
		d.screen.SetContent(i, 0, r, nil, core.StyleDefault.Reverse(true))
	}
	if d.mode == core.ModeOverlay {
		d.renderHelpOverlay(w, h)
	}
	d.screen.Show()
}

func (d *dashboard) renderHelpOverlay(w, h int) {
	lines := []string{
		" q  quit",
		" m  toggle mute",
		" ?  toggle this overlay",
		fmt.Sprintf(" %d metrics registered", d.registry.TotalCount()),
	}
	top := max0(h/2 - len(lines)/2)
	for i, line := range lines {
		for x, r := range line {
			if x >= w {
				break
			}
			d.screen.SetContent(x, top+i, r, nil, core.StyleDefault.Reverse(true))
		}
	}
}

func (d *dashboard) run(strategy scheduler.Strategy) {
	startAtUs := clock.Default().NowUs()
	first := trigger.New(&d.ev, tick{n: 0, scheduledUs: startAtUs})
	if _, err := d.sched.Schedule(first, startAtUs); err != nil {
		return
	}

	switch strategy {
	case scheduler.HighRes, scheduler.LowRes:
		core.Go(d.sched.Run)
	case scheduler.Background:
		_ = d.sched.Exec()
		defer d.sched.Stop()
	case scheduler.Polled:
		// driven from the event-poll loop below, once per frame
	}

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := d.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(constant.FrameUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Rune() == 'q' || ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					close(d.done)
					d.sched.Clear()
					return
				}
				if ev.Rune() == 'm' {
					if p := d.audio.Player(); p != nil {
						p.ToggleMute()
					}
				}
				if ev.Rune() == '?' {
					if d.mode == core.ModeOverlay {
						d.mode = core.ModeDashboard
					} else {
						d.mode = core.ModeOverlay
					}
				}
			case *tcell.EventResize:
				w, h := ev.Size()
				d.buf.Resize(w, h)
				d.drawable = core.Area{X: 0, Y: 1, Width: w, Height: max0(h - 2)}
				d.screen.Sync()
			}
		case <-ticker.C:
			if strategy == scheduler.Polled {
				d.sched.Poll()
			}
			d.render()
		}
	}
}
