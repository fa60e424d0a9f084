// Command impeller-probe loads the Impeller engine, picks a rendering
// backend the way an application would and reports what it found.
//
// With -frames it also records frames on a headless pipeline, which
// exercises the recorder and the worker without a window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/impeller"
	"github.com/gogpu/impeller/backend"
	"github.com/gogpu/impeller/config"
	"github.com/gogpu/impeller/pipeline"
)

func main() {
	var (
		backendName = flag.String("backend", "", "backend to use (auto, metal, vulkan, opengles); overrides the config")
		configFile  = flag.String("config", "", "configuration file; default is the user config")
		frames      = flag.Int("frames", 0, "record this many frames on a headless pipeline")
		verbose     = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *backendName != "" {
		cfg.Backend = *backendName
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	level := cfg.LogLevel()
	if *verbose {
		level = slog.LevelDebug
	}
	impeller.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(cfg, *frames); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	cfg := config.Default()
	if err := cfg.LoadFile(path); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

func run(cfg *config.Config, frames int) error {
	eng, err := impeller.Load(cfg.EngineOptions()...)
	if err != nil {
		return fmt.Errorf("loading engine: %w", err)
	}
	defer eng.Close()
	log.Printf("engine %s (strict=%v)", impeller.VersionString(eng.Version()), eng.Strict())

	kind, _ := cfg.BackendKind()
	platform, _ := cfg.PlatformHint()
	ctx, err := backend.Create(eng, kind, platform, cfg.BackendOptions()...)
	if err != nil {
		var pe *backend.ProbeError
		if errors.As(err, &pe) {
			for _, f := range pe.Failures {
				log.Printf("  %s: %v", f.Backend, f.Err)
			}
		}
		return err
	}
	log.Printf("backend %s", ctx.Backend())
	if info, err := ctx.VulkanInfo(); err == nil {
		log.Printf("vulkan instance=%#x device=%#x queue family=%d",
			info.Instance, info.LogicalDevice, info.GraphicsQueueFamilyIndex)
	}

	if frames <= 0 {
		ctx.Dispose()
		return nil
	}
	return record(ctx, frames)
}

// record builds frames on a pipeline and consumes them from its slot. The
// pipeline owns ctx from here on.
func record(ctx *impeller.Context, frames int) error {
	p, err := pipeline.New(ctx, map[string]pipeline.Scene{"checker": &checker{}})
	if err != nil {
		ctx.Dispose()
		return err
	}

	start := time.Now()
	for i := range frames {
		if err := p.Resize(640+i%2, 480); err != nil {
			break
		}
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if l, ok := p.Slot().Take(); ok {
				if l != nil {
					l.Dispose()
				}
				break
			}
			time.Sleep(time.Millisecond)
		}
	}
	elapsed := time.Since(start)

	err = p.Close()
	st := p.Stats()
	log.Printf("recorded %d frames in %v (%d empty, %d failed, %d superseded)",
		st.Built, elapsed.Round(time.Microsecond), st.Empty, st.Failed, st.Superseded)
	return err
}

// checker draws a checkerboard sized to the viewport.
type checker struct {
	light, dark *impeller.Paint
}

func (c *checker) Render(rec *impeller.Recorder, width, height int) (bool, error) {
	if c.light == nil {
		eng := rec.Engine()
		var err error
		if c.light, err = eng.NewSolidPaint(impeller.RGBA(0.9, 0.9, 0.9, 1)); err != nil {
			return false, err
		}
		if c.dark, err = eng.NewSolidPaint(impeller.RGBA(0.2, 0.2, 0.25, 1)); err != nil {
			return false, err
		}
	}
	const cell = 32
	if err := rec.DrawPaint(c.light); err != nil {
		return false, err
	}
	for y := 0; y < height; y += cell {
		for x := (y / cell % 2) * cell; x < width; x += 2 * cell {
			r := impeller.Rect{X: float32(x), Y: float32(y), Width: cell, Height: cell}
			if err := rec.DrawRect(r, c.dark); err != nil {
				return false, err
			}
		}
	}
	return true, nil
}

// Close releases the paints.
func (c *checker) Close() error {
	if c.light != nil {
		c.light.Dispose()
	}
	if c.dark != nil {
		c.dark.Dispose()
	}
	return nil
}
