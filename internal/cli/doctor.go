package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/bliss/internal/config"
	"github.com/julianstephens/bliss/internal/validation"
	"github.com/julianstephens/bliss/internal/weather"
)

const doctorTimeout = 5 * time.Second

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false

	// Check 1: config file
	if err := checkConfigFile(ctx); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ctx.printf("⚠ Config file: WARNING\n")
			ctx.printf("   No file at %s, using defaults. Run 'bliss init' to create one.\n", ctx.ConfigPath)
		} else {
			ctx.printf("❌ Config file: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		}
	} else {
		ctx.printf("✓ Config file: OK\n")
	}

	// Check 2: backend URL
	if err := checkBaseURL(ctx); err != nil {
		ctx.printf("❌ Backend URL: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Backend URL: OK (%s)\n", ctx.Config.API.BaseURL)
	}

	// Check 3: log directory
	if err := checkLogDir(ctx); err != nil {
		ctx.printf("❌ Log directory: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Log directory: OK\n")
	}

	// Check 4: backend reachable
	if err := checkBackend(ctx); err != nil {
		ctx.printf("❌ Backend reachable: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Backend reachable: OK\n")
	}

	// Check 5: location (warning only)
	if err := checkLocation(ctx); err != nil {
		ctx.printf("⚠ Location: WARNING\n")
		ctx.printf("   %v\n", err)
	} else {
		ctx.printf("✓ Location: OK\n")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkConfigFile(ctx *Context) error {
	path, err := config.ExpandPath(ctx.ConfigPath)
	if err != nil {
		return err
	}
	if _, err := config.ReadFromFile(path); err != nil {
		return err
	}
	return nil
}

func checkBaseURL(ctx *Context) error {
	u, err := url.Parse(ctx.Config.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", ctx.Config.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", ctx.Config.API.BaseURL)
	}
	return nil
}

func checkLogDir(ctx *Context) error {
	path, err := config.ExpandPath(ctx.ConfigPath)
	if err != nil {
		return err
	}
	logDir := filepath.Join(filepath.Dir(path), "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", logDir, err)
	}
	probe, err := os.CreateTemp(logDir, ".doctor-*")
	if err != nil {
		return fmt.Errorf("log directory %s is not writable: %w", logDir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

func checkBackend(ctx *Context) error {
	c, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()
	if _, err := ctx.Client.ListRoutines(c); err != nil {
		return err
	}
	return nil
}

func checkLocation(ctx *Context) error {
	coords, err := weather.NewConfigLocator(ctx.Config.Location).Locate(context.Background())
	if err != nil {
		return err
	}
	result := validation.New().ValidateCoordinates(coords)
	return result.Err()
}
