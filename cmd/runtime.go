package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/melih-ucgun/rigup/internal/config"
	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/melih-ucgun/rigup/internal/envfile"
	"github.com/melih-ucgun/rigup/internal/system"
	"github.com/melih-ucgun/rigup/internal/transport"
)

// runtime bundles everything a command needs after setup: the rendered
// config and a system context wired to the chosen transport.
type runtime struct {
	cfg    *config.Config
	sys    *core.SystemContext
	remote bool
}

// buildRuntime loads the config, merges env files over the process
// environment, opens the transport (local, or SSH when hostName is set),
// detects host facts and renders the templates. Validation stays with the
// caller so doctor can report findings instead of stopping at the first.
func buildRuntime(ctx context.Context, cfgFile, hostName string, dryRun bool) (*runtime, error) {
	log := core.NewDefaultLogger(os.Stderr, core.LevelFromVerbosity(verboseCount))

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	env := processEnv()
	if len(cfg.EnvFiles) > 0 {
		paths := make([]string, 0, len(cfg.EnvFiles))
		for _, p := range cfg.EnvFiles {
			if !filepath.IsAbs(p) {
				p = filepath.Join(cfg.BaseDir, p)
			}
			paths = append(paths, p)
		}
		fromFiles, err := envfile.Load(&core.RealFS{}, paths...)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFiles {
			env[k] = v
		}
	}

	var tr core.Transport
	remote := hostName != ""
	if remote {
		if cfg.Host == nil || cfg.Host.Name != hostName {
			return nil, fmt.Errorf("host '%s' is not declared in the config", hostName)
		}
		tr, err = transport.NewSSH(*cfg.Host)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to %s: %w", hostName, err)
		}
	} else {
		tr = transport.NewLocal(cfg.Settings.Shell, env)
	}

	sys := core.NewSystemContext(dryRun, tr, log)
	sys.Context = ctx
	sys.BaseDir = cfg.BaseDir
	sys.Env = env
	sys.Vars = cfg.Vars

	if remote {
		if err := system.DetectRemote(sys); err != nil {
			tr.Close()
			return nil, err
		}
	} else {
		system.Detect(sys)
	}

	if err := cfg.Render(sys); err != nil {
		tr.Close()
		return nil, err
	}

	return &runtime{cfg: cfg, sys: sys, remote: remote}, nil
}

func (r *runtime) Close() {
	if r.sys.Transport != nil {
		r.sys.Transport.Close()
	}
}

// validateOrDie prints every validation finding and exits non-zero when
// any exist. Commands that act on the graph call this; doctor formats the
// findings itself.
func (r *runtime) validateOrDie() {
	errs := r.cfg.Validate(r.remote)
	if len(errs) == 0 {
		return
	}
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, "invalid config:", e)
	}
	r.Close()
	os.Exit(1)
}

func processEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
