// cmd/switchctl/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamzrod/mvswitch/internal/config"
)

const usage = `usage: switchctl [-config file] [-v] <command> [args]

commands:
  init                          run the switch bring-up
  reg-read  <p> <r> <t>         read switch register.  t: 1-phy, 2-port, 3-global, 4-global2, 5-smi
  reg-write <p> <r> <t> <v>     write switch register. v is hexadecimal
  diag      <reg_r|reg_w> "<p> <r> <t> [v]"
  status    [port...]           show link, duplex and speed
  power     <port> [on|off]     show or set PHY power
  atu-dump  [db]                list address table entries
  atu-flush [-db n] [-unlocked] [-move from:to]
  atu-load  <mac> <db> <portvec> <state>
  atu-purge <mac> <db>
  atu-violation                 service one pending address table violation
  pvt-init
  pvt-read  <addr>
  pvt-write <addr> <data>
  monitor   [-bringup]          poll link state and serve metrics
`

func main() {
	cfgPath := flag.String("config", "", "configuration file (defaults apply when empty)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	log, sync := newLogger(*verbose)
	defer sync()

	// --------------------
	// Load + validate config
	// --------------------

	cfg := &config.Config{}
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Error(err, "config load failed")
			os.Exit(1)
		}
	}
	if err := config.Validate(cfg); err != nil {
		log.Error(err, "config validation failed")
		os.Exit(1)
	}
	config.Normalize(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Error(err, "command failed", "command", flag.Arg(0))
		sync()
		os.Exit(1)
	}
}

func newLogger(verbose bool) (logr.Logger, func()) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	zl := zap.New(zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level))
	return zapr.NewLogger(zl), func() { _ = zl.Sync() }
}
