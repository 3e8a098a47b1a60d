// cmd/switchctl/commands.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-logr/logr"

	"github.com/tamzrod/mvswitch/internal/bringup"
	"github.com/tamzrod/mvswitch/internal/config"
	"github.com/tamzrod/mvswitch/internal/diag"
	"github.com/tamzrod/mvswitch/internal/switchdev"
)

var errUsage = errors.New("bad arguments")

func run(ctx context.Context, cfg *config.Config, log logr.Logger, cmd string, args []string) error {
	dev, closeFn, err := openSwitch(cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()

	switch cmd {
	case "init":
		return bringup.New(dev, bringup.PlanFrom(cfg.Bringup), log.WithName("bringup")).Run(ctx)
	case "reg-read":
		return regAccess(dev, diag.OpRead, args)
	case "reg-write":
		return regAccess(dev, diag.OpWrite, args)
	case "diag":
		if len(args) < 1 {
			return fmt.Errorf("%w: diag <reg_r|reg_w> <request>", errUsage)
		}
		return regAccess(dev, diag.Op(args[0]), args[1:])
	case "status":
		return showStatus(dev, args)
	case "power":
		return power(dev, args)
	case "atu-dump":
		return atuDump(dev, args)
	case "atu-flush":
		return atuFlush(dev, args)
	case "atu-load":
		return atuLoad(dev, args)
	case "atu-purge":
		return atuPurge(dev, args)
	case "atu-violation":
		return atuViolation(dev)
	case "pvt-init":
		return dev.InitPVT()
	case "pvt-read":
		return pvtRead(dev, args)
	case "pvt-write":
		return pvtWrite(dev, args)
	case "monitor":
		return monitor(ctx, cfg, dev, log, args)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// regAccess runs one diagnostic register request and prints its result line.
func regAccess(dev *switchdev.Dev, op diag.Op, args []string) error {
	req, err := diag.Parse(op, strings.Join(args, " "))
	if err != nil {
		return err
	}
	res := diag.Exec(dev, req)
	fmt.Println(res.String())
	return res.Err
}

func showStatus(dev *switchdev.Dev, args []string) error {
	ports, err := parsePorts(args, dev.Info().NumPorts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PORT\tLINK\tDUPLEX\tSPEED")
	for _, p := range ports {
		s, err := dev.PortStatus(p)
		if err != nil {
			return fmt.Errorf("port %d: %w", p, err)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p, s.LinkString(), s.DuplexString(), s.SpeedString())
	}
	return tw.Flush()
}

func power(dev *switchdev.Dev, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: power <port> [on|off]", errUsage)
	}
	port, err := parseUint8(args[0])
	if err != nil {
		return err
	}

	if len(args) == 1 {
		on, err := dev.PortPower(port)
		if err != nil {
			return err
		}
		fmt.Printf("port %d power %s\n", port, onOff(on))
		return nil
	}

	switch args[1] {
	case "on":
		return dev.SetPortPower(port, true)
	case "off":
		return dev.SetPortPower(port, false)
	default:
		return fmt.Errorf("%w: power state %q", errUsage, args[1])
	}
}

func atuDump(dev *switchdev.Dev, args []string) error {
	var db uint16
	if len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 0, 12)
		if err != nil {
			return fmt.Errorf("%w: db %q", errUsage, args[0])
		}
		db = uint16(v)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MAC\tDB\tPORTS\tSTATE\tPRIO\tTRUNK")
	err := dev.WalkATU(db, func(e switchdev.ATUEntry) error {
		_, err := fmt.Fprintf(tw, "%s\t%d\t0x%03x\t0x%x\t%d\t%t\n",
			e.HardwareAddr(), e.DBNum, e.PortVec, e.State, e.Prio, e.Trunk)
		return err
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}

func atuFlush(dev *switchdev.Dev, args []string) error {
	fs := flag.NewFlagSet("atu-flush", flag.ContinueOnError)
	dbArg := fs.String("db", "", "limit to one database (0..4095)")
	unlocked := fs.Bool("unlocked", false, "keep static entries")
	move := fs.String("move", "", "move entries between ports, from:to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	inDB := *dbArg != ""
	var db uint16
	if inDB {
		v, err := strconv.ParseUint(*dbArg, 0, 12)
		if err != nil {
			return fmt.Errorf("%w: db %q", errUsage, *dbArg)
		}
		db = uint16(v)
	}

	if *move != "" {
		from, to, ok := strings.Cut(*move, ":")
		if !ok {
			return fmt.Errorf("%w: move %q", errUsage, *move)
		}
		f, err := parseUint8(from)
		if err != nil {
			return err
		}
		t, err := parseUint8(to)
		if err != nil {
			return err
		}
		if inDB {
			return dev.MoveATUInDB(db, f, t)
		}
		return dev.MoveATU(f, t)
	}

	if inDB {
		return dev.FlushATUInDB(db, !*unlocked)
	}
	return dev.FlushATU(!*unlocked)
}

func atuLoad(dev *switchdev.Dev, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("%w: atu-load <mac> <db> <portvec> <state>", errUsage)
	}
	mac, err := parseMAC(args[0])
	if err != nil {
		return err
	}
	db, err := strconv.ParseUint(args[1], 0, 12)
	if err != nil {
		return fmt.Errorf("%w: db %q", errUsage, args[1])
	}
	vec, err := strconv.ParseUint(args[2], 0, 16)
	if err != nil {
		return fmt.Errorf("%w: portvec %q", errUsage, args[2])
	}
	state, err := strconv.ParseUint(args[3], 0, 4)
	if err != nil {
		return fmt.Errorf("%w: state %q", errUsage, args[3])
	}
	return dev.LoadATU(switchdev.ATUEntry{
		MAC:     mac,
		DBNum:   uint16(db),
		PortVec: uint16(vec),
		State:   uint8(state),
	})
}

func atuPurge(dev *switchdev.Dev, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: atu-purge <mac> <db>", errUsage)
	}
	mac, err := parseMAC(args[0])
	if err != nil {
		return err
	}
	db, err := strconv.ParseUint(args[1], 0, 12)
	if err != nil {
		return fmt.Errorf("%w: db %q", errUsage, args[1])
	}
	return dev.PurgeATU(mac, uint16(db))
}

func atuViolation(dev *switchdev.Dev) error {
	v, e, err := dev.ServiceATUViolation()
	if err != nil {
		return err
	}
	if v == switchdev.ViolationNone {
		fmt.Println("no violation pending")
		return nil
	}
	fmt.Printf("%s db=%d mac=%s\n", v, e.DBNum, e.HardwareAddr())
	return nil
}

func pvtRead(dev *switchdev.Dev, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%w: pvt-read <addr>", errUsage)
	}
	cell, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		return fmt.Errorf("%w: addr %q", errUsage, args[0])
	}
	v, err := dev.ReadPVT(uint16(cell))
	if err != nil {
		return err
	}
	fmt.Printf("pvt[0x%03x] = 0x%03x\n", cell, v)
	return nil
}

func pvtWrite(dev *switchdev.Dev, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: pvt-write <addr> <data>", errUsage)
	}
	cell, err := strconv.ParseUint(args[0], 0, 16)
	if err != nil {
		return fmt.Errorf("%w: addr %q", errUsage, args[0])
	}
	data, err := strconv.ParseUint(args[1], 0, 16)
	if err != nil {
		return fmt.Errorf("%w: data %q", errUsage, args[1])
	}
	return dev.WritePVT(uint16(cell), uint16(data))
}

// ---- argument helpers ----

func parseUint8(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a port", errUsage, s)
	}
	return uint8(v), nil
}

// parsePorts returns the listed ports, or every port when none are listed.
func parsePorts(args []string, n uint8) ([]uint8, error) {
	if len(args) == 0 {
		out := make([]uint8, 0, n)
		for p := uint8(0); p < n; p++ {
			out = append(out, p)
		}
		return out, nil
	}
	out := make([]uint8, 0, len(args))
	for _, a := range args {
		p, err := parseUint8(a)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func parseMAC(s string) ([6]byte, error) {
	var mac [6]byte
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return mac, fmt.Errorf("%w: mac %q", errUsage, s)
	}
	copy(mac[:], hw)
	return mac, nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
