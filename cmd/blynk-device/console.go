package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	blynk "github.com/blynkkk/blynk-go"
	"github.com/blynkkk/blynk-go/pkg/wire"
)

// console is the interactive command-line interface for blynk-device,
// letting an operator register handlers, send values, and inspect
// connection state by hand instead of relying on -simulate.
type console struct {
	device *blynk.Device
	sim    *simulator
	rl     *readline.Instance
}

func newConsole(d *blynk.Device, sim *simulator) (*console, error) {
	rl, err := readline.New("device> ")
	if err != nil {
		return nil, fmt.Errorf("interactive console: %w", err)
	}
	return &console{device: d, sim: sim, rl: rl}, nil
}

// run reads commands until EOF, Ctrl-D, or "quit", calling cancel when
// the console should stop the whole process.
func (c *console) run(cancel context.CancelFunc) {
	c.printHelp()

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				cancel()
				return
			}
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := strings.ToLower(fields[0]), fields[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()
		case "send":
			c.cmdSend(args)
		case "power":
			c.cmdPower(args)
		case "start":
			c.sim.start(context.Background())
			fmt.Println("simulation started")
		case "stop":
			c.sim.stop()
			fmt.Println("simulation stopped")
		case "status":
			c.cmdStatus()
		case "quit", "exit", "q":
			cancel()
			return
		default:
			fmt.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *console) printHelp() {
	fmt.Print(`
blynk-device commands:
  send <pin> <value>  - write a value to a virtual pin
  power <value>        - set the simulator's current value directly
  start                - start the periodic virtual-pin simulation
  stop                 - stop the simulation
  status                - show connection state
  help                  - show this help
  quit                  - exit
`)
}

func (c *console) cmdSend(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: send <pin> <value>")
		return
	}
	pin, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		fmt.Printf("invalid pin: %v\n", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.device.Send(ctx, wire.CommandHardware, blynk.String("vw"),
		blynk.Uint(pin), blynk.String(args[1])); err != nil {
		fmt.Printf("send failed: %v\n", err)
		return
	}
	fmt.Println("OK")
}

func (c *console) cmdPower(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: power <value>")
		return
	}
	v, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid value: %v\n", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.sim.setValue(ctx, v); err != nil {
		fmt.Printf("send failed: %v\n", err)
		return
	}
	fmt.Println("OK")
}

func (c *console) cmdStatus() {
	fmt.Printf("state: %s\n", c.device.State())
	fmt.Printf("simulation running: %v\n", c.sim.isRunning())
}

func (c *console) close() {
	c.rl.Close()
}
