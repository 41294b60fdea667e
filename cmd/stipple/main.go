// Command stipple is the reference driver for the Stipple bytecode VM: it
// loads a compiled program, runs it to completion or fault, and exposes the
// engine's diagnostic state. It is a conforming driver in the sense of
// spec.md §6 ("Driver surface") — construct, load, run, inspect — and is
// explicitly outside the engine's own scope (spec.md §1): nothing here
// participates in execution semantics.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/peterh/liner"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stipplevm/stipple/pkg/vm"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file (step budget, trace toggle)",
	}
	traceFlag = cli.BoolFlag{
		Name:  "trace",
		Usage: "print one line per executed instruction",
	}
	stepsFlag = cli.IntFlag{
		Name:  "step-budget",
		Usage: "stop after N steps even if the program hasn't halted (0 = unbounded)",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "stipple"
	app.Usage = "run and inspect Stipple VM bytecode programs"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{configFlag}
	app.Commands = []cli.Command{
		{
			Name:      "run",
			Usage:     "load a bytecode file and run it to completion",
			ArgsUsage: "<program.bin>",
			Flags:     []cli.Flag{traceFlag, stepsFlag},
			Action:    runCommand,
		},
		{
			Name:      "dump",
			Usage:     "run a bytecode file step by step, printing engine state as a table",
			ArgsUsage: "<program.bin>",
			Flags:     []cli.Flag{stepsFlag},
			Action:    dumpCommand,
		},
		{
			Name:      "repl",
			Usage:     "interactively step/run/dump a loaded program",
			ArgsUsage: "[program.bin]",
			Action:    replCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadDriverConfig reads the --config TOML file, if any, layering flag
// overrides on top (SPEC_FULL.md §2.3).
func loadDriverConfig(c *cli.Context) (driverConfig, error) {
	cfg := defaultConfig()
	if file := c.GlobalString(configFlag.Name); file != "" {
		if err := loadConfig(file, &cfg); err != nil {
			return cfg, err
		}
	}
	if c.IsSet(traceFlag.Name) {
		cfg.Trace = c.Bool(traceFlag.Name)
	}
	if c.IsSet(stepsFlag.Name) {
		cfg.StepBudget = c.Int(stepsFlag.Name)
	}
	return cfg, nil
}

func readProgram(c *cli.Context) ([]byte, error) {
	path := c.Args().First()
	if path == "" {
		return nil, fmt.Errorf("missing <program.bin> argument")
	}
	return os.ReadFile(path)
}

// statusExitCode follows spec.md §6's driver convention: 0 on OK,
// non-zero on any other terminal status.
func statusExitCode(st vm.Status) int {
	if st.OK() {
		return 0
	}
	return int(st) + 1
}

func runCommand(c *cli.Context) error {
	cfg, err := loadDriverConfig(c)
	if err != nil {
		return err
	}
	program, err := readProgram(c)
	if err != nil {
		return err
	}

	out := colorableStdout()
	e := vm.New()
	if cfg.Trace {
		e.Trace = out
	}
	if st := e.Load(program); !st.OK() {
		printStatus(out, st)
		os.Exit(statusExitCode(st))
	}

	status, runErr := runBudgeted(e, cfg.StepBudget)
	if runErr != nil {
		return runErr
	}
	printStatus(out, status)
	os.Exit(statusExitCode(status))
	return nil
}

// runBudgeted runs e to completion, or until budget steps have executed
// when budget > 0 (spec.md §5: "a host wanting bounded execution counts
// steps externally" — the engine itself has no step ceiling).
func runBudgeted(e *vm.Engine, budget int) (vm.Status, error) {
	if budget <= 0 {
		return e.Run()
	}
	for i := 0; i < budget; i++ {
		status, err := e.Step()
		if err != nil {
			return status, err
		}
		if status == vm.StatusHalt {
			return vm.StatusOK, nil
		}
		if status != vm.StatusOK {
			return status, nil
		}
	}
	return vm.StatusOK, nil
}

func dumpCommand(c *cli.Context) error {
	program, err := readProgram(c)
	if err != nil {
		return err
	}
	budget := c.Int(stepsFlag.Name)
	if budget <= 0 {
		budget = 1 << 20
	}

	e := vm.New()
	if st := e.Load(program); !st.OK() {
		return st
	}

	out := colorableStdout()
	for i := 0; i < budget; i++ {
		status, err := e.Step()
		if err != nil {
			return err
		}
		renderDump(out, e.Dump())
		if status != vm.StatusOK {
			break
		}
	}
	return nil
}

func replCommand(c *cli.Context) error {
	e := vm.New()
	if path := c.Args().First(); path != "" {
		program, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if st := e.Load(program); !st.OK() {
			return st
		}
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	out := colorableStdout()
	fmt.Fprintln(out, "stipple VM repl — step, run, dump, reset, quit")

	for {
		input, err := line.Prompt("stipple> ")
		if err != nil {
			return nil
		}
		line.AppendHistory(input)

		switch input {
		case "quit", "exit":
			return nil
		case "step":
			status, err := e.Step()
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			printStatus(out, status)
		case "run":
			status, err := e.Run()
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			printStatus(out, status)
		case "dump":
			renderDump(out, e.Dump())
		case "reset":
			e.Reset()
			fmt.Fprintln(out, "reset")
		default:
			fmt.Fprintln(out, "commands: step, run, dump, reset, quit")
		}
	}
}

func colorableStdout() io.Writer {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	return colorable.NewColorableStdout()
}

func printStatus(out io.Writer, st vm.Status) {
	if st.OK() || st == vm.StatusHalt {
		color.New(color.FgGreen).Fprintln(out, st.String())
		return
	}
	color.New(color.FgRed, color.Bold).Fprintln(out, st.String())
}

func renderDump(out io.Writer, d vm.DumpState) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"field", "value"})
	table.Append([]string{"pc", fmt.Sprintf("%04X", d.PC)})
	table.Append([]string{"sp", fmt.Sprintf("%d", d.SP)})
	table.Append([]string{"flags", fmt.Sprintf("Z=%v L=%v G=%v", d.Z, d.L, d.G)})
	table.Append([]string{"last_error", d.LastError.String()})
	for _, slot := range d.Slots {
		if slot.Kind == "ret_val" {
			table.Append([]string{"ret_val", slot.Value.String()})
			continue
		}
		table.Append([]string{fmt.Sprintf("%s[%d]", slot.Kind, slot.Index), slot.Value.String()})
	}
	table.Render()
}
