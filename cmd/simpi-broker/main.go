// Command simpi-broker is the broker process of spec.md §4.7: it owns
// the shared register bank's tick/render loop, loads board documents
// given on the command line, and reads keyboard input to drive pause,
// step, reset, and quit.
//
// CLI parsing stays on the standard library's flag package (no CLI
// framework appears anywhere in the retrieved example pack); the one
// pack dependency that touches argument handling, google/shlex, is wired
// in to tokenize an optional SIMPI_BROKER_ARGS environment variable so
// extra flags can be supplied without reshaping a wrapper script's argv
// (see DESIGN.md).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/eiannone/keyboard"
	"github.com/google/shlex"
	"golang.org/x/term"

	"simpi/broker"
	"simpi/internal/wpilog"
)

// boardFlags implements flag.Value to collect repeated --board flags,
// same convention as most stdlib-flag CLIs that accept a repeatable
// argument.
type boardFlags []string

func (b *boardFlags) String() string { return fmt.Sprint([]string(*b)) }
func (b *boardFlags) Set(v string) error {
	*b = append(*b, v)
	return nil
}

func main() {
	wpilog.Init("simpi-broker")

	args := os.Args[1:]
	if extra := os.Getenv("SIMPI_BROKER_ARGS"); extra != "" {
		tokens, err := shlex.Split(extra)
		if err != nil {
			fmt.Fprintln(os.Stderr, "simpi-broker: invalid SIMPI_BROKER_ARGS:", err)
			os.Exit(1)
		}
		args = append(args, tokens...)
	}

	fs := flag.NewFlagSet("simpi-broker", flag.ExitOnError)
	var boards boardFlags
	fs.Var(&boards, "board", "path to a board document (repeatable)")
	fs.Bool("d", false, "reserved for a future debug mode (currently a no-op)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	bl, err := broker.NewBrokerLoop(boards)
	if err != nil {
		fmt.Fprintln(os.Stderr, "simpi-broker: setup failed:", err)
		os.Exit(1)
	}
	defer bl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		bl.Quit()
		cancel()
	}()

	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		oldState, err := term.MakeRaw(stdinFd)
		if err == nil {
			defer term.Restore(stdinFd, oldState)
		}
		if err := keyboard.Open(); err == nil {
			defer keyboard.Close()
			go readKeyboard(bl, cancel)
		}
	}

	wpilog.Info("broker running")
	if err := bl.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "simpi-broker: run failed:", err)
		os.Exit(1)
	}
}

// readKeyboard is the broker's terminal input-reader thread (spec.md
// §5): it translates single keypresses into BrokerLoop actions and
// forwards everything else as a board keypress event.
func readKeyboard(bl *broker.BrokerLoop, quit context.CancelFunc) {
	for {
		char, key, err := keyboard.GetKey()
		if err != nil {
			return
		}
		switch key {
		case keyboard.KeyCtrlC:
			bl.Quit()
			quit()
			return
		case keyboard.KeyEsc:
			bl.Quit()
			quit()
			return
		case keyboard.KeySpace:
			if bl.Paused() {
				bl.Resume()
			} else {
				bl.Pause()
			}
		default:
			switch char {
			case 's', 'S':
				bl.Step()
			case 'r', 'R':
				bl.RequestReset()
			case 'q', 'Q':
				bl.Quit()
				quit()
				return
			default:
				bl.InjectKeypress(char)
			}
		}
	}
}
