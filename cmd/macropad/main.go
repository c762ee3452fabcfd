package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	keypad "github.com/atkaper/macro-keypad"
)

// defaultAutodetect matches the SparkFun Pro Micro based macro keypads.
const defaultAutodetect = "1B4F:9206 SparkFun"

const examples = `
Note: if you use the 'f' or 'flash' command, you need to increase the timeout
if you also need a response to be read. Count each flash time double (one for
on, one for off time).

Examples:
  macropad -v -l                       debug port autodetection
  macropad -a "9206 hidpc" -l -v       change auto detect keywords to find the keypad device
  macropad help                        get command help from the keypad
  macropad -t 0.3 help                 get command help, use increased timeout on slow computer
  macropad -t 0.5 t 2 f 1 200 e 2 g 1  toggle 2, flash 1 for 200ms, turn on 2 after that, read 1
  macropad -d /dev/ttyACM0 t 1         toggle led 1, use /dev/ttyACM0 instead of autodetecting
`

func main() {
	os.Exit(run())
}

func run() int {
	var (
		interactive bool
		verbose     bool
		quiet       bool
		list        bool
		timeout     float64
		baud        int
		device      string
		autodetect  string
	)

	flag.BoolVar(&interactive, "i", false, `interactive mode (end with "exit" or ctrl-d)`)
	flag.BoolVar(&verbose, "v", false, "verbose / debug mode")
	flag.BoolVar(&quiet, "q", false, "quiet / silent mode (suppress response printing)")
	flag.BoolVar(&list, "l", false, "list serial ports")
	flag.Float64Var(&timeout, "t", 0.1, "time in seconds to wait for the keypad to respond (if partial or no response, change to 0.2 or higher)")
	flag.IntVar(&baud, "b", keypad.DefaultBaudRate.Int(), "baud rate, not interesting for atmega-32u4, but might be for others")
	flag.StringVar(&device, "d", "", "serial device to use (example /dev/ttyACM0)")
	flag.StringVar(&autodetect, "a", defaultAutodetect, "auto detect serial port hwid/description words")
	flag.Usage = usage
	flag.Parse()

	log := newLogger(verbose)

	if device != "" && flagWasSet("a") {
		fmt.Fprintln(os.Stderr, "The -d and -a options are mutually exclusive.")
		flag.Usage()
		return 1
	}

	candidates, err := keypad.Candidates()
	if err != nil {
		log.Error().Err(err).Msg("enumerating serial ports")
		return 1
	}

	pattern := keypad.BuildPattern(autodetect)

	// List mode is pure diagnostics: show every candidate plus the device
	// the autodetect keywords would pick, and never open a port.
	if list {
		matched, _ := keypad.Match(candidates, pattern, log)
		printPortList(candidates, matched)
		return 0
	}

	commands := flag.Args()
	if (len(commands) == 0) != interactive {
		fmt.Fprintln(os.Stderr, "Either specify a command as argument, or use -i for interactive mode.")
		fmt.Fprintln(os.Stderr)
		flag.Usage()
		return 1
	}

	selected := keypad.SelectDevice(candidates, pattern, device, log)

	cfg := keypad.DefaultConfig(selected)
	cfg.BaudRate = baud
	cfg.ReadTimeout = time.Duration(timeout * float64(time.Second))

	sess, err := keypad.Open(cfg, log)
	if err != nil {
		log.Error().Err(err).Str("device", selected).Msg("error opening serial port")
		return 1
	}
	defer sess.Close()

	if interactive {
		if err = sess.Interactive(os.Stdin, os.Stdout); err != nil {
			log.Error().Err(err).Msg("reading input")
		}
		return 0
	}

	command := strings.Join(commands, " ")
	log.Debug().Str("command", command).Dur("read_timeout", cfg.ReadTimeout).Msg("send command")

	answer, err := sess.SendAndWait(command)
	if err != nil {
		log.Error().Err(err).Str("device", selected).Msg("command failed")
		return 1
	}

	switch {
	case quiet:
		log.Debug().Msg("quiet mode, do not print answer")
	case answer != "":
		fmt.Println(answer)
	default:
		log.Debug().Msg("no response")
	}

	return 0
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func printPortList(candidates []keypad.Candidate, choice string) {
	fmt.Println("The following serial ports are found:")
	fmt.Println()
	for _, c := range candidates {
		fmt.Printf("device:%s\n    description:%s\n    hwid:%s\n\n",
			c.Device, valueOrUnknown(c.Description), valueOrUnknown(c.HardwareID))
	}
	if choice == "" {
		choice = "none"
	}
	fmt.Println("Based on the autodetect setting keywords, we would choose: " + choice)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [options] [command ...]\n\n", os.Args[0])
	fmt.Fprintln(out, "Send command to macro keypad. Command words are joined with spaces and sent")
	fmt.Fprintln(out, "as one line; use 'macropad help' for the on-device command help.")
	fmt.Fprintln(out)
	flag.PrintDefaults()
	fmt.Fprint(out, examples)
}
