package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sindreglo/addressregister/bootstrap"
	"github.com/sindreglo/addressregister/config"
)

var (
	debug        bool
	showVersion  bool
	runHeadless  bool
	importPath   string
	exportPath   string
	searchFilter string
)

func init() {
	args := os.Args[1:]
	flag.Usage = helpMessage
	flag.BoolVar(&debug, "d", false, "Debug mode")
	flag.BoolVar(&showVersion, "v", false, "Show version information")
	flag.BoolVar(&runHeadless, "nogui", false, "Headless mode")
	flag.StringVar(&importPath, "import", "", "Headless mode: import a .txt or .csv file before anything else")
	flag.StringVar(&exportPath, "export", "", "Headless mode: export the register to a .txt or .csv file")
	flag.StringVar(
		&searchFilter,
		"search",
		"",
		"Headless mode: only print the addresses matching field=prefix, field is one of zip, postal, municipal, municipality, category",
	)
	if err := flag.CommandLine.Parse(args); err != nil {
		log.Fatal(err)
	}
}

func helpMessage() {
	cmdName := os.Args[0]
	output := flag.CommandLine.Output()
	fmt.Fprintf(output, "Usage of %s:\n\n", cmdName)
	fmt.Fprintln(
		output,
		"This tool manages a register of postal addresses that can be imported from and exported to .txt and .csv files.",
	)

	fmt.Fprintln(output, "Flags:")
	flag.PrintDefaults()
}

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Could not access the current working directory: %v\n", err)
	}
	wd := os.DirFS(cwd)
	if debug {
		fmt.Printf("Working directory: %q\n", cwd)
	}
	cfg, err := config.Load(wd)
	if err != nil {
		log.Fatalf("Could not load your configuration: %v\n", err)
	}
	if debug {
		cfg.App.Debug = true
		cfg.Log.Level = config.LogLevelDebug
		fmt.Println("Configuration loaded successfully")
	}

	if showVersion {
		fmt.Printf("%s %s\n", cfg.App.Name, cfg.App.Version)
		return
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatalf("Could not start the address register: %v\n", err)
	}
	defer app.Close()

	if runHeadless {
		if debug {
			fmt.Println("Running in headless mode")
		}
		if err := HeadlessMode(os.Stdout, app, importPath, searchFilter, exportPath); err != nil {
			app.Close()
			log.Fatal(err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		program *tea.Program
		watcher *fileWatcher
	)
	if cfg.Files.Watch {
		delay := time.Duration(cfg.Files.Debounce) * time.Millisecond
		watcher, err = newFileWatcher(app.Logger.With("component", "watcher"), delay, func(msg tea.Msg) {
			program.Send(msg)
		})
		if err != nil {
			app.Logger.Warn("Imported files will not be watched", "error", err)
			watcher = nil
		} else {
			go func() {
				if err := watcher.Run(ctx); err != nil {
					app.Logger.Error("File watcher stopped", "error", err)
				}
			}()
		}
	}

	program = tea.NewProgram(
		NewUI(app, watcher),
		tea.WithAltScreen(), // use the full size of the terminal in its "alternate screen buffer"
	)
	if _, err := program.Run(); err != nil {
		fmt.Println(err)
		cancel()
		app.Close()
		os.Exit(1)
	}
}
