package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/dreamlock/cmd"
	"github.com/illarion/dreamlock/internal/config"
	"github.com/illarion/dreamlock/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	log, closer := logger.NewFileLogger(cfg.LogPath(), "cli", cfg.Log.Level)
	defer closer.Close()
	cmd.Setup(cfg, log)

	log.Debug().Str("command", os.Args[1]).Msg("starting")

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "add":
		runAdd(ctx, os.Args[2:])
	case "list", "ls":
		runList(ctx, os.Args[2:])
	case "show":
		runShow(ctx, os.Args[2:])
	case "rm":
		runRm(ctx, os.Args[2:])
	case "goal":
		runGoal(ctx, os.Args[2:])
	case "pin":
		runPin(ctx, os.Args[2:])
	case "encrypt":
		runEncrypt(ctx, os.Args[2:])
	case "passwd":
		runPasswd(ctx, os.Args[2:])
	case "recover":
		runRecover(ctx, os.Args[2:])
	case "wipe":
		runWipe(ctx, os.Args[2:])
	case "export":
		runExport(ctx, os.Args[2:])
	case "import":
		runImport(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func usageExit(usage string) {
	fmt.Fprintf(os.Stderr, "Usage: %s\n", usage)
	os.Exit(1)
}

func runInit(_ context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	parseFlags(fs, args)

	cmd.Init()
}

func runStatus(_ context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	parseFlags(fs, args)

	cmd.Status()
}

func runAdd(_ context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title := fs.String("title", "", "Dream title")
	tags := fs.String("tags", "", "Comma separated tags")
	lucid := fs.Bool("lucid", false, "Mark the dream as lucid")
	parseFlags(fs, args)

	cmd.Add(*title, cmd.SplitTags(*tags), *lucid, fs.Args())
}

func runList(_ context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	tag := fs.String("tag", "", "Only show entries with this tag")
	parseFlags(fs, args)

	cmd.List(*tag)
}

func runShow(_ context.Context, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	parseFlags(fs, args)

	if fs.NArg() != 1 {
		usageExit("dreamlock show <id>")
	}
	cmd.Show(fs.Arg(0))
}

func runRm(_ context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	parseFlags(fs, args)

	cmd.Remove(fs.Args())
}

func runGoal(_ context.Context, args []string) {
	if len(args) < 1 {
		usageExit("dreamlock goal <add|list|done>")
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			usageExit("dreamlock goal add <text>")
		}
		cmd.GoalAdd(args[1:])
	case "list":
		cmd.GoalList()
	case "done":
		if len(args) != 2 {
			usageExit("dreamlock goal done <id>")
		}
		cmd.GoalDone(args[1])
	default:
		usageExit("dreamlock goal <add|list|done>")
	}
}

func runPin(_ context.Context, args []string) {
	if len(args) != 1 {
		usageExit("dreamlock pin <set|remove>")
	}
	switch args[0] {
	case "set":
		cmd.PinSet()
	case "remove":
		cmd.PinRemove()
	default:
		usageExit("dreamlock pin <set|remove>")
	}
}

func runEncrypt(ctx context.Context, args []string) {
	if len(args) != 1 {
		usageExit("dreamlock encrypt <on|off>")
	}
	switch args[0] {
	case "on":
		cmd.EncryptOn(ctx)
	case "off":
		cmd.EncryptOff(ctx)
	default:
		usageExit("dreamlock encrypt <on|off>")
	}
}

func runPasswd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	parseFlags(fs, args)

	cmd.Passwd(ctx)
}

func runRecover(_ context.Context, args []string) {
	const usage = "dreamlock recover <titles|timer start|timer status|timer cancel>"
	if len(args) < 1 {
		usageExit(usage)
	}
	switch args[0] {
	case "titles":
		cmd.RecoverTitles()
	case "timer":
		sub := "status"
		if len(args) > 1 {
			sub = args[1]
		}
		switch sub {
		case "start":
			cmd.TimerStart()
		case "status":
			cmd.TimerStatus()
		case "cancel":
			cmd.TimerCancel()
		default:
			usageExit(usage)
		}
	default:
		usageExit(usage)
	}
}

func runWipe(_ context.Context, args []string) {
	fs := flag.NewFlagSet("wipe", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the first confirmation")
	parseFlags(fs, args)

	cmd.Wipe(*yes)
}

func runExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing file")
	parseFlags(fs, args)

	cmd.Export(ctx, fs.Arg(0), *force)
}

func runImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	strategy := fs.String("strategy", "ask", "Conflict strategy: ask, keep-local, use-imported or abort")
	dryRun := fs.Bool("dry-run", false, "Report what would change without writing")
	parseFlags(fs, args)

	cmd.Import(ctx, fs.Arg(0), *strategy, *dryRun)
}

func runCompact(_ context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	parseFlags(fs, args)

	cmd.Compact()
}

func runKeyring(_ context.Context, args []string) {
	if len(args) > 0 && args[0] != "status" {
		usageExit("dreamlock keyring [status]")
	}
	cmd.KeyringStatus()
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		usageExit("dreamlock completion <bash|zsh|fish>")
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("dreamlock - A private, PIN and password protected dream journal")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  dreamlock <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a new journal")
	fmt.Println("  status      Show journal and security status")
	fmt.Println("  add         Record a dream")
	fmt.Println("  list, ls    List dreams")
	fmt.Println("  show        Show one dream")
	fmt.Println("  rm          Delete dreams")
	fmt.Println("  goal        Manage dreaming goals")
	fmt.Println("  pin         Set or remove the PIN")
	fmt.Println("  encrypt     Turn encryption on or off")
	fmt.Println("  passwd      Change the encryption password")
	fmt.Println("  recover     Recover from a forgotten PIN")
	fmt.Println("  wipe        Delete all journal data")
	fmt.Println("  export      Write an encrypted backup")
	fmt.Println("  import      Merge an encrypted backup")
	fmt.Println("  compact     Compact the journal database")
	fmt.Println("  keyring     Show OS keyring status")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  dreamlock init                          # Create a journal")
	fmt.Println("  dreamlock add --title \"Flying\" --lucid   # Record a dream from stdin")
	fmt.Println("  dreamlock pin set                       # Protect the journal with a PIN")
	fmt.Println("  dreamlock encrypt on                    # Encrypt every entry")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  DREAMLOCK_DIR, DREAMLOCK_CONFIG, DREAMLOCK_PIN, DREAMLOCK_PASSWORD")
	fmt.Println()
	fmt.Println("Use 'dreamlock help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("dreamlock init")
		fmt.Println()
		fmt.Println("Creates an empty journal in the data directory ($DREAMLOCK_DIR,")
		fmt.Println("default ~/.dreamlock). The journal starts without PIN or encryption.")
	case "status":
		fmt.Println("dreamlock status")
		fmt.Println()
		fmt.Println("Shows the lock state, PIN and encryption settings, a pending")
		fmt.Println("PIN reset timer and record counts.")
		fmt.Println()
		fmt.Println("Does not require a PIN or password.")
	case "add":
		fmt.Println("dreamlock add [--title <title>] [--tags a,b] [--lucid] [text...]")
		fmt.Println()
		fmt.Println("Records a dream. Without text arguments the dream is read from stdin.")
		fmt.Println("Untitled dreams are saved as \"Untitled Dream\".")
	case "list", "ls":
		fmt.Println("dreamlock list [--tag <tag>]")
		fmt.Println()
		fmt.Println("Lists dreams, oldest first. Lucid dreams are marked with *.")
	case "show":
		fmt.Println("dreamlock show <id>")
		fmt.Println()
		fmt.Println("Shows one dream. A unique ID prefix is enough.")
	case "rm":
		fmt.Println("dreamlock rm <id> [id...]")
		fmt.Println()
		fmt.Println("Deletes dreams and compacts the database.")
	case "goal":
		fmt.Println("dreamlock goal add <text>")
		fmt.Println("dreamlock goal list")
		fmt.Println("dreamlock goal done <id>")
	case "pin":
		fmt.Println("dreamlock pin set")
		fmt.Println("dreamlock pin remove")
		fmt.Println()
		fmt.Println("The PIN is 4 to 6 digits. It gates access but does not encrypt data.")
		fmt.Println("It is stored as a salted PBKDF2 hash in the journal database, or in")
		fmt.Println("the OS keyring with DREAMLOCK_SECURITY_PIN_BACKEND=keyring.")
	case "encrypt":
		fmt.Println("dreamlock encrypt <on|off>")
		fmt.Println()
		fmt.Println("Encrypts every entry, goal and suggestion list with AES-256-GCM")
		fmt.Println("using a key derived from your password. A lost password cannot be")
		fmt.Println("recovered; the journal can only be wiped.")
	case "passwd":
		fmt.Println("dreamlock passwd")
		fmt.Println()
		fmt.Println("Changes the encryption password. Every record is decrypted and")
		fmt.Println("re-encrypted in memory first; nothing is written unless all succeed.")
	case "recover":
		fmt.Println("dreamlock recover titles")
		fmt.Println("dreamlock recover timer <start|status|cancel>")
		fmt.Println()
		fmt.Println("Removes a forgotten PIN, either by naming three dream titles or")
		fmt.Println("after a waiting period (72 hours by default).")
		fmt.Println("Neither option recovers an encryption password.")
	case "wipe":
		fmt.Println("dreamlock wipe [--yes]")
		fmt.Println()
		fmt.Println("Deletes all journal data, the PIN and the encryption setting.")
		fmt.Println("Requires typing the confirmation phrase.")
	case "export":
		fmt.Println("dreamlock export [--force] <file>")
		fmt.Println()
		fmt.Println("Writes an encrypted backup protected by its own password.")
	case "import":
		fmt.Println("dreamlock import [--strategy ask|keep-local|use-imported|abort] [--dry-run] <file>")
		fmt.Println()
		fmt.Println("Merges a backup. Records that differ are conflicts: with 'ask' a diff")
		fmt.Println("is shown for each; 'abort' stops before anything is written.")
	case "compact":
		fmt.Println("dreamlock compact")
		fmt.Println()
		fmt.Println("Compacts the journal database to reclaim unused disk space.")
		fmt.Println("Does not require a PIN or password.")
	case "keyring":
		fmt.Println("dreamlock keyring [status]")
		fmt.Println()
		fmt.Println("Shows whether the OS keyring is available and where the PIN is stored.")
	case "completion":
		fmt.Println("dreamlock completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(dreamlock completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(dreamlock completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  dreamlock completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
