package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/Johannes-Berggren/mkgitbranch/internal/config"
	"github.com/Johannes-Berggren/mkgitbranch/internal/git"
	"github.com/Johannes-Berggren/mkgitbranch/internal/logger"
	"github.com/Johannes-Berggren/mkgitbranch/internal/models"
	"github.com/Johannes-Berggren/mkgitbranch/internal/ui"
	"github.com/Johannes-Berggren/mkgitbranch/internal/validation"
)

type options struct {
	debug      bool
	configPath string
	logFile    string

	username    string
	branchType  string
	ticket      string
	description string

	print  bool
	copy   bool
	create bool
}

var opts options

var rootCmd = &cobra.Command{
	Use:   "mkgitbranch [directory]",
	Short: "Build a conventional git branch name and create the branch",
	Long: `mkgitbranch - A terminal form for username/type/ticket/description branch names.

The branch name is validated field by field against configurable patterns and
can be copied to the clipboard or created with a configurable git command.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		if (opts.copy || opts.create) && !opts.print {
			return errors.New("--copy and --create require --print")
		}

		if opts.print {
			log := logger.New(cmd.ErrOrStderr(), opts.debug)
			return runPrint(cmd, dir, log)
		}

		log, closer := logger.NewFile(opts.logFile, opts.debug)
		defer closer.Close()
		return runForm(cmd, dir, log)
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	f.StringVar(&opts.configPath, "config", "", "configuration file (overrides MKGITBRANCH_CONFIG)")
	f.StringVar(&opts.logFile, "log-file", "", "log file used while the form is open (default "+logger.DefaultFilePath()+")")

	rf := rootCmd.Flags()
	rf.StringVar(&opts.username, "username", "", "prefill the username")
	rf.StringVar(&opts.branchType, "type", "", "prefill the branch type")
	rf.StringVar(&opts.ticket, "ticket", "", "prefill the JIRA issue")
	rf.StringVar(&opts.description, "description", "", "prefill the description")
	rf.BoolVar(&opts.print, "print", false, "skip the form and print the branch name built from the flags")
	rf.BoolVar(&opts.copy, "copy", false, "with --print, copy the branch name to the clipboard")
	rf.BoolVar(&opts.create, "create", false, "with --print, create the branch")

	rootCmd.AddCommand(configCmd)
}

// exitError carries a process exit code. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	code := 1
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		err = ee.err
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(code)
}

// session is everything both modes need once the repository and
// configuration are known.
type session struct {
	client     *git.Client
	loaded     *config.Loaded
	cfgErr     error
	validator  *validation.Validator
	username   string
	jira       string
	branchType string
}

func openSession(ctx context.Context, dir string, log *logger.Logger) (*session, error) {
	workTree, env, err := git.DetermineWorkTree(dir, os.Environ())
	if err != nil {
		return nil, err
	}
	log.Debug().Str("work_tree", workTree).Strs("env", logger.FilterEnv(env)).Msg("work tree selected")

	client := git.NewClient(workTree, env, log)
	if err := client.IsInsideWorkTree(ctx); err != nil {
		return nil, err
	}

	loaded, cfgErr := config.Resolve(workTree, opts.configPath, log)
	cfg := loaded.Config
	v := validation.FromConfig(cfg, log)

	s := &session{
		client:    client,
		loaded:    loaded,
		cfgErr:    cfgErr,
		validator: v,
		username:  pickUsername(opts.username, cfg),
	}

	if branch, err := client.CurrentBranch(); err == nil {
		s.jira, s.branchType = git.Prefill(branch, v)
		log.Debug().Str("branch", branch).Str("jira", s.jira).Str("type", s.branchType).Msg("prefill from current branch")
	} else {
		log.Debug().Err(err).Msg("no current branch to prefill from")
	}
	if opts.ticket != "" {
		s.jira = opts.ticket
	}
	if opts.branchType != "" {
		s.branchType = opts.branchType
	}
	return s, nil
}

func runForm(cmd *cobra.Command, dir string, log *logger.Logger) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errors.New("the form needs a terminal, use --print for scripts")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, dir, log)
	if err != nil {
		return err
	}
	cfg := s.loaded.Config

	if err := s.client.Guard(ctx, cfg.AllowDirty, cfg.ForbiddenSourceBranches); err != nil {
		return err
	}

	res, err := ui.Run(ui.FormOptions{
		Context:   ctx,
		Config:    cfg,
		Validator: s.validator,
		Actions:   ui.GitActions{Client: s.client, Template: cfg.BranchCreateCommandTemplate},
		Logger:    log,
		Username:  s.username,
		Jira:      s.jira,
		Type:      s.branchType,
		Dark:      ui.DarkMode(cfg.Theme),
		Err:       s.cfgErr,
		Notices:   s.loaded.Warnings,
	})
	if err != nil {
		return err
	}

	log.Info().Str("outcome", res.Outcome.String()).Str("branch", res.Branch).Msg("form closed")
	switch res.Outcome {
	case ui.OutcomeCreated:
		fmt.Fprintf(cmd.OutOrStdout(), "Switched to new branch %s\n", res.Branch)
	case ui.OutcomeCopied:
		fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to the clipboard\n", res.Branch)
	}

	if code := res.ExitCode(); code != 0 {
		return &exitError{code: code, err: res.Err}
	}
	return nil
}

func runPrint(cmd *cobra.Command, dir string, log *logger.Logger) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, dir, log)
	if err != nil {
		return err
	}
	if s.cfgErr != nil {
		return s.cfgErr
	}
	for _, w := range s.loaded.Warnings {
		log.Warn().Msg(w)
	}
	cfg := s.loaded.Config

	name, err := buildName(cfg, s.validator, [4]string{s.username, s.branchType, s.jira, opts.description})
	if err != nil {
		return err
	}

	if opts.create {
		if err := s.client.Guard(ctx, cfg.AllowDirty, cfg.ForbiddenSourceBranches); err != nil {
			return err
		}
		if err := s.client.CreateBranch(ctx, cfg.BranchCreateCommandTemplate, name); err != nil {
			return err
		}
	}
	if opts.copy {
		if err := (ui.GitActions{}).Copy(name); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}

// buildName normalizes and validates the four field values in form order
// and renders them through the branch format.
func buildName(cfg config.Config, v *validation.Validator, values [4]string) (string, error) {
	var d models.Draft
	var bad []string
	for _, f := range models.Fields {
		value := validation.Normalize(f, values[f])
		if v.Set(&d, f, value) != models.StatusValid {
			bad = append(bad, fmt.Sprintf("%s %q", f, value))
		}
	}
	if len(bad) > 0 {
		return "", fmt.Errorf("invalid or missing: %s", strings.Join(bad, ", "))
	}
	return d.Format(cfg.BranchFormat), nil
}

// pickUsername prefers the flag, then the configured username, then the
// login name of the current OS user.
func pickUsername(flag string, cfg config.Config) string {
	if cfg.UsernameReadonly && cfg.Username != "" {
		return cfg.Username
	}
	if flag != "" {
		return flag
	}
	if cfg.Username != "" {
		return cfg.Username
	}
	u, err := user.Current()
	if err != nil {
		return ""
	}
	name := u.Username
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}
	return validation.NormalizeUsername(name)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
