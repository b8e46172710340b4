// =============================================================================
// commands.go - Cobra Command Tree
// =============================================================================
//
//	adcpctl [repl]            Interactive REPL (default)
//	adcpctl power on|off      Switch power
//	adcpctl status            Power, error, warning and identity report
//	adcpctl info              Model name and serial number
//	adcpctl send <cmd...>     Send one raw ADCP command
//	adcpctl simulate          Run a simulated projector
//	adcpctl completion <sh>   Shell completion script
//	adcpctl version           Print the version
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/adcp/adcpctl/adcpprotocol"
	"github.com/adcp/adcpctl/adcpprotocol/adcpsim"
)

// app carries flag values and the state resolved in PersistentPreRunE.
type app struct {
	cfgFile  string
	host     string
	port     int
	password string
	timeout  time.Duration
	logLevel string
	output   string

	cfg       *Config
	formatter Formatter
}

// newRootCmd builds the command tree. Each call returns an independent
// tree so tests can execute commands in isolation.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   appName,
		Short: "Control ADCP projectors and displays over TCP",
		Long: `adcpctl talks to projectors and displays that implement ADCP, the
line-oriented control protocol on TCP port 53595. Without a subcommand it
opens an interactive REPL.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		RunE:              a.runREPL,
	}
	root.SetVersionTemplate(fullTitle() + "\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ~/.adcp/config.yaml)")
	flags.StringVar(&a.host, "host", "", "device host name or address (env "+envHost+")")
	flags.IntVar(&a.port, "port", adcpprotocol.DefaultPort, "device TCP port (env "+envPort+")")
	flags.StringVar(&a.password, "password", "", "device password (env "+envPassword+")")
	flags.DurationVar(&a.timeout, "timeout", adcpprotocol.CommandTimeout, "per-command reply timeout")
	flags.StringVar(&a.logLevel, "log-level", "", `log level: debug, info, warn, error (default "warn")`)
	flags.StringVarP(&a.output, "output", "o", "", `output format: table, json, yaml (default "table")`)

	root.AddCommand(
		a.newREPLCmd(),
		a.newPowerCmd(),
		a.newStatusCmd(),
		a.newInfoCmd(),
		a.newSendCmd(),
		a.newSimulateCmd(),
		newCompletionCmd(root),
		newVersionCmd(),
	)
	return root
}

// setup resolves configuration in order: defaults, config file,
// environment, explicitly set flags.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path := a.cfgFile
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := loadConfig(path, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = a.host
	}
	if flags.Changed("port") {
		cfg.Port = a.port
	}
	if flags.Changed("password") {
		cfg.Password = a.password
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.output != "" {
		cfg.OutputFormat = a.output
	}

	if err := configureLogging(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
		return err
	}
	if a.formatter, err = newFormatter(cfg.OutputFormat); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// connect opens an authenticated session to the configured device.
func (a *app) connect(ctx context.Context) (*adcpprotocol.Client, error) {
	if err := a.cfg.validate(); err != nil {
		return nil, err
	}

	client := adcpprotocol.NewClient(a.cfg.clientConfig(adcpprotocol.ZerologObserver(log.Logger)))
	if err := client.ConnectWithContext(ctx); err != nil {
		return nil, err
	}
	return client, nil
}

// withClient connects, runs fn and closes the session.
func (a *app) withClient(cmd *cobra.Command, fn func(ctx context.Context, client *adcpprotocol.Client) error) error {
	ctx := cmd.Context()
	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()
	return fn(ctx, client)
}

func (a *app) newREPLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Open an interactive session (default)",
		Args:  cobra.NoArgs,
		RunE:  a.runREPL,
	}
}

func (a *app) runREPL(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()
	editor := NewLineEditor(cmd.InOrStdin(), out)
	defer editor.Close()

	setupSignalHandler(func() {
		editor.Close()
		client.Close()
	})

	if editor.IsInteractive() {
		fmt.Fprint(out, welcomeBanner(client.Addr()))
	}

	r := &repl{
		ctx:    ctx,
		client: client,
		input:  editor,
		out:    out,
		errOut: cmd.ErrOrStderr(),
		format: a.formatter,
	}
	return r.run()
}

func (a *app) newPowerCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "power on|off",
		Short:     "Switch the device on or off",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := adcpprotocol.ParsePowerState(args[0])
			if err != nil {
				return err
			}
			return a.withClient(cmd, func(ctx context.Context, client *adcpprotocol.Client) error {
				if err := client.SetPower(ctx, state); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(adcpprotocol.AckReply))
				return nil
			})
		},
	}
}

func (a *app) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show power state, active error and warning, model and serial number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, client *adcpprotocol.Client) error {
				report, err := collectReport(ctx, client)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(report))
				return nil
			})
		},
	}
}

func (a *app) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show model name and serial number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withClient(cmd, func(ctx context.Context, client *adcpprotocol.Client) error {
				info, err := collectInfo(ctx, client)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(info))
				return nil
			})
		},
	}
}

func (a *app) newSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <command...>",
		Short: "Send one ADCP command and print the reply",
		Example: `  adcpctl send power_status ?
  adcpctl send 'input "hdmi1"'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.Join(args, " ")
			return a.withClient(cmd, func(ctx context.Context, client *adcpprotocol.Client) error {
				reply, err := client.SendWithContext(ctx, line)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), a.formatter.Format(reply))
				return nil
			})
		},
	}
}

func (a *app) newSimulateCmd() *cobra.Command {
	var listen, challenge string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a simulated ADCP projector",
		Long: `Run a simulated projector that answers power, status, error, warning,
model and serial queries. With --password it issues a challenge and checks
the digest; without one it announces NOKEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := adcpsim.Start(listen, adcpsim.Options{
				Password:  a.cfg.Password,
				Challenge: challenge,
				Logger:    log.Logger,
			})
			if err != nil {
				return err
			}
			defer srv.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Simulated projector listening on %s\n", srv.Addr())
			<-cmd.Context().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&listen, "listen", fmt.Sprintf("127.0.0.1:%d", adcpprotocol.DefaultPort), "address to listen on")
	cmd.Flags().StringVar(&challenge, "challenge", "", "fixed challenge to issue (default is random per connection)")
	return cmd
}

func newCompletionCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for adcpctl.

Bash:
  $ source <(adcpctl completion bash)

Zsh:
  $ adcpctl completion zsh > "${fpath[1]}/_adcpctl"

Fish:
  $ adcpctl completion fish | source
`,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.ExactArgs(1),
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return root.GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return root.GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return cmd.Help()
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), fullTitle())
		},
	}
}

// deviceInfo is the identity shown by "info".
type deviceInfo struct {
	Address string `json:"address" yaml:"address"`
	Model   string `json:"model" yaml:"model"`
	Serial  string `json:"serial" yaml:"serial"`
}

func collectInfo(ctx context.Context, client *adcpprotocol.Client) (deviceInfo, error) {
	info := deviceInfo{Address: client.Addr()}
	var err error
	if info.Model, err = client.ModelName(ctx); err != nil {
		return info, err
	}
	if info.Serial, err = client.SerialNumber(ctx); err != nil {
		return info, err
	}
	return info, nil
}

// collectReport runs the five status queries in sequence. The first
// failure aborts the report since it also closes the session.
func collectReport(ctx context.Context, client *adcpprotocol.Client) (deviceReport, error) {
	info, err := collectInfo(ctx, client)
	if err != nil {
		return deviceReport{}, err
	}
	report := deviceReport{Address: info.Address, Model: info.Model, Serial: info.Serial}

	power, err := client.PowerStatus(ctx)
	if err != nil {
		return report, err
	}
	report.Power = string(power.State)

	errs, err := client.Errors(ctx)
	if err != nil {
		return report, err
	}
	report.Error = errs.Code

	warns, err := client.Warnings(ctx)
	if err != nil {
		return report, err
	}
	report.Warning = warns.Code
	return report, nil
}
