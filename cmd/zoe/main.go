package main

import (
	"context"
	"os"
	"os/signal"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zoe [file]",
		Short:         "Run zoe programs",
		Long:          "Run a zoe program from a source file, compiled bytecode, -c code or stdin. With no input on a terminal, start a REPL.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.zoe.yaml)")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("trace", "T", false, "trace bytecode execution on stderr")
	pf.Int64("max-steps", 0, "maximum instructions per call (0 means no limit)")
	viper.BindPFlag("no-color", pf.Lookup("no-color"))
	viper.BindPFlag("trace", pf.Lookup("trace"))
	viper.BindPFlag("max-steps", pf.Lookup("max-steps"))

	f := root.Flags()
	f.StringP("code", "c", "", "code to evaluate")
	f.Bool("stdin", false, "read code from stdin")
	f.BoolP("disassemble", "D", false, "print the disassembly of each program before running it")
	f.StringP("output", "o", "", "output format (text, json or yaml)")
	f.Bool("no-repl", false, "disable the REPL")
	viper.BindPFlag("disassemble", f.Lookup("disassemble"))
	viper.BindPFlag("output", f.Lookup("output"))
	viper.BindPFlag("no-repl", f.Lookup("no-repl"))
	root.RegisterFlagCompletionFunc("output", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return outputFormatsCompletion, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(newVersionCmd(), newDisCmd(), newCompileCmd())
	return root
}

// initConfig reads in the config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".zoe")
	}
	bindEnv()
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fatal(err)
	}
}

// bindEnv lets ZOE_* environment variables stand in for flags, so
// ZOE_MAX_STEPS sets --max-steps.
func bindEnv() {
	viper.SetEnvPrefix("zoe")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func main() {
	cobra.OnInitialize(initConfig)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fatal(formatError(err))
	}
}
