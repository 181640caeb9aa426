package main

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoelang/zoe"
	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/vm"
)

// input is a program read from one of the supported sources. A file that
// starts with the bytecode magic is loaded as a compiled unit.
type input struct {
	source   string
	compiled []byte
	filename string
}

func shouldRunRepl(cmd *cobra.Command, args []string) bool {
	if viper.GetBool("no-repl") {
		return false
	}
	if flagChanged(cmd, "code") || flagChanged(cmd, "stdin") {
		return false
	}
	if len(args) > 0 {
		return false
	}
	return isTerminalIO()
}

func flagChanged(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// getInput determines what code is to be executed. There are three
// possibilities: --code <code>, --stdin, or a path as args[0]. With none of
// them, stdin is read.
func getInput(cmd *cobra.Command, args []string) (*input, error) {
	codeSet := flagChanged(cmd, "code")
	stdinSet := flagChanged(cmd, "stdin")
	pathSupplied := len(args) > 0
	if pathSupplied && (codeSet || stdinSet) {
		return nil, errors.New("multiple input sources specified")
	} else if codeSet && stdinSet {
		return nil, errors.New("multiple input sources specified")
	}
	if codeSet {
		code, err := cmd.Flags().GetString("code")
		if err != nil {
			return nil, err
		}
		return &input{source: code}, nil
	}
	if pathSupplied {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		if bytes.HasPrefix(data, bytecode.Magic[:5]) {
			return &input{compiled: data, filename: args[0]}, nil
		}
		return &input{source: string(data), filename: args[0]}, nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	return &input{source: string(data)}, nil
}

// unit compiles or loads the program.
func (in *input) unit(opts ...zoe.Option) (*bytecode.Unit, error) {
	if in.compiled != nil {
		return bytecode.Deserialize(in.compiled)
	}
	if in.filename != "" {
		opts = append(opts, zoe.WithFilename(in.filename))
	}
	return zoe.CompileUnit(in.source, opts...)
}

func getZoeOptions() []zoe.Option {
	var opts []zoe.Option
	if viper.GetBool("disassemble") {
		opts = append(opts, zoe.WithDebugInfo())
	}
	return opts
}

// getVMOptions configures execution tracing and the instruction limit.
// Trace output goes to w.
func getVMOptions(w io.Writer) []vm.Option {
	var opts []vm.Option
	if viper.GetBool("trace") {
		opts = append(opts, vm.WithLogger(newTraceLogger(w)))
	}
	if limit := viper.GetInt64("max-steps"); limit > 0 {
		opts = append(opts, vm.WithInstructionLimit(limit))
	}
	return opts
}

func newTraceLogger(w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      viper.GetBool("no-color") || !isTerminal(w),
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(console).Level(zerolog.TraceLevel)
}
