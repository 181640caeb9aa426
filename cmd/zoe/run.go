package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zoelang/zoe"
	"github.com/zoelang/zoe/bytecode"
	"github.com/zoelang/zoe/dis"
	"github.com/zoelang/zoe/vm"
)

func runRoot(cmd *cobra.Command, args []string) error {
	processGlobalFlags()
	ctx := cmd.Context()

	if shouldRunRepl(cmd, args) {
		return runRepl(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), historyPath())
	}

	in, err := getInput(cmd, args)
	if err != nil {
		return err
	}
	unit, err := in.unit(getZoeOptions()...)
	if err != nil {
		return err
	}
	if viper.GetBool("disassemble") {
		if err := printDisassembly(unit, cmd.ErrOrStderr()); err != nil {
			return err
		}
	}
	result, err := vm.Run(ctx, unit, getVMOptions(cmd.ErrOrStderr())...)
	if err != nil {
		return err
	}
	output, err := getOutput(result, viper.GetString("output"))
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
	}
	return nil
}

func printDisassembly(unit *bytecode.Unit, w io.Writer) error {
	instructions, err := dis.Disassemble(unit)
	if err != nil {
		return err
	}
	dis.Print(instructions, w)
	return nil
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			processGlobalFlags()
			format, _ := cmd.Flags().GetString("output")
			if strings.ToLower(format) == "json" {
				info, err := getOutputJSON(map[string]any{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(info))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text or json)")
	return cmd
}

func newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [file]",
		Short: "Disassemble zoe bytecode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			processGlobalFlags()
			in, err := getInput(cmd, args)
			if err != nil {
				return err
			}
			unit, err := in.unit(zoe.WithDebugInfo())
			if err != nil {
				return err
			}
			return printDisassembly(unit, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringP("code", "c", "", "code to disassemble")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
	return cmd
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile zoe source to bytecode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := getInput(cmd, args)
			if err != nil {
				return err
			}
			if in.compiled != nil {
				return fmt.Errorf("%s is already compiled", in.filename)
			}
			var opts []zoe.Option
			if debug, _ := cmd.Flags().GetBool("debug-info"); debug {
				opts = append(opts, zoe.WithDebugInfo())
			}
			if in.filename != "" {
				opts = append(opts, zoe.WithFilename(in.filename))
			}
			raw, err := zoe.Compile(in.source, opts...)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			return os.WriteFile(out, raw, 0o644)
		},
	}
	cmd.Flags().StringP("code", "c", "", "code to compile")
	cmd.Flags().Bool("stdin", false, "read code from stdin")
	cmd.Flags().StringP("out", "O", "", "write bytecode to this file instead of stdout")
	cmd.Flags().BoolP("debug-info", "g", false, "include variable names in the debug section")
	return cmd
}
