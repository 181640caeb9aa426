package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/zoelang/zoe"
	"github.com/zoelang/zoe/vm"
)

const (
	prompt         = "zoe> "
	continuePrompt = "...> "
)

// runRepl reads programs line by line from in. Input that fails to compile
// only because it ends too early is continued on the next line. Each
// complete entry runs in a fresh frame of the same machine.
func runRepl(ctx context.Context, in io.Reader, out io.Writer, history string) error {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", bold("zoe"), faint(version))
	fmt.Fprintln(out, faint("type :quit to exit"))

	machine := vm.New(getVMOptions(os.Stderr)...)
	scanner := bufio.NewScanner(in)
	var pending []string
	for {
		if len(pending) == 0 {
			fmt.Fprint(out, prompt)
		} else {
			fmt.Fprint(out, continuePrompt)
		}
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if len(pending) == 0 {
			switch strings.TrimSpace(line) {
			case "":
				continue
			case ":quit", ":q", ":exit":
				return nil
			}
		}
		pending = append(pending, line)
		source := strings.Join(pending, "\n")

		unit, err := zoe.CompileUnit(source, getZoeOptions()...)
		if err != nil && isIncompleteInput(err) {
			continue
		}
		pending = nil
		appendToHistory(history, source)
		if err != nil {
			fmt.Fprintln(out, formatError(err))
			continue
		}
		if viper.GetBool("disassemble") {
			if err := printDisassembly(unit, out); err != nil {
				fmt.Fprintln(out, formatError(err))
				continue
			}
		}
		result, err := vm.RunOn(ctx, machine, unit)
		if err != nil {
			fmt.Fprintln(out, formatError(err))
			continue
		}
		fmt.Fprintln(out, result.Inspect())
	}
}

// isIncompleteInput reports whether err means the input ended early, so
// the user should continue typing: an unclosed block, bracket, string or
// comment.
func isIncompleteInput(err error) bool {
	msg := err.Error()
	if strings.Contains(msg, "escape sequence") {
		return false
	}
	return strings.Contains(msg, "unterminated") || strings.Contains(msg, "end of file")
}

func historyPath() string {
	path, err := homedir.Expand("~/.zoe_history")
	if err != nil {
		return ""
	}
	return path
}

func appendToHistory(path, entry string) {
	if path == "" || entry == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	f.WriteString(strings.ReplaceAll(entry, "\n", " ") + "\n")
}
