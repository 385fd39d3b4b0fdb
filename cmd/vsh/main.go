// Copyright (c) 2024, just-bash contributors
// See LICENSE for licensing information

// Command vsh is a thin CLI wrapper around the justbash shell façade: run
// a one-off "-c" command, execute a script file, or load a YAML fixture
// describing a starting filesystem and drop into an interactive loop.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	justbash "github.com/defrex/just-bash"
)

// fixture is the shape a --fixture YAML file is decoded into: a flat map
// of absolute path to file contents, plus optional starting cwd and env.
type fixture struct {
	Files map[string]string `yaml:"files"`
	Cwd   string            `yaml:"cwd"`
	Env   map[string]string `yaml:"env"`
}

func loadFixture(path string) (justbash.Options, error) {
	if path == "" {
		return justbash.Options{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return justbash.Options{}, fmt.Errorf("fixture: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return justbash.Options{}, fmt.Errorf("fixture: %w", err)
	}
	return justbash.Options{Files: fx.Files, Cwd: fx.Cwd, Env: fx.Env}, nil
}

func main() {
	var command string
	var fixturePath string

	root := &cobra.Command{
		Use:   "vsh [script]",
		Short: "an emulated POSIX shell over an in-memory filesystem",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}
			sh := justbash.New(opts)

			switch {
			case command != "":
				return run(sh, command)
			case len(args) == 1:
				data, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				return run(sh, string(data))
			default:
				return repl(sh)
			}
		},
	}
	root.Flags().StringVarP(&command, "command", "c", "", "run this command string instead of a script file")
	root.Flags().StringVar(&fixturePath, "fixture", "", "YAML file seeding the virtual filesystem, cwd and env")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("vsh: %v", err))
		os.Exit(1)
	}
}

// run executes src once, printing its streams and surfacing a non-zero
// exit code as the process's own.
func run(sh *justbash.Shell, src string) error {
	res := sh.Exec(src)
	if res.Stdout != "" {
		fmt.Print(res.Stdout)
	}
	if res.Stderr != "" {
		fmt.Fprint(os.Stderr, color.RedString("%s", res.Stderr))
	}
	if res.ExitCode != 0 {
		os.Exit(res.ExitCode)
	}
	return nil
}

// repl reads lines from stdin, running each as a complete script and
// printing a colored prompt carrying the shell's current directory.
func repl(sh *justbash.Shell) error {
	scanner := bufio.NewScanner(os.Stdin)
	prompt := color.New(color.FgCyan)
	for {
		prompt.Fprintf(os.Stdout, "%s$ ", sh.Cwd())
		if !scanner.Scan() {
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		res := sh.Exec(line)
		if res.Stdout != "" {
			fmt.Print(res.Stdout)
		}
		if res.Stderr != "" {
			fmt.Fprint(os.Stderr, color.RedString("%s", res.Stderr))
		}
		if res.ExitCode != 0 {
			fmt.Println(color.YellowString("exit %d", res.ExitCode))
		}
	}
}
