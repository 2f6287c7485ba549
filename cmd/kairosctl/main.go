package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kairosrun/kairos"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kairosctl",
		Short: "kairosctl drives small kairos programs from the shell",
		Long: `kairosctl exercises the kairos run loop's exit-code surface:
a program built as an Effect[ExitCode] becomes a process exit status.`,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(sumCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint(err))
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var fail bool
	var code int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a trivial effect and report its outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			var e kairos.Effect[kairos.ExitCode]
			if fail {
				e = kairos.RaiseError[kairos.ExitCode](fmt.Errorf("kairosctl: --fail requested"))
			} else {
				e = kairos.Pure(kairos.ExitCode(code))
			}
			status := kairos.RunExit(e, nil)
			if status == 0 {
				fmt.Println(color.New(color.FgGreen).Sprint("ok"))
			} else {
				fmt.Println(color.New(color.FgRed).Sprintf("exit %d", status))
			}
			os.Exit(status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "raise an error instead of succeeding")
	cmd.Flags().IntVar(&code, "code", 0, "exit code to return on success")
	return cmd
}

// sumCmd concatenates its argv and parses the result as a base-10
// integer, exiting with that value: ["1","2","3"] yields exit code 123.
func sumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sum [digits...]",
		Short: "concatenate the given digit strings and exit with the parsed value",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := kairos.Suspend(func() (kairos.Effect[kairos.ExitCode], error) {
				n, err := strconv.Atoi(strings.Join(args, ""))
				if err != nil {
					return kairos.Effect[kairos.ExitCode]{}, err
				}
				return kairos.Pure(kairos.ExitCode(n)), nil
			})
			status := kairos.RunExit(e, nil)
			os.Exit(status)
			return nil
		},
	}
}
