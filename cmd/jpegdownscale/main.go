package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const usageText = `Usage: jpegdownscale downscaling_factor input.jpg output.jpg [jpeg_quality]

downscaling_factor must be 1, 2, 4 or 8
jpeg_quality must be between 1 and 100.
`

// usageError marks failures caused by bad arguments; they print the usage
// synopsis instead of a bare error line.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "jpegdownscale downscaling_factor input.jpg output.jpg [jpeg_quality]",
		Short:         "Downscale a JPEG by 1/1, 1/2, 1/4 or 1/8 using DCT-domain scaling",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetUsageFunc(func(c *cobra.Command) error {
		w := c.ErrOrStderr()
		fmt.Fprint(w, usageText)
		if c.HasAvailableLocalFlags() {
			fmt.Fprintf(w, "\nFlags:\n%s", c.LocalFlags().FlagUsages())
		}
		if c.HasAvailableSubCommands() {
			fmt.Fprintln(w, "\nCommands:")
			for _, sub := range c.Commands() {
				if sub.IsAvailableCommand() {
					fmt.Fprintf(w, "  %-10s %s\n", sub.Name(), sub.Short)
				}
			}
		}
		return nil
	})
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	addConvertFlags(root)
	root.RunE = runConvert
	root.AddCommand(newIdentifyCmd())
	return root
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "error: %v\n\n", err)
		if cmd == nil {
			cmd = root
		}
		cmd.Usage()
		return 1
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	return 1
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
