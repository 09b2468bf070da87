package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"
)

var (
	// RawOutput controls the CLI output format.
	RawOutput bool

	errColor     = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	usageColor   = color.New(color.FgYellow)
)

func logJSONCmd(cmd cobra.Command, iList ...any) {
	for _, i := range iList {
		m, err := json.Marshal(i)
		if err != nil {
			logErrorCmd(cmd, err)

			return
		}

		pj, err := prettyjson.Format(m)
		if err != nil {
			logErrorCmd(cmd, err)

			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", string(pj))
	}
}

func logErrorCmd(cmd cobra.Command, err error) {
	boldError := errColor.Sprint("error: ")
	fmt.Fprintf(cmd.ErrOrStderr(), "\n%s%s\n\n", boldError, err.Error())
}

func logSuccessCmd(cmd cobra.Command, msg string) {
	if RawOutput {
		fmt.Fprintln(cmd.OutOrStdout(), msg)

		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", successColor.Sprint(msg))
}

func logOKCmd(cmd cobra.Command) {
	logSuccessCmd(cmd, "ok")
}

func logUsageCmd(cmd cobra.Command, u string) {
	fmt.Fprintf(cmd.OutOrStdout(), "\nusage: %s\n\n", usageColor.Sprint(u))
}
