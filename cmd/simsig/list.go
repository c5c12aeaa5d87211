package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/srozzo/simsig"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the signals available on this platform",
	Long: `List every signal this platform defines with its number and whether its
disposition can be changed.

Output is a table on a terminal and JSON otherwise, or with --json.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON := listJSON || !term.IsTerminal(int(os.Stdout.Fd()))
		return renderList(cmd.OutOrStdout(), asJSON)
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

type signalRow struct {
	Name      string `json:"name"`
	Number    int    `json:"number"`
	Catchable bool   `json:"catchable"`
}

type listOutput struct {
	Platform      string      `json:"platform"`
	SupportsAlarm bool        `json:"supportsAlarm"`
	SupportsMask  bool        `json:"supportsMask"`
	AlarmSignal   string      `json:"alarmSignal,omitempty"`
	Signals       []signalRow `json:"signals"`
}

func buildList() listOutput {
	out := listOutput{
		Platform:      runtime.GOOS,
		SupportsAlarm: simsig.SupportsAlarm,
		SupportsMask:  simsig.SupportsMask,
	}
	if simsig.SupportsAlarm {
		if id, ok := simsig.ByNumber(simsig.AlarmSignal); ok {
			out.AlarmSignal = id.Name
		}
	}
	for _, id := range simsig.All() {
		out.Signals = append(out.Signals, signalRow{
			Name:      id.Name,
			Number:    int(id.Num),
			Catchable: id.Catchable,
		})
	}
	return out
}

func renderList(w io.Writer, asJSON bool) error {
	out := buildList()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tNUMBER\tCATCHABLE")
	for _, row := range out.Signals {
		fmt.Fprintf(tw, "%s\t%d\t%v\n", row.Name, row.Number, row.Catchable)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nplatform %s: alarm=%v mask=%v\n", out.Platform, out.SupportsAlarm, out.SupportsMask)
	return nil
}
