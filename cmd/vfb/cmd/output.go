package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ssargent/vfbkit/pkg/vfb"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

// outputFormat returns the --output flag if set, else the configured default
func outputFormat(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("output"); f != nil && f.Changed {
		return f.Value.String()
	}
	if appConfig != nil {
		return appConfig.CLI.Output
	}
	return outputTable
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTable returns a table writer mirrored to w with header columns centered
func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if header != nil {
		t.AppendHeader(header)
		configs := make([]table.ColumnConfig, 0, len(header))
		for i := range header {
			configs = append(configs, table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignCenter})
		}
		t.SetColumnConfigs(configs)
	}
	return t
}

func formatAppVersion(h vfb.Header) string {
	v, ok := h.AppVersion()
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%d.%d.%d build %d", v[0], v[1], v[2], v[3])
}

func formatMetadata(h vfb.Header) string {
	parts := make([]string, 0, len(h.Metadata))
	for _, m := range h.Metadata {
		parts = append(parts, fmt.Sprintf("%d=%d", m.Key, m.Value))
	}
	return strings.Join(parts, " ")
}

func keyName(k vfb.Key) string {
	name, _ := k.Name()
	return name
}
