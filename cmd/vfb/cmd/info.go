package cmd

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ssargent/vfbkit/pkg/vfb"
)

// InfoReport summarizes a document for the info command
type InfoReport struct {
	Path       string              `json:"path"`
	Magic      string              `json:"magic"`
	Version    [2]uint16           `json:"version"`
	AppVersion string              `json:"app_version"`
	Metadata   []vfb.MetadataEntry `json:"metadata"`
	Size       int64               `json:"size"`
	FieldCount int                 `json:"field_count"`
	TopKeys    []KeyCount          `json:"top_keys"`
}

// KeyCount is the number of entries sharing one key
type KeyCount struct {
	Key   vfb.Key `json:"key"`
	Name  string  `json:"name,omitempty"`
	Count int     `json:"count"`
	Bytes int64   `json:"bytes"`
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show the header and a summary of the directory",
	Long: `Show the header of a VFB file and summarize its directory.

Example:
  vfb info MyFont.vfb
  vfb info MyFont.vfb --top 20 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		report := buildInfoReport(args[0], doc, top)
		if outputFormat(cmd) == outputJSON {
			return printJSON(cmd.OutOrStdout(), report)
		}

		t := newTable(cmd.OutOrStdout(), nil)
		t.AppendRow(table.Row{"File", report.Path})
		t.AppendRow(table.Row{"Magic", report.Magic})
		t.AppendRow(table.Row{"Version", formatVersion(report.Version)})
		t.AppendRow(table.Row{"Application", report.AppVersion})
		t.AppendRow(table.Row{"Metadata", formatMetadata(doc.Header())})
		t.AppendRow(table.Row{"Size", humanize.IBytes(uint64(report.Size))})
		t.AppendRow(table.Row{"Entries", humanize.Comma(int64(report.FieldCount))})
		t.Render()

		if len(report.TopKeys) > 0 {
			kt := newTable(cmd.OutOrStdout(), table.Row{"key", "name", "count", "bytes"})
			for _, kc := range report.TopKeys {
				kt.AppendRow(table.Row{int(kc.Key), kc.Name, kc.Count, humanize.IBytes(uint64(kc.Bytes))})
			}
			kt.Render()
		}
		return nil
	},
}

func buildInfoReport(path string, doc *vfb.Document, top int) InfoReport {
	h := doc.Header()
	report := InfoReport{
		Path:       path,
		Magic:      h.MagicString(),
		Version:    h.Version,
		AppVersion: formatAppVersion(h),
		Metadata:   h.Metadata[:],
		Size:       doc.Size(),
		FieldCount: doc.Len(),
	}

	counts := make(map[vfb.Key]*KeyCount)
	for _, f := range doc.Fields() {
		kc, ok := counts[f.Key]
		if !ok {
			kc = &KeyCount{Key: f.Key, Name: keyName(f.Key)}
			counts[f.Key] = kc
		}
		kc.Count++
		kc.Bytes += int64(f.Size)
	}
	for _, kc := range counts {
		report.TopKeys = append(report.TopKeys, *kc)
	}
	sort.Slice(report.TopKeys, func(i, j int) bool {
		a, b := report.TopKeys[i], report.TopKeys[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Key < b.Key
	})
	if top >= 0 && len(report.TopKeys) > top {
		report.TopKeys = report.TopKeys[:top]
	}
	return report
}

func formatVersion(v [2]uint16) string {
	return fmt.Sprintf("%d.%d", v[0], v[1])
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Int("top", 10, "Number of most frequent keys to list (-1 for all)")
	infoCmd.Flags().StringP("output", "o", outputTable, "Output format: table or json")
}
