package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ssargent/vfbkit/pkg/vfb"
)

// FieldRow is one line of the fields listing
type FieldRow struct {
	Index int `json:"index"`
	vfb.FieldDescriptor
	Name string `json:"name,omitempty"`
}

// fieldsCmd represents the fields command
var fieldsCmd = &cobra.Command{
	Use:   "fields <file>",
	Short: "List the directory entries of a VFB file",
	Long: `List every directory entry with its index, key, offset and size.

Examples:
  vfb fields MyFont.vfb
  vfb fields MyFont.vfb --key 2001
  vfb fields MyFont.vfb --key "Glyph" --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawKey, _ := cmd.Flags().GetString("key")

		var filter *vfb.Key
		if rawKey != "" {
			key, ok := vfb.ParseKey(rawKey)
			if !ok {
				return fmt.Errorf("unknown key %q", rawKey)
			}
			filter = &key
		}

		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		rows := []FieldRow{}
		for i, f := range doc.Fields() {
			if filter != nil && f.Key != *filter {
				continue
			}
			rows = append(rows, FieldRow{Index: i, FieldDescriptor: f, Name: keyName(f.Key)})
		}

		if outputFormat(cmd) == outputJSON {
			return printJSON(cmd.OutOrStdout(), rows)
		}

		t := newTable(cmd.OutOrStdout(), table.Row{"#", "key", "name", "offset", "size"})
		var total uint64
		for _, r := range rows {
			size := humanize.Comma(int64(r.Size))
			if r.Extended {
				size += "*"
			}
			t.AppendRow(table.Row{r.Index, int(r.Key), r.Name, r.Offset, size})
			total += uint64(r.Size)
		}
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d entries", len(rows)), "", humanize.IBytes(total)})
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	fieldsCmd.Flags().StringP("key", "k", "", "Only list entries with this key (number or name)")
	fieldsCmd.Flags().StringP("output", "o", outputTable, "Output format: table or json")
}
