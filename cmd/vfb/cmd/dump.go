package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/vfbkit/pkg/vfb"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Dump the payload of one entry",
	Long: `Dump the payload of one directory entry, selected by index or by key.
With --key, the first entry with that key is used unless --nth is given.

Examples:
  vfb dump MyFont.vfb --index 12
  vfb dump MyFont.vfb --key font_name --raw
  vfb dump MyFont.vfb --key 2001 --nth 3 --raw --out glyph.bin`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		rawKey, _ := cmd.Flags().GetString("key")
		nth, _ := cmd.Flags().GetInt("nth")
		raw, _ := cmd.Flags().GetBool("raw")
		outPath, _ := cmd.Flags().GetString("out")

		if (index < 0) == (rawKey == "") {
			return fmt.Errorf("exactly one of --index or --key is required")
		}

		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		field, err := selectField(doc, index, rawKey, nth)
		if err != nil {
			return err
		}
		payload, err := doc.Read(field)
		if err != nil {
			return err
		}

		if outPath == "" {
			return writeDump(cmd.OutOrStdout(), field, payload, raw)
		}
		file, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		err = writeDump(file, field, payload, raw)
		if cerr := file.Close(); err == nil {
			err = cerr
		}
		return err
	},
}

// writeDump writes payload raw or as a commented hex dump.
func writeDump(out io.Writer, field vfb.FieldDescriptor, payload []byte, raw bool) error {
	if raw {
		_, err := out.Write(payload)
		return err
	}
	if _, err := fmt.Fprintf(out, "# %s (key %d) at offset %d, %d bytes\n", field.Key, field.Key, field.Offset, field.Size); err != nil {
		return err
	}
	_, err := io.WriteString(out, hex.Dump(payload))
	return err
}

func selectField(doc *vfb.Document, index int, rawKey string, nth int) (vfb.FieldDescriptor, error) {
	if rawKey == "" {
		f, ok := doc.Field(index)
		if !ok {
			return vfb.FieldDescriptor{}, fmt.Errorf("index %d out of range (%d entries)", index, doc.Len())
		}
		return f, nil
	}

	key, ok := vfb.ParseKey(rawKey)
	if !ok {
		return vfb.FieldDescriptor{}, fmt.Errorf("unknown key %q", rawKey)
	}
	matches := doc.FieldsByKey(key)
	if nth < 0 || nth >= len(matches) {
		return vfb.FieldDescriptor{}, fmt.Errorf("key %s: entry %d requested, %d present", key, nth, len(matches))
	}
	return matches[nth], nil
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().IntP("index", "i", -1, "Index of the entry in file order")
	dumpCmd.Flags().StringP("key", "k", "", "Key of the entry (number or name)")
	dumpCmd.Flags().Int("nth", 0, "Which entry to use when several share --key")
	dumpCmd.Flags().Bool("raw", false, "Write the payload bytes instead of a hex dump")
	dumpCmd.Flags().String("out", "", "Write to this file instead of stdout")
}
