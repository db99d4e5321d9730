package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ssargent/vfbkit/pkg/vfb"
)

// stripCmd represents the strip command
var stripCmd = &cobra.Command{
	Use:   "strip <in> <out>",
	Short: "Copy a VFB file without some keys",
	Long: `Copy a VFB file, dropping every entry whose key is listed in --drop.
All other bytes are copied unchanged.

Example:
  vfb strip MyFont.vfb Clean.vfb --drop Encoding,"Encoding Default"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawKeys, _ := cmd.Flags().GetStringSlice("drop")
		if len(rawKeys) == 0 {
			return fmt.Errorf("--drop is required")
		}
		drop := make([]vfb.Key, 0, len(rawKeys))
		for _, raw := range rawKeys {
			key, ok := vfb.ParseKey(raw)
			if !ok {
				return fmt.Errorf("unknown key %q", raw)
			}
			drop = append(drop, key)
		}

		inAbs, _ := filepath.Abs(args[0])
		outAbs, _ := filepath.Abs(args[1])
		if inAbs == outAbs {
			return fmt.Errorf("input and output must differ")
		}

		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		kept, err := writeStripped(args[1], doc, drop)
		if err != nil {
			return err
		}

		logger.Info("document stripped", "path", args[0], "out", args[1], "fields", kept, "dropped", doc.Len()-kept)
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: kept %d of %d entries\n", args[1], kept, doc.Len())
		return nil
	},
}

// writeStripped writes doc without the dropped keys to path. A partly written
// file is removed.
func writeStripped(path string, doc *vfb.Document, drop []vfb.Key) (int, error) {
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	kept, err := vfb.Strip(out, doc, drop...)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(path); rerr != nil {
			logger.Warn("failed to remove partial output", "path", path, "error", rerr)
		}
		return kept, err
	}
	return kept, nil
}

func init() {
	rootCmd.AddCommand(stripCmd)
	stripCmd.Flags().StringSlice("drop", nil, "Keys to drop (numbers or names, comma separated)")
}
