package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ssargent/vfbkit/pkg/catalog"
	"github.com/ssargent/vfbkit/pkg/vfb"
)

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the catalog of scanned VFB files",
	Long: `The catalog remembers scanned VFB files by content digest, so the same
file is only recorded once. It is stored in the configured catalog_dir.`,
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Scan files and add them to the catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(cat *catalog.Catalog) error {
			var entries []*catalog.Entry
			var failed int
			for _, path := range args {
				entry, err := cat.Add(path)
				if err != nil {
					failed++
					logger.Error("failed to catalog document", "path", path, "error", err)
					continue
				}
				logger.Info("document catalogued", "path", entry.Path, "id", entry.ID, "fields", entry.FieldCount)
				entries = append(entries, entry)
			}
			if err := printEntries(cmd, entries); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be catalogued", failed, len(args))
			}
			return nil
		})
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalogued files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(cat *catalog.Catalog) error {
			entries, err := cat.List()
			if err != nil {
				return err
			}
			return printEntries(cmd, entries)
		})
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(cat *catalog.Catalog) error {
			entry, err := cat.Get(args[0])
			if err != nil {
				return err
			}
			if outputFormat(cmd) == outputJSON {
				return printJSON(cmd.OutOrStdout(), entry)
			}

			t := newTable(cmd.OutOrStdout(), nil)
			t.AppendRow(table.Row{"ID", entry.ID})
			t.AppendRow(table.Row{"Path", entry.Path})
			t.AppendRow(table.Row{"Digest", entry.Digest})
			t.AppendRow(table.Row{"Size", humanize.IBytes(uint64(entry.Size))})
			t.AppendRow(table.Row{"Magic", entry.Magic})
			t.AppendRow(table.Row{"Version", formatVersion(entry.Version)})
			t.AppendRow(table.Row{"Application", entry.AppVersion})
			t.AppendRow(table.Row{"Entries", entry.FieldCount})
			t.AppendRow(table.Row{"Indexed", entry.IndexedAt.Format(time.RFC3339)})
			t.Render()

			keys := make([]vfb.Key, 0, len(entry.KeyCounts))
			for k := range entry.KeyCounts {
				keys = append(keys, k)
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
			kt := newTable(cmd.OutOrStdout(), table.Row{"key", "name", "count"})
			for _, k := range keys {
				kt.AppendRow(table.Row{int(k), keyName(k), entry.KeyCounts[k]})
			}
			kt.Render()
			return nil
		})
	},
}

var catalogRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove an entry from the catalog",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCatalog(cmd, func(cat *catalog.Catalog) error {
			if err := cat.Remove(args[0]); err != nil {
				return err
			}
			logger.Info("document removed", "id", args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		})
	},
}

func withCatalog(cmd *cobra.Command, fn func(cat *catalog.Catalog) error) error {
	cat, err := catalog.Open(appConfig.CatalogDir)
	if err != nil {
		return err
	}
	defer cat.Close()
	return fn(cat)
}

func printEntries(cmd *cobra.Command, entries []*catalog.Entry) error {
	if outputFormat(cmd) == outputJSON {
		if entries == nil {
			entries = []*catalog.Entry{}
		}
		return printJSON(cmd.OutOrStdout(), entries)
	}

	t := newTable(cmd.OutOrStdout(), table.Row{"id", "path", "size", "entries", "indexed"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.ID, e.Path, humanize.IBytes(uint64(e.Size)), e.FieldCount, humanize.Time(e.IndexedAt)})
	}
	t.Render()
	return nil
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogAddCmd, catalogListCmd, catalogShowCmd, catalogRemoveCmd)
	catalogCmd.PersistentFlags().StringP("output", "o", outputTable, "Output format: table or json")
}
