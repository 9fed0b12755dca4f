package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/ui/console"
	"github.com/axekit/axe/internal/workbook"
)

func init() {
	var sheetName, unique, find, disableTag string
	var limit int
	cmd := &cobra.Command{
		Use:   "workbook <file.xml|->",
		Short: "Inspect and check an XML Spreadsheet 2003 workbook",
		Long:  "Inspect and check an XML Spreadsheet 2003 workbook. A file name of - reads standard input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := workbook.Options{DisableTag: disableTag}
			var book *workbook.Book
			var err error
			if args[0] == "-" {
				book, err = workbook.Read(cmd.InOrStdin(), opts)
			} else {
				book, err = workbook.ReadFile(args[0], opts)
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			sheets := book.Sheets
			if sheetName != "" {
				s, ok := book.Sheet(sheetName)
				if !ok {
					return fmt.Errorf("no sheet named %q in %s", sheetName, args[0])
				}
				sheets = []*workbook.Sheet{s}
			}
			for _, s := range sheets {
				if unique != "" {
					if err := s.UniqueCheck(unique); err != nil {
						return err
					}
					fmt.Fprintf(w, "%s: column %s is unique\n", s.Name, unique)
					continue
				}
				if find != "" {
					title, value, ok := strings.Cut(find, "=")
					if !ok {
						return fmt.Errorf("--find expects title=value, got %q", find)
					}
					r, err := s.Find(title, value)
					if err != nil {
						return err
					}
					if r == nil {
						fmt.Fprintf(w, "%s: no row with %s = %s\n", s.Name, title, value)
						continue
					}
					fmt.Fprintf(w, "%s: row %d: %s\n", s.Name, r.Number, strings.Join(r.Cells(), " | "))
					continue
				}
				fmt.Fprint(w, console.RenderSheet(s, limit))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sheetName, "sheet", "", "only this worksheet")
	cmd.Flags().StringVar(&unique, "unique", "", "check that the values of this column are unique")
	cmd.Flags().StringVar(&find, "find", "", "print the first row where title=value")
	cmd.Flags().StringVar(&disableTag, "disable-tag", "", "cell text marking a row as disabled (default "+workbook.DefaultDisableTag+")")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows to print; 0 prints all")
	rootCmd.AddCommand(cmd)
}
