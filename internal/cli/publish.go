package ccdbench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/publish"
)

func newPublishCmd(a *app) *cobra.Command {
	var (
		sheet       string
		methods     []string
		skipUnknown bool
	)
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the benchmark table into a Google Sheets worksheet",
		Long: `Write each scene row of the table into the worksheet row whose index
column holds the scene name. The summary row is written when the sheet has a
"Total" row.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, _, err := a.buildTable(cmd.ErrOrStderr(), methods, true)
			if err != nil {
				return err
			}
			client := publish.NewClient(a.cfg.SheetsURL(), a.cfg.Token(), a.cfg.RequestTimeout())
			res, err := publish.Publish(cmd.Context(), client, t, publish.Options{
				SpreadsheetID: a.cfg.SpreadsheetID,
				Sheet:         sheet,
				IndexColumn:   a.cfg.IndexColumnLetter(),
				SkipUnknown:   skipUnknown,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d rows in %q, skipped %d\n", len(res.Updated), sheet, len(res.Skipped))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&sheet, "sheet", "", "worksheet name")
	f.StringSliceVarP(&methods, "methods", "m", nil, "methods in column order (default every plain method)")
	f.String("threshold", "", "separation distance for distance-keyed results (default \"1e-08\")")
	f.String("spreadsheet-id", "", "target spreadsheet ID")
	f.String("index-column", "", "column holding scene names (default \"A\")")
	f.BoolVar(&skipUnknown, "skip-unknown", false, "skip scenes missing from the sheet instead of failing")
	_ = cmd.MarkFlagRequired("sheet")
	return cmd
}
