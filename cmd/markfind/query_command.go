package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"markfind/internal/store"
)

func newQueryCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		textFilter    string
		minConfidence float64
		videoID       int64
		clipID        int64
		csvPath       string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query stored watermark detections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := cmdCtx.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			watermarks, err := db.QueryWatermarks(cmd.Context(), store.Filter{
				VideoID:       videoID,
				ClipID:        clipID,
				Text:          textFilter,
				MinConfidence: minConfidence,
			})
			if err != nil {
				return err
			}

			if csvPath != "" {
				return writeCSV(csvPath, watermarks, cmd)
			}

			if len(watermarks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No watermarks found.")
				return nil
			}

			headers := []string{"ID", "Video", "Clip", "Time (s)", "Text", "Confidence", "ROI"}
			rows := make([][]string, 0, len(watermarks))
			for _, mark := range watermarks {
				rows = append(rows, []string{
					strconv.FormatInt(mark.ID, 10),
					strconv.FormatInt(mark.VideoID, 10),
					strconv.FormatInt(mark.ClipID, 10),
					fmt.Sprintf("%.2f", mark.Timestamp),
					mark.Text,
					fmt.Sprintf("%.3f", mark.Confidence),
					mark.ROI.String(),
				})
			}
			aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVar(&textFilter, "text", "", "Match watermarks containing this text (case-insensitive)")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "Minimum stored confidence")
	cmd.Flags().Int64Var(&videoID, "video", 0, "Restrict to one video id")
	cmd.Flags().Int64Var(&clipID, "clip", 0, "Restrict to one clip id")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write results to a CSV file instead of a table")

	return cmd
}

func writeCSV(path string, watermarks []store.Watermark, cmd *cobra.Command) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer file.Close()

	if err := store.ExportCSV(file, watermarks); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d watermarks to %s\n", len(watermarks), path)
	return nil
}
