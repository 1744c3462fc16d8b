package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"markfind/internal/config"
)

func newROIsCommand(cmdCtx *commandContext) *cobra.Command {
	roisCmd := &cobra.Command{
		Use:   "rois",
		Short: "Manage default watermark search regions",
	}

	roisCmd.AddCommand(newROIsListCommand(cmdCtx))
	roisCmd.AddCommand(newROIsAddCommand(cmdCtx))
	roisCmd.AddCommand(newROIsRemoveCommand(cmdCtx))

	return roisCmd
}

func newROIsListCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured search regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			regions := cfg.DefaultROIs()
			if len(regions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No search regions configured.")
				return nil
			}
			headers := []string{"#", "X", "Y", "Width", "Height"}
			rows := make([][]string, 0, len(regions))
			for i, region := range regions {
				rows = append(rows, []string{
					strconv.Itoa(i),
					strconv.Itoa(region.X),
					strconv.Itoa(region.Y),
					strconv.Itoa(region.Width),
					strconv.Itoa(region.Height),
				})
			}
			aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), headers, rows, aligns))
			return nil
		},
	}
}

func newROIsAddCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <x,y,width,height>",
		Short: "Add a search region to the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			region, err := parseROI(args[0])
			if err != nil {
				return err
			}
			if err := region.Validate(); err != nil {
				return err
			}
			cfg.Scan.DefaultROIs = append(cfg.Scan.DefaultROIs, config.ROI{
				X: region.X, Y: region.Y, Width: region.Width, Height: region.Height,
			})
			if err := cfg.Save(cmdCtx.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added region %s to %s\n", region, cmdCtx.configPath)
			return nil
		},
	}
}

func newROIsRemoveCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove a search region by its list index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			if index < 0 || index >= len(cfg.Scan.DefaultROIs) {
				return fmt.Errorf("index %d out of range (have %d regions)", index, len(cfg.Scan.DefaultROIs))
			}
			removed := cfg.Scan.DefaultROIs[index]
			cfg.Scan.DefaultROIs = append(cfg.Scan.DefaultROIs[:index], cfg.Scan.DefaultROIs[index+1:]...)
			if err := cfg.Save(cmdCtx.configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed region %d,%d,%d,%d\n",
				removed.X, removed.Y, removed.Width, removed.Height)
			return nil
		},
	}
}
