package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zh-address-parser/app/providers"
	"github.com/zh-address-parser/internal/gazetteer"
)

func newImportCmd(c *cli) *cobra.Command {
	var source, encoding, gazetteerVersion, dump string
	var force, dryRun bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Nạp gazetteer từ file hoặc thư mục vào store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if source == "" {
				source = c.cfg.Gazetteer.Source
			}
			if source == "" {
				return fmt.Errorf("cần --source hoặc gazetteer.source")
			}
			if encoding == "" {
				encoding = c.cfg.Gazetteer.Encoding
			}

			ctx := cmd.Context()
			container, err := c.container(ctx, providers.Options{SkipSource: true})
			if err != nil {
				return err
			}
			defer container.Close()

			ds, err := container.AdminService.LoadSource(source, encoding)
			if err != nil {
				return err
			}
			if gazetteerVersion == "" {
				gazetteerVersion = ds.Version
			}

			if dump != "" {
				if err := dumpUnits(dump, ds); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dumped %d units to %s\n", len(ds.Units), dump)
			}

			if dryRun {
				v := container.AdminService.ValidateGazetteerData(ds.Units)
				fmt.Fprintf(cmd.OutOrStdout(), "units: %d, passed: %v, warnings: %d\n", len(ds.Units), v.Passed, len(v.Warnings))
				for _, w := range v.Warnings {
					fmt.Fprintln(cmd.OutOrStdout(), "  "+w)
				}
				return nil
			}

			result, err := container.AdminService.SeedGazetteer(ctx, gazetteerVersion, ds.Units, force)
			if err != nil {
				if result != nil {
					for _, w := range result.Validation.Warnings {
						fmt.Fprintln(cmd.ErrOrStderr(), "  "+w)
					}
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d units, version %s (%dms)\n",
				result.UnitsProcessed, result.GazetteerVersion, result.ProcessingTimeMs)
			return nil
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "", "file hoặc thư mục nguồn (mặc định gazetteer.source)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "utf-8 | gbk")
	cmd.Flags().StringVar(&gazetteerVersion, "version", "", "phiên bản gazetteer (mặc định blake3 của nguồn)")
	cmd.Flags().StringVar(&dump, "dump", "", "ghi units đã làm giàu ra file .json.xz")
	cmd.Flags().BoolVar(&force, "force", false, "seed dù validation có cảnh báo")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "chỉ validate, không ghi store")
	return cmd
}

func dumpUnits(path string, ds *gazetteer.Dataset) error {
	data, err := json.Marshal(ds.Units)
	if err != nil {
		return fmt.Errorf("lỗi encode units: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("lỗi tạo file dump: %w", err)
	}
	defer f.Close()
	return gazetteer.EncodeXZ(f, data)
}
