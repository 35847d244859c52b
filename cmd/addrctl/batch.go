package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/app/providers"
	"github.com/zh-address-parser/helpers/utils"
	"github.com/zh-address-parser/internal/export"
	"go.uber.org/zap"
)

func newBatchCmd(c *cli) *cobra.Command {
	flags := &parseFlags{}
	var input, inputFormat, output, outputFormat string

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Parse danh sách địa chỉ từ file text/csv/xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputFormat == "" {
				inputFormat = formatFromPath(input, export.FormatText)
			}
			if outputFormat == "" {
				outputFormat = formatFromPath(output, export.FormatNDJSON)
			}

			in, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("lỗi mở file đầu vào: %w", err)
			}
			addresses, err := export.ReadAddresses(in, inputFormat)
			in.Close()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			container, err := c.container(ctx, providers.Options{})
			if err != nil {
				return err
			}
			defer container.Close()

			jobID := utils.GenerateShortID()
			container.AddressService.ProcessBatchJob(ctx, jobID, addresses, flags.options())
			results, err := container.AddressService.GetJobResults(jobID)
			if err != nil {
				return err
			}
			status, _ := container.AddressService.GetJobStatus(jobID)
			c.logger.Info("Batch hoàn thành",
				zap.Int("addresses", len(addresses)),
				zap.Any("summary", status.Summary))

			out := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("lỗi tạo file đầu ra: %w", err)
				}
				defer f.Close()
				out = f
			}
			return writeResults(out, outputFormat, results)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "", "file đầu vào")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "text | csv | xlsx (mặc định theo đuôi file)")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "file đầu ra, - là stdout")
	cmd.Flags().StringVar(&outputFormat, "output-format", "", "ndjson | csv | xlsx (mặc định theo đuôi file)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func formatFromPath(path, fallback string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "csv":
		return export.FormatCSV
	case "xlsx":
		return export.FormatXLSX
	case "ndjson", "jsonl":
		return export.FormatNDJSON
	case "txt":
		return export.FormatText
	}
	return fallback
}

func writeResults(out io.Writer, format string, results []models.AddressResult) error {
	switch format {
	case export.FormatCSV:
		return export.WriteCSV(out, results)
	case export.FormatXLSX:
		return export.WriteXLSX(out, results)
	case export.FormatNDJSON:
		encoder := json.NewEncoder(out)
		encoder.SetEscapeHTML(false)
		for i := range results {
			if err := encoder.Encode(&results[i]); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("định dạng đầu ra không hỗ trợ: %s", format)
}
