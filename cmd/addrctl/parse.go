package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"github.com/zh-address-parser/app/providers"
	"github.com/zh-address-parser/app/requests"
)

// parseFlags cờ tùy chọn parse dùng chung cho parse và batch
type parseFlags struct {
	noName        bool
	noPhone       bool
	noPostal      bool
	filter        []string
	nameMaxLength int
}

func (f *parseFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noName, "no-name", false, "không tách tên người nhận")
	cmd.Flags().BoolVar(&f.noPhone, "no-phone", false, "không tách số điện thoại")
	cmd.Flags().BoolVar(&f.noPostal, "no-postal", false, "không tách mã bưu chính")
	cmd.Flags().StringSliceVar(&f.filter, "filter", nil, "nhãn bổ sung cần loại bỏ")
	cmd.Flags().IntVar(&f.nameMaxLength, "name-max", 0, "độ dài tên tối đa")
}

func (f *parseFlags) options() requests.ParseOptions {
	extractName, extractPhone, extractPostal := !f.noName, !f.noPhone, !f.noPostal
	return requests.ParseOptions{
		ExtractName:       &extractName,
		ExtractPhone:      &extractPhone,
		ExtractPostalCode: &extractPostal,
		TextFilter:        f.filter,
		NameMaxLength:     f.nameMaxLength,
	}
}

func newParseCmd(c *cli) *cobra.Command {
	flags := &parseFlags{}
	cmd := &cobra.Command{
		Use:   "parse ADDRESS...",
		Short: "Parse một hoặc nhiều địa chỉ, in kết quả JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := c.container(ctx, providers.Options{WithoutCache: true})
			if err != nil {
				return err
			}
			defer container.Close()

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetEscapeHTML(false)
			encoder.SetIndent("", "  ")
			for _, addr := range args {
				result, _, err := container.AddressService.ParseAddress(ctx, addr, flags.options())
				if err != nil {
					return err
				}
				if err := encoder.Encode(result); err != nil {
					return err
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
