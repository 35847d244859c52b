// Command addrctl parse địa chỉ, nạp gazetteer và quản trị store từ dòng lệnh.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zh-address-parser/app/config"
	"github.com/zh-address-parser/app/providers"
	"github.com/zh-address-parser/helpers/logger"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli trạng thái dùng chung giữa các subcommand
type cli struct {
	configDir string
	cfg       *config.Config
	logger    *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "addrctl",
		Short:         "Công cụ dòng lệnh cho Chinese address parser",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			if c.configDir != "" {
				paths = append(paths, c.configDir)
			}
			cfg, err := config.Load(paths...)
			if err != nil {
				return err
			}
			zl, err := logger.New(cfg.App.Env, cfg.Log.Level)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = zl
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configDir, "config", "", "thư mục chứa app.yaml")

	root.AddCommand(
		newParseCmd(c),
		newBatchCmd(c),
		newImportCmd(c),
		newMigrateCmd(c),
		newTokenCmd(c),
	)
	return root
}

// container dựng các thành phần, caller phải Close
func (c *cli) container(ctx context.Context, opts providers.Options) (*providers.Container, error) {
	return providers.New(ctx, c.cfg, c.logger, opts)
}
