// Package cli implements the filedepot command tree. Configuration is
// merged from flags, an optional config file, and FILEDEPOT_*
// environment variables via viper; this layer is where credentials and
// settings are acquired before they reach the storage router.
package cli

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/filedepot/filedepot/internal/logging"
	"github.com/filedepot/filedepot/internal/metrics"
	"github.com/filedepot/filedepot/internal/storage"
)

var cfgFile string

// Execute executes the root command.
func Execute() error {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		logging.Error("command failed", zap.Error(err))
		return err
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "filedepot",
	Short: "Route files between local storage and an S3 bucket",
	Long: `filedepot saves, deletes, finds, and downloads files through a single
interface that transparently selects between local filesystem storage
and a remote S3 bucket.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logging.Config{
			Level:  viper.GetString("log_level"),
			Format: viper.GetString("log_format"),
		}); err != nil {
			return err
		}
		if addr := viper.GetString("metrics_addr"); addr != "" {
			go serveMetrics(addr)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.filedepot.yaml)")
	rootCmd.PersistentFlags().String("kind", "", `storage kind: empty for local, "s3" for remote`)
	rootCmd.PersistentFlags().String("bucket", "", "S3 bucket name")
	rootCmd.PersistentFlags().String("access-key", "", "S3 access key ID")
	rootCmd.PersistentFlags().String("secret-key", "", "S3 secret access key")
	rootCmd.PersistentFlags().String("region", "", "S3 region (default us-east-1)")
	rootCmd.PersistentFlags().String("endpoint", "", "custom S3 endpoint (MinIO etc.)")
	rootCmd.PersistentFlags().String("acl", "", `canned ACL for remote writes (default "public-read")`)
	rootCmd.PersistentFlags().String("base-path", "", "local base path joined with filenames")
	rootCmd.PersistentFlags().String("static-root", "", "prefix stripped from local paths to derive object keys")
	rootCmd.PersistentFlags().String("dir-perm", "", "octal permission mask for created directories (default 0666)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: json, console")
	rootCmd.PersistentFlags().String("metrics-addr", "", "serve Prometheus metrics on this address during the command (e.g. :9090)")

	for _, key := range []string{
		"kind", "bucket", "access-key", "secret-key", "region", "endpoint",
		"acl", "base-path", "static-root", "dir-perm", "log-level", "log-format",
		"metrics-addr",
	} {
		viper.BindPFlag(strings.ReplaceAll(key, "-", "_"), rootCmd.PersistentFlags().Lookup(key))
	}

	viper.SetEnvPrefix("FILEDEPOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".filedepot")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// serveMetrics exposes the Prometheus handler for the lifetime of the
// command, for long-running save/download runs.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	logging.Info("serving metrics", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.Error("metrics server failed", zap.Error(err))
	}
}

// buildRouter assembles a storage.Router from the merged configuration.
func buildRouter() (*storage.Router, error) {
	var perm os.FileMode
	if s := viper.GetString("dir_perm"); s != "" {
		v, err := strconv.ParseUint(strings.TrimPrefix(s, "0o"), 8, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid dir-perm %q: %w", s, err)
		}
		perm = os.FileMode(v)
	}

	cfg := storage.Config{
		Kind:             viper.GetString("kind"),
		Bucket:           viper.GetString("bucket"),
		AccessKeyID:      viper.GetString("access_key"),
		SecretAccessKey:  viper.GetString("secret_key"),
		Region:           viper.GetString("region"),
		Endpoint:         viper.GetString("endpoint"),
		ACL:              viper.GetString("acl"),
		StaticRootParent: viper.GetString("static_root"),
		DirPerm:          perm,
	}
	if base := viper.GetString("base_path"); base != "" {
		cfg.BasePath = storage.StaticPath(base)
	}

	return storage.New(cfg)
}
