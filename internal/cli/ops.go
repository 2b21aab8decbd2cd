package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/filedepot/filedepot/internal/logging"
	"github.com/filedepot/filedepot/internal/storage"
)

var deleteRemoteHandle bool

var findByPath bool

var saveCmd = &cobra.Command{
	Use:   "save <source-file> <filename>",
	Short: "Save a file under a logical filename",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, err := buildRouter()
		if err != nil {
			return err
		}

		src, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer src.Close()

		res, err := router.Save(cmd.Context(), src, args[1])
		if err != nil {
			return err
		}

		logging.Info("saved",
			zap.String("filename", res.Filename),
			zap.Int64("size", res.Filesize),
			zap.String("kind", res.StorageKind),
			zap.String("bucket", res.BucketName))
		fmt.Println(res.Filename)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <filename>",
	Short: "Delete a file by logical filename (or remote object key)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, err := buildRouter()
		if err != nil {
			return err
		}

		target := storage.Filename(args[0])
		if deleteRemoteHandle {
			target = storage.RemoteHandle(args[0])
		}

		if err := router.Delete(cmd.Context(), target); err != nil {
			return err
		}
		logging.Info("deleted", zap.String("target", args[0]))
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <prefix>",
	Short: "List stored files matching a prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, err := buildRouter()
		if err != nil {
			return err
		}

		backend, err := router.Backend()
		if err != nil {
			return err
		}
		logging.Debug("finding", zap.String("backend", backend.Kind()), zap.String("prefix", args[0]))

		var entries []storage.Entry
		if findByPath {
			entries, err = router.FindByPath(cmd.Context(), args[0])
		} else {
			entries, err = router.FindByFilename(cmd.Context(), args[0])
		}
		if err != nil {
			return err
		}

		for _, e := range entries {
			if e.Remote {
				fmt.Printf("%s\t%d\n", e.Path, e.Size)
			} else {
				fmt.Println(e.Path)
			}
		}
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <filename>",
	Short: "Ensure local copies of files matching a logical filename",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, err := buildRouter()
		if err != nil {
			return err
		}

		entries, err := router.FindByFilename(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("no files match %q", args[0])
		}

		for _, e := range entries {
			path, err := router.Download(cmd.Context(), e)
			if err != nil {
				return err
			}
			fmt.Println(path)
		}
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteRemoteHandle, "remote-handle", false, "treat the argument as a remote object key")
	findCmd.Flags().BoolVar(&findByPath, "by-path", false, "use the prefix as-is instead of resolving it as a filename")

	rootCmd.AddCommand(saveCmd, deleteCmd, findCmd, downloadCmd)
}
