package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pauljbernard/content-sub002/pkg/config"
	"github.com/pauljbernard/content-sub002/pkg/kb"
)

// kbWatchCmd represents the kb-watch command
var kbWatchCmd = &cobra.Command{
	Use:   "kb-watch [root]",
	Short: "Watch the knowledge base tree and keep its index fresh",
	Long: `Watch the knowledge base tree and print index changes as files are
added, removed or modified. Useful for verifying that a content sync job
is landing files where the server will see them.

Example:
  curriculated kb-watch /srv/kb`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		root := config.Get().KBRoot
		if len(args) > 0 {
			root = args[0]
		}

		if err := watchKB(root); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch knowledge base: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(kbWatchCmd)
}

func watchKB(root string) error {
	library := kb.NewLibrary(root)
	watcher, err := kb.NewWatcher(library)
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	fmt.Printf("Watching %s (%d files indexed). Ctrl-C to stop.\n", root, len(watcher.Index()))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	fmt.Printf("Stopped. Final index: %d files.\n", len(watcher.Index()))
	return nil
}
