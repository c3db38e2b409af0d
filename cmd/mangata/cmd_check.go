package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mangata/workspace"
)

func newCheckCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Parse AsciiDoc files and verify the node tree against the source",
		Long: `Parse every .adoc, .asciidoc and .asc file named or found below the
given directories, print recovery diagnostics, and verify that every node's
raw text is exactly the slice of the source it claims to cover.

With --watch, a single directory is polled and files are checked again
whenever they change, until interrupted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.bind(cmd.Flags(), "attribute", "attributes-file", "max-depth")
			opts, err := cfg.parseOptions()
			if err != nil {
				return err
			}

			quiet, _ := cmd.Flags().GetBool("quiet")
			watch, _ := cmd.Flags().GetBool("watch")
			if watch {
				if len(args) != 1 {
					return errors.New("--watch takes exactly one directory")
				}
				interval, _ := cmd.Flags().GetDuration("interval")
				return watchDir(cmd, workspace.New(args[0], opts...), interval, quiet)
			}

			paths, err := collectSources(args)
			if err != nil {
				return err
			}

			ws := workspace.New(".", opts...)
			failed := 0
			for _, path := range paths {
				if err := ws.ScanFile(path); err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				if !report(cmd.OutOrStdout(), ws.GetFile(path), quiet) {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(paths))
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "checked %d files\n", len(paths))
			return nil
		},
	}

	cmd.Flags().BoolP("quiet", "q", false, "only report failures, not recovery diagnostics")
	cmd.Flags().BoolP("watch", "w", false, "keep checking the directory as files change")
	cmd.Flags().Duration("interval", time.Second, "poll interval for --watch")
	addParseFlags(cmd)

	return cmd
}

// collectSources expands directories into the source files below them,
// skipping hidden directories. Files named explicitly are kept whatever
// their extension.
func collectSources(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != arg && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if workspace.IsSource(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
	}
	return paths, nil
}

// report prints the outcome for one file and returns false when the file
// failed to parse or its tree does not match the source.
func report(w io.Writer, f *workspace.File, quiet bool) bool {
	if f.ParseErr != nil {
		fmt.Fprintf(w, "%s: error: %v\n", f.Path, f.ParseErr)
		return false
	}
	if !quiet {
		for _, d := range f.Doc.Diagnostics {
			fmt.Fprintf(w, "%s:%s\n", f.Path, d)
		}
	}
	for _, v := range f.Violations {
		fmt.Fprintf(w, "%s: invalid: %v\n", f.Path, v)
	}
	return len(f.Violations) == 0
}

func watchDir(cmd *cobra.Command, ws *workspace.Workspace, interval time.Duration, quiet bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	watcher := workspace.NewFileWatcher(ws, interval)
	watcher.OnChange = func(path string, f *workspace.File) {
		if f == nil {
			log.Infof("removed %s", path)
			return
		}
		if report(cmd.OutOrStdout(), f, quiet) {
			log.Infof("ok %s", path)
		}
	}
	watcher.Start()
	defer watcher.Stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", ws.RootDir())
	<-ctx.Done()
	return nil
}
