package cmd

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/axekit/axe/internal/fsutil"
	"github.com/axekit/axe/internal/hashutil"
)

func init() {
	var algo, include string
	var exclude []string
	var contentOnly bool
	cmd := &cobra.Command{
		Use:   "hash <path>...",
		Short: "Print digests of files or directory trees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := hashutil.Algo(algo)
			w := cmd.OutOrStdout()
			for _, p := range args {
				p = fsutil.ExpandHome(p)
				if !fsutil.IsDir(p) {
					sum, err := hashutil.File(p, a)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s  %s\n", sum, p)
					continue
				}
				if include == "" {
					var sum string
					var err error
					if contentOnly {
						sum, err = hashutil.ContentDigest(p, a)
					} else {
						sum, err = hashutil.DirDigest(p, a, exclude...)
					}
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s  %s/\n", sum, p)
					continue
				}
				err := fsutil.WalkFiles(p, func(path string, d fs.DirEntry) error {
					if !fsutil.MatchGlob(include, d.Name()) {
						return nil
					}
					sum, err := hashutil.File(path, a)
					if err != nil {
						return err
					}
					fmt.Fprintf(w, "%s  %s\n", sum, path)
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&algo, "algo", string(hashutil.SHA256), "digest algorithm: md5 or sha256")
	cmd.Flags().StringVar(&include, "include", "", "hash each file in a directory whose name matches this glob instead of the whole tree")
	cmd.Flags().BoolVar(&contentOnly, "content-only", false, "digest only file contents of a directory, ignoring names and excludes")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "path fragments skipped when hashing a directory tree")
	rootCmd.AddCommand(cmd)
}
