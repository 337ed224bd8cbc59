package ops

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sadopc/godupes/internal/dedupe"
	"github.com/sadopc/godupes/internal/model"
	"github.com/sadopc/godupes/internal/util"
)

// WriteText prints one block per group:
//
//	2 files, 5 B each, 5 B wasted
//	  /data/a.txt
//	    = /data/link.txt
//	    -> /data/shortcut
//	  /data/b.txt
//
// "=" marks a hard link to the file above, "->" a symbolic link to it.
func WriteText(w io.Writer, groups []model.Group) error {
	bw := bufio.NewWriter(w)
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		n := int64(len(g.Files))
		fmt.Fprintf(bw, "%d %s, %s each, %s wasted\n",
			n, util.Plural(n, "file"), util.FormatSize(g.Size), util.FormatSize(g.Wasted()))
		for _, f := range g.Files {
			fmt.Fprintf(bw, "  %s\n", f.Path)
			for _, link := range f.HardLinks {
				fmt.Fprintf(bw, "    = %s\n", link)
			}
			for _, link := range f.Symlinks {
				fmt.Fprintf(bw, "    -> %s\n", link)
			}
		}
	}
	return bw.Flush()
}

// WriteSummary prints a one-line total for a report.
func WriteSummary(w io.Writer, report *dedupe.Report) error {
	s := report.Stats
	_, err := fmt.Fprintf(w, "%s duplicate %s, %s %s, %s wasted\n",
		util.FormatInt(int64(s.Groups)), util.Plural(int64(s.Groups), "group"),
		util.FormatInt(int64(s.DuplicateFiles)), util.Plural(int64(s.DuplicateFiles), "file"),
		util.FormatSize(s.WastedBytes))
	return err
}
