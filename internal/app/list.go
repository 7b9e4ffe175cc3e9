package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/retrocoll/internal/collection"
	"github.com/xxxsen/retrocoll/internal/gamelib"
)

// ListCommand prints the systems on display and every known collection.
type ListCommand struct {
	libraryRunner
	onlyDisplay bool
}

func NewListCommand() *ListCommand { return &ListCommand{} }

func (c *ListCommand) Name() string { return "list" }

func (c *ListCommand) Desc() string {
	return "列出当前展示的系统以及所有自动/自定义合集"
}

func (c *ListCommand) Init(f *pflag.FlagSet) {
	f.BoolVar(&c.onlyDisplay, "display-only", false, "只输出当前展示的系统列表")
}

func (c *ListCommand) Run(ctx context.Context) error {
	tw := tabwriter.NewWriter(c.output(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SYSTEM\tFULL NAME\tKIND\tGAMES")
	for _, sys := range c.env.Registry.Systems().All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", sys.Name(), sys.FullName(), systemKind(sys), sys.GameCount())
	}
	if !c.onlyDisplay {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "COLLECTION\tTITLE\tTYPE\tENABLED")
		for _, rec := range c.env.Registry.AutoCollections() {
			writeRecord(tw, rec, "auto")
		}
		for _, rec := range c.env.Registry.CustomCollections() {
			writeRecord(tw, rec, "custom")
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write list: %w", err)
	}
	logutil.GetLogger(ctx).Debug("list finished", zap.Int("systems", c.env.Registry.Systems().Len()))
	return nil
}

func writeRecord(w *tabwriter.Writer, rec *collection.Record, kind string) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", rec.Name(), rec.System.FullName(), kind, rec.Enabled)
}

func systemKind(sys *gamelib.SystemData) string {
	switch {
	case sys.IsGroupedCustomCollection():
		return "bundle"
	case sys.IsCollection():
		return "collection"
	case !sys.IsGameSystem():
		return "tool"
	}
	return "system"
}

func init() {
	RegisterRunner("list", func() IRunner { return NewListCommand() })
}
