package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/xxxsen/retrocoll/internal/collection"
	"github.com/xxxsen/retrocoll/internal/gamelib"
)

// ShowCommand prints the games of one system or collection.
type ShowCommand struct {
	libraryRunner
	name    string
	sort    string
	filters []string
	text    string
}

func NewShowCommand() *ShowCommand { return &ShowCommand{} }

func (c *ShowCommand) Name() string { return "show" }

func (c *ShowCommand) Desc() string {
	return "按排序与过滤条件输出某个系统或合集中的游戏"
}

func (c *ShowCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.name, "name", "", "系统或合集名称")
	f.StringVar(&c.sort, "sort", "", "排序方式, 例如 \"last played, descending\"")
	f.StringArrayVar(&c.filters, "filter", nil, "过滤条件, 格式 type=v1,v2 (genre/players/developer/favorites/kidgame/vendor)")
	f.StringVar(&c.text, "text", "", "按名称过滤的文本")
}

func (c *ShowCommand) PreRun(ctx context.Context) error {
	if strings.TrimSpace(c.name) == "" {
		return errors.New("show requires --name")
	}
	if _, _, err := parseFilters(c.filters); err != nil {
		return err
	}
	return c.libraryRunner.PreRun(ctx)
}

func (c *ShowCommand) Run(ctx context.Context) error {
	sys, err := c.resolveSystem(ctx)
	if err != nil {
		return err
	}

	viewSys := sys.ViewSystem()
	if c.sort != "" {
		found, ok := gamelib.SortTypeFromString(c.sort)
		if !ok {
			return fmt.Errorf("unknown sort %q", c.sort)
		}
		viewSys.SetSortID(found.ID)
	}

	idx := viewSys.Index()
	types, values, _ := parseFilters(c.filters)
	for i, t := range types {
		idx.SetFilter(t, values[i])
	}
	idx.SetTextFilter(c.text)

	tw := tabwriter.NewWriter(c.output(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s (%s)\n", sys.FullName(), viewSys.SortType().Description)
	writeDisplayList(tw, sys.Root(), c.env.DisplayOptions(), "")
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write games: %w", err)
	}
	return nil
}

// writeDisplayList prints the display projection of folder, descending into
// the sub folders it keeps.
func writeDisplayList(w io.Writer, folder *gamelib.FolderData, opts gamelib.DisplayOptions, indent string) {
	for _, node := range folder.ChildrenListToDisplay(opts) {
		if sub, ok := node.(*gamelib.FolderData); ok {
			fmt.Fprintf(w, "%s%s/\t\t\t%s\n", indent, node.Name(), node.Path())
			writeDisplayList(w, sub, opts, indent+"  ")
			continue
		}
		md := node.Metadata()
		fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\n", indent, node.Name(), sourceSystem(node), md.Get(gamelib.MetaPlayers), node.Path())
	}
}

// resolveSystem prefers collections so hidden or disabled ones can be shown.
func (c *ShowCommand) resolveSystem(ctx context.Context) (*gamelib.SystemData, error) {
	reg := c.env.Registry
	if rec, ok := reg.FindCollection(c.name); ok {
		if !rec.Populated {
			if rec.Decl.IsCustom {
				reg.PopulateCustomCollection(ctx, rec, nil)
			} else {
				reg.PopulateAutoCollection(ctx, rec)
			}
		}
		return rec.System, nil
	}
	for _, sys := range c.env.RealSystems() {
		if strings.EqualFold(sys.Name(), c.name) {
			return sys, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", c.name, collection.ErrCollectionNotFound)
}

func sourceSystem(node gamelib.FileNode) string {
	if src := node.Source(); src != nil && src.System() != nil {
		return src.System().Name()
	}
	return ""
}

// parseFilters splits "type=v1,v2" arguments.
func parseFilters(args []string) ([]gamelib.FilterType, [][]string, error) {
	var (
		types  []gamelib.FilterType
		values [][]string
	)
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid filter %q, want type=value", arg)
		}
		t, ok := gamelib.ParseFilterType(strings.TrimSpace(name))
		if !ok {
			return nil, nil, fmt.Errorf("unknown filter type %q", name)
		}
		var vals []string
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				vals = append(vals, v)
			}
		}
		types = append(types, t)
		values = append(values, vals)
	}
	return types, values, nil
}

func init() {
	RegisterRunner("show", func() IRunner { return NewShowCommand() })
}
