package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// CreateCommand creates an empty custom collection.
type CreateCommand struct {
	libraryRunner
	name    string
	created string
}

func NewCreateCommand() *CreateCommand { return &CreateCommand{} }

func (c *CreateCommand) Name() string { return "create" }

func (c *CreateCommand) Desc() string {
	return "创建自定义合集, 名称冲突时自动追加序号"
}

func (c *CreateCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.name, "name", "", "合集名称, 为空时使用默认名称")
}

func (c *CreateCommand) Run(ctx context.Context) error {
	name, err := c.env.Registry.CreateCustomCollection(ctx, c.name)
	if err != nil {
		return err
	}
	c.created = name
	fmt.Fprintln(c.output(), name)
	return nil
}

// DeleteCommand removes a custom collection and its file.
type DeleteCommand struct {
	libraryRunner
	name string
}

func NewDeleteCommand() *DeleteCommand { return &DeleteCommand{} }

func (c *DeleteCommand) Name() string { return "delete" }

func (c *DeleteCommand) Desc() string {
	return "删除自定义合集及其 cfg 文件"
}

func (c *DeleteCommand) Init(f *pflag.FlagSet) {
	f.StringVar(&c.name, "name", "", "要删除的合集名称")
}

func (c *DeleteCommand) PreRun(ctx context.Context) error {
	if strings.TrimSpace(c.name) == "" {
		return errors.New("delete requires --name")
	}
	return c.libraryRunner.PreRun(ctx)
}

func (c *DeleteCommand) Run(ctx context.Context) error {
	if err := c.env.Registry.DeleteCustomCollection(ctx, c.name); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("custom collection deleted", zap.String("name", c.name))
	return nil
}

func init() {
	RegisterRunner("create", func() IRunner { return NewCreateCommand() })
	RegisterRunner("delete", func() IRunner { return NewDeleteCommand() })
}
