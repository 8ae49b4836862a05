// Package main 车辆交易市场命令行入口
//
//	market serve                                  启动 HTTP 服务
//	market migrate                                建表并写入预置类别
//	market create-user                            交互式注册用户
//	market create-ad --user <id> [--category <id>] 交互式发布广告
//	market seed-vehicles --catalog <file> --category <id>
//	market seed-users --count <n> [--seed <n>] [--invalid-ratio <r>]
//	market validate <kind> <value>                校验单个字段
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"katydid-vehicle-market/internal/config"
	"katydid-vehicle-market/internal/logger"
)

// errUsage 参数错误，退出码 2
var errUsage = errors.New("usage")

const usage = `usage: market <command> [flags]

commands:
  serve                                   run the HTTP API
  migrate                                 create tables and seed categories
  create-user                             register a user interactively
  create-ad --user <id> [--category <id>] publish an advertisement interactively
  seed-vehicles --catalog <file> --category <id>
                                          import brands and models
  seed-users --count <n> [--seed <n>] [--invalid-ratio <r>]
                                          generate random users
  validate <kind> <value>                 validate a single value
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout)
	stop()

	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app 一次命令执行的共享依赖
type app struct {
	cfg *config.Config
	log *zap.Logger
	fs  *pflag.FlagSet
	in  io.Reader
	out io.Writer
}

type command func(ctx context.Context, a *app) error

type commandEntry struct {
	run   command
	flags func(fs *pflag.FlagSet)
}

var commands = map[string]commandEntry{
	"serve":         {run: serve},
	"migrate":       {run: migrate},
	"create-user":   {run: createUser},
	"create-ad":     {run: createAd, flags: createAdFlags},
	"seed-vehicles": {run: seedVehicles, flags: seedVehiclesFlags},
	"seed-users":    {run: seedUsers, flags: seedUsersFlags},
	"validate":      {run: validate},
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}
	entry, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	config.Flags(fs)
	if entry.flags != nil {
		entry.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	configFile, _ := fs.GetString("config")
	cfg, err := config.Load(configFile, fs)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() {
		// stderr 上的 Sync 在部分平台返回 EINVAL，忽略
		_ = log.Sync()
	}()

	return entry.run(ctx, &app{cfg: cfg, log: log, fs: fs, in: in, out: out})
}
