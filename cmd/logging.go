package cmd

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rubiojr/abigen/compiler"
)

// setupLogging installs the compiler logger: debug level with --verbose,
// warnings only otherwise. Logs go to the command's error writer.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := zapcore.WarnLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}
	w := cmd.Root().ErrWriter
	if w == nil {
		w = os.Stderr
	}
	compiler.SetLogger(newLogger(w, level))
	return ctx, nil
}

func newLogger(w io.Writer, level zapcore.Level) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}
