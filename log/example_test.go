package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/deferred/log"
)

func ExampleMake() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatJSON),
		log.WithTimeLayout("none"),
	)

	logger.Info("call deferred", slog.String("func", "add"), slog.Int("args", 2))
	// Output: {"level":"INFO","msg":"call deferred","func":"add","args":2}
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none")).
		With(slog.String("component", "adapter"))

	logger.Warn("label not forwarded")
	// Output: level=WARN msg="label not forwarded" component=adapter
}
