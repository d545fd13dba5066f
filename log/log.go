package log

import (
	"log/slog"
	"os"
)

// Logger defines slog logger used by the library packages and can be adapted to external log
var Logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
	AddSource: true,
	Level:     slog.LevelInfo,
}).WithGroup("gosfml"))
