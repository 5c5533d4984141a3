package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config controla formato y nivel del log de la aplicación.
type Config struct {
	Env   string // development usa consola legible; cualquier otro valor, JSON
	Name  string // nombre del servicio, anotado en cada línea
	Level string // trace, debug, info, warn, error (LOG_LEVEL)
}

// Logger es el logger estructurado de la aplicación, sobre zerolog.
type Logger struct {
	zl zerolog.Logger
}

// New construye el logger según el entorno. Un nivel desconocido o vacío
// cae a info en vez de fallar el arranque.
func New(cfg Config) *Logger {
	var zl zerolog.Logger
	if cfg.Env == "development" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	} else {
		zl = zerolog.New(os.Stdout)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	ctx := zl.Level(level).With().Timestamp()
	if cfg.Name != "" {
		ctx = ctx.Str("service", cfg.Name)
	}
	zl = ctx.Logger()

	// Las librerías que loguean por el logger global de zerolog salen por aquí.
	log.Logger = zl

	return &Logger{zl: zl}
}

// Trace, Debug, Info, Warn, Error, Fatal delegados a zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crea un sublogger con campos fijos.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog devuelve el logger interno por si se necesita la API directa.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
