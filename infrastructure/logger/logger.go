package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var logger = log.New()

func init() {
	Configure(os.Getenv("ENV"), os.Getenv("LOGGER_FORMAT"), os.Getenv("LOG_LEVEL"), os.Getenv("LOG_TO_FILE") == "true")
}

// Configure sets output, formatter and level of the process logger.
// File output goes to logs/<date><env>.log and only when toFile is set.
func Configure(env, format, level string, toFile bool) {
	logger.Out = os.Stdout
	if toFile {
		if w, err := openLogFile(env); err != nil {
			log.Warnf("Failed to open log file: %v, falling back to stdout", err)
		} else {
			logger.Out = w
		}
	}

	if strings.EqualFold(format, "text") {
		logger.Formatter = &log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339Nano}
	} else {
		logger.Formatter = &log.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
}

func openLogFile(env string) (io.Writer, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	logsDir := filepath.Join(cwd, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}
	filePath := filepath.Join(logsDir, fmt.Sprintf("%s%s.log", time.Now().Format("2006-01-02"), env))
	return os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
}

// SetOutput redirects the process logger, mainly for tests.
func SetOutput(w io.Writer) { logger.Out = w }

func GetLogger() *log.Entry {
	function, file, line, _ := runtime.Caller(1)

	functionObject := runtime.FuncForPC(function)
	name := ""
	if functionObject != nil {
		name = functionObject.Name()
	}
	entry := logger.WithFields(log.Fields{
		"requestId": uuid.NewString(),
		"function":  name,
		"file":      file,
		"line":      line,
	})

	return entry
}
